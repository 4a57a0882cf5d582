package util

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
)

// ExtOf returns the lowercase extension of a file name without the dot,
// or "" when the name has none.
func ExtOf(fileName string) string {
	idx := strings.LastIndex(fileName, ".")
	if idx < 0 || idx == len(fileName)-1 {
		return ""
	}
	return strings.ToLower(fileName[idx+1:])
}

// ParseTabular reads a count-table style document (csv, tsv or xlsx) and
// returns its header row plus data rows. The extension decides the parser.
func ParseTabular(content []byte, ext string) ([]string, [][]string, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return parseDelimited(content, ',')
	case "tsv", "txt":
		return parseDelimited(content, '\t')
	case "xlsx", "xls":
		return parseExcel(content)
	default:
		return nil, nil, fmt.Errorf("unsupported tabular file type: %s", ext)
	}
}

func parseDelimited(content []byte, sep rune) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	if len(allRows) < 1 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	return allRows[0], allRows[1:], nil
}

func parseExcel(content []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil, fmt.Errorf("excel file is empty")
	}

	headers := rows[0]
	var dataRows [][]string
	for _, row := range rows[1:] {
		newRow := make([]string, len(headers))
		copy(newRow, row)
		dataRows = append(dataRows, newRow)
	}

	return headers, dataRows, nil
}

// RowsToOrderedJSON maps each data row onto the header, preserving column
// order in the emitted JSON objects.
func RowsToOrderedJSON(headers []string, rows [][]string) []*orderedmap.OrderedMap {
	out := make([]*orderedmap.OrderedMap, 0, len(rows))
	for _, row := range rows {
		m := orderedmap.New()
		for i, h := range headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			m.Set(h, val)
		}
		out = append(out, m)
	}
	return out
}
