package logs

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"labvault-api/internal/util"

	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

func (ls *LogService) Log(log SystemLog, metadata interface{}) error {
	var metaStr *string

	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			str := string(b)
			metaStr = &str
		}
	}

	newLog := SystemLog{
		Level:     log.Level,
		Service:   log.Service,
		UserID:    log.UserID,
		Action:    log.Action,
		Message:   log.Message,
		Document:  log.Document,
		Tags:      log.Tags,
		Metadata:  metaStr,
		CreatedAt: time.Now(),
	}

	return ls.DB.Create(&newLog).Error
}

func (ls *LogService) GetLogs(input LogFilterInput) ([]LogRow, LogAggregates, int64, int, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 || input.PageSize > 100 {
		input.PageSize = 20
	}

	base := ls.DB.
		Table("logs").
		Select("logs.*, u.firstname as firstname, u.lastname as lastname").
		Joins("LEFT JOIN users u ON logs.user_id = u.id")

	// Default window: last 30 days
	if input.StartDate == nil && input.EndDate == nil {
		base = base.Where("logs.created_at >= ?", time.Now().AddDate(0, 0, -30))
	} else {
		start, hasStart, end, hasEnd, err := util.ParseDateRange(input.StartDate, input.EndDate)
		if err != nil {
			return nil, LogAggregates{}, 0, 0, err
		}
		if hasStart {
			base = base.Where("logs.created_at >= ?", start)
		}
		if hasEnd {
			base = base.Where("logs.created_at < ?", end)
		}
	}

	if input.UserID != nil {
		base = base.Where("logs.user_id = ?", *input.UserID)
	}
	if input.Level != nil && strings.TrimSpace(*input.Level) != "" {
		base = base.Where("logs.level = ?", strings.TrimSpace(*input.Level))
	}
	if input.Service != nil && strings.TrimSpace(*input.Service) != "" {
		base = base.Where("logs.service = ?", strings.TrimSpace(*input.Service))
	}
	if input.Action != nil && strings.TrimSpace(*input.Action) != "" {
		base = base.Where("logs.action = ?", strings.TrimSpace(*input.Action))
	}
	if input.Document != nil && strings.TrimSpace(*input.Document) != "" {
		base = base.Where("COALESCE(logs.document,'') ILIKE ?", "%"+strings.TrimSpace(*input.Document)+"%")
	}
	if input.Search != nil && strings.TrimSpace(*input.Search) != "" {
		q := "%" + strings.TrimSpace(*input.Search) + "%"
		base = base.Where("logs.message ILIKE ? OR logs.action ILIKE ?", q, q)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	var rows []LogRow
	offset := (input.Page - 1) * input.PageSize
	if err := base.Session(&gorm.Session{}).
		Order("logs.created_at DESC").
		Limit(input.PageSize).
		Offset(offset).
		Scan(&rows).Error; err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	aggs, err := ls.getAggregatesFromBase(base)
	if err != nil {
		return nil, LogAggregates{}, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(input.PageSize)))
	return rows, aggs, total, totalPages, nil
}

func (ls *LogService) getAggregatesFromBase(base *gorm.DB) (LogAggregates, error) {
	aggs := LogAggregates{}
	limit := 12

	// Derived table keeps the aggregate filters identical to the listing.
	sub := base.Session(&gorm.Session{}).
		Select("logs.service, logs.document")
	derived := ls.DB.Table("(?) as x", sub)

	{
		var out []AggItem
		if err := derived.Session(&gorm.Session{}).
			Select("x.service AS label, COUNT(*) AS count").
			Group("label").
			Order("count DESC").
			Limit(limit).
			Scan(&out).Error; err != nil {
			return LogAggregates{}, err
		}
		aggs.ByService = out
	}

	{
		var out []AggItem
		if err := derived.Session(&gorm.Session{}).
			Select("COALESCE(NULLIF(TRIM(x.document), ''), 'No document') AS label, COUNT(*) AS count").
			Group("label").
			Order("count DESC").
			Limit(limit).
			Scan(&out).Error; err != nil {
			return LogAggregates{}, err
		}
		aggs.ByDocument = out
	}

	return aggs, nil
}
