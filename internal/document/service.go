package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"labvault-api/internal/blob"
	"labvault-api/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// defaultPutBackoff is the pause before the single blob-put retry.
const defaultPutBackoff = 250 * time.Millisecond

type DocumentService struct {
	DB    *gorm.DB
	Blobs blob.Store

	// Linker annotates new lineages in the graph layer. Optional.
	Linker GraphLinker

	// PutBackoff overrides the retry pause. Zero means default; tests
	// set it negative to skip the sleep.
	PutBackoff time.Duration
}

func (ds *DocumentService) Create(ctx context.Context, input CreateInput, content []byte, userID uint) (*DocumentVersion, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.ProjectID == nil && input.ExperimentID == nil {
		return nil, fmt.Errorf("%w: a project or experiment owner is required", ErrValidation)
	}

	hash := util.HashBytes(content)
	if err := ds.putBlob(ctx, hash, content); err != nil {
		return nil, err
	}

	tags, err := marshalTags(input.Tags)
	if err != nil {
		return nil, fmt.Errorf("%w: bad tags: %v", ErrValidation, err)
	}

	version := DocumentVersion{
		VersionNumber: 1,
		IsLatest:      true,
		ContentHash:   hash,

		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		DocumentType: input.DocumentType,
		FileName:     input.FileName,
		FileType:     util.ExtOf(input.FileName),
		MimeType:     input.MimeType,
		FileSize:     int64(len(content)),
		Tags:         tags,
		ProjectID:    input.ProjectID,
		ExperimentID: input.ExperimentID,
		UploadedBy:   userID,
	}

	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&version).Error; err != nil {
			return err
		}
		// The root points at itself; the id only exists after insert.
		rootID := version.ID
		if err := tx.Model(&version).Update("lineage_root_id", rootID).Error; err != nil {
			return err
		}
		version.LineageRootID = &rootID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ds.Linker != nil {
		if err := ds.Linker.LinkDocumentLineage(version.ID, version.Title, version.ProjectID, version.ExperimentID); err != nil {
			log.Printf("graph link for lineage %d failed: %v", version.ID, err)
		}
	}

	return &version, nil
}

func (ds *DocumentService) Branch(ctx context.Context, lineageRootID uint, content []byte, comment *string, userID uint) (*DocumentVersion, error) {
	latest, err := ds.GetLatest(lineageRootID)
	if err != nil {
		return nil, err
	}

	hash := util.HashBytes(content)
	if err := ds.putBlob(ctx, hash, content); err != nil {
		return nil, err
	}

	next := nextVersionFrom(latest, hash, comment, userID)
	next.FileSize = int64(len(content))

	if err := ds.flipAndInsert(latest, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (ds *DocumentService) Restore(ctx context.Context, lineageRootID uint, targetVersion int, userID uint) (*DocumentVersion, error) {
	target, err := ds.GetVersion(lineageRootID, targetVersion)
	if err != nil {
		return nil, err
	}
	latest, err := ds.GetLatest(lineageRootID)
	if err != nil {
		return nil, err
	}

	content, err := ds.Blobs.Get(ctx, blob.ObjectKey(target.ContentHash))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching version %d content: %v", ErrStorage, targetVersion, err)
	}
	if util.HashBytes(content) != target.ContentHash {
		return nil, fmt.Errorf("%w: stored content for version %d does not match its recorded hash", ErrIntegrity, targetVersion)
	}

	// Content-addressed keys make the copy a re-put under the same key.
	if err := ds.putBlob(ctx, target.ContentHash, content); err != nil {
		return nil, err
	}

	comment := fmt.Sprintf("Restored from version %d", targetVersion)
	next := nextVersionFrom(target, target.ContentHash, &comment, userID)
	next.VersionNumber = latest.VersionNumber + 1
	next.FileSize = target.FileSize

	if err := ds.flipAndInsert(latest, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// nextVersionFrom builds the row for the next version, copying metadata
// from source. The version number assumes source is the current latest;
// Restore overrides it.
func nextVersionFrom(source *DocumentVersion, hash string, comment *string, userID uint) DocumentVersion {
	return DocumentVersion{
		LineageRootID:   source.LineageRootID,
		VersionNumber:   source.VersionNumber + 1,
		IsLatest:        true,
		ContentHash:     hash,
		VersionComment:  comment,
		ParentLineageID: source.LineageRootID,

		Title:        source.Title,
		Description:  source.Description,
		DocumentType: source.DocumentType,
		FileName:     source.FileName,
		FileType:     source.FileType,
		MimeType:     source.MimeType,
		FileSize:     source.FileSize,
		Tags:         source.Tags,
		ProjectID:    source.ProjectID,
		ExperimentID: source.ExperimentID,
		UploadedBy:   userID,
	}
}

// flipAndInsert atomically moves the latest pointer from prev to next.
// The guarded UPDATE is the compare-and-swap closing the read-flip race:
// if another writer already flipped prev, RowsAffected is 0 and the whole
// transaction rolls back with ErrVersionConflict. The unique
// (lineage_root_id, version_number) index catches anything that slips past.
func (ds *DocumentService) flipAndInsert(prev *DocumentVersion, next *DocumentVersion) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DocumentVersion{}).
			Where("id = ? AND is_latest = ?", prev.ID, true).
			Update("is_latest", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return ErrVersionConflict
		}
		return tx.Create(next).Error
	})
}

func (ds *DocumentService) ListVersions(lineageRootID uint) ([]DocumentVersion, error) {
	var versions []DocumentVersion
	err := ds.DB.
		Where("lineage_root_id = ?", lineageRootID).
		Order("version_number ASC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: lineage %d", ErrNotFound, lineageRootID)
	}
	return versions, nil
}

func (ds *DocumentService) GetVersion(lineageRootID uint, versionNumber int) (*DocumentVersion, error) {
	var version DocumentVersion
	err := ds.DB.
		Where("lineage_root_id = ? AND version_number = ?", lineageRootID, versionNumber).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: lineage %d version %d", ErrNotFound, lineageRootID, versionNumber)
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (ds *DocumentService) GetLatest(lineageRootID uint) (*DocumentVersion, error) {
	var version DocumentVersion
	err := ds.DB.
		Where("lineage_root_id = ? AND is_latest = ?", lineageRootID, true).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: lineage %d has no latest version", ErrNotFound, lineageRootID)
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (ds *DocumentService) List(filter ListFilter) ([]DocumentVersion, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	q := ds.DB.Model(&DocumentVersion{})
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.ExperimentID != nil {
		q = q.Where("experiment_id = ?", *filter.ExperimentID)
	}
	if filter.DocumentType != nil && strings.TrimSpace(*filter.DocumentType) != "" {
		q = q.Where("document_type = ?", strings.TrimSpace(*filter.DocumentType))
	}
	if filter.FileType != nil && strings.TrimSpace(*filter.FileType) != "" {
		q = q.Where("file_type = ?", strings.TrimSpace(*filter.FileType))
	}
	if filter.LatestOnly {
		q = q.Where("is_latest = ?", true)
	}

	var docs []DocumentVersion
	err := q.Order("created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (ds *DocumentService) Download(ctx context.Context, lineageRootID uint, versionNumber int) ([]byte, *DocumentVersion, error) {
	var version *DocumentVersion
	var err error
	if versionNumber <= 0 {
		version, err = ds.GetLatest(lineageRootID)
	} else {
		version, err = ds.GetVersion(lineageRootID, versionNumber)
	}
	if err != nil {
		return nil, nil, err
	}

	content, err := ds.Blobs.Get(ctx, blob.ObjectKey(version.ContentHash))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching content for version %d: %v", ErrStorage, version.VersionNumber, err)
	}
	if util.HashBytes(content) != version.ContentHash {
		return nil, nil, fmt.Errorf("%w: content for version %d does not match its recorded hash", ErrIntegrity, version.VersionNumber)
	}

	return content, version, nil
}

func (ds *DocumentService) Preview(ctx context.Context, lineageRootID uint, versionNumber int, maxRows int) (*TabularPreview, error) {
	if maxRows <= 0 || maxRows > 500 {
		maxRows = 50
	}

	content, version, err := ds.Download(ctx, lineageRootID, versionNumber)
	if err != nil {
		return nil, err
	}

	headers, rows, err := util.ParseTabular(content, version.FileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	total := len(rows)
	truncated := total > maxRows
	if truncated {
		rows = rows[:maxRows]
	}

	ordered := util.RowsToOrderedJSON(headers, rows)
	out := make([]interface{}, len(ordered))
	for i, m := range ordered {
		out[i] = m
	}

	return &TabularPreview{
		Headers:   headers,
		Rows:      out,
		TotalRows: total,
		Truncated: truncated,
	}, nil
}

func (ds *DocumentService) DeleteLineage(ctx context.Context, lineageRootID uint, cascade bool, versionID uint) (*DeleteResult, error) {
	if cascade {
		return ds.deleteCascade(ctx, lineageRootID)
	}
	return ds.deleteSingle(ctx, lineageRootID, versionID)
}

func (ds *DocumentService) deleteCascade(ctx context.Context, lineageRootID uint) (*DeleteResult, error) {
	versions, err := ds.ListVersions(lineageRootID)
	if err != nil {
		return nil, err
	}

	var deleted int64
	err = ds.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("lineage_root_id = ?", lineageRootID).Delete(&DocumentVersion{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Rows are gone; blobs are best effort. Identical content shares a
	// key, across lineages too, so only hashes no surviving row still
	// references get deleted.
	var warnings []string
	seen := map[string]bool{}
	for _, v := range versions {
		if seen[v.ContentHash] {
			continue
		}
		seen[v.ContentHash] = true

		var remaining int64
		if err := ds.DB.Model(&DocumentVersion{}).
			Where("content_hash = ?", v.ContentHash).
			Count(&remaining).Error; err != nil || remaining > 0 {
			continue
		}
		if err := ds.Blobs.Delete(ctx, blob.ObjectKey(v.ContentHash)); err != nil && !errors.Is(err, blob.ErrNotFound) {
			msg := fmt.Sprintf("failed to delete blob for version %d (%s): %v", v.VersionNumber, v.ContentHash, err)
			log.Print(msg)
			warnings = append(warnings, msg)
		}
	}

	return &DeleteResult{Deleted: deleted, Warnings: warnings}, nil
}

// deleteSingle removes one explicit version row. Deleting the current
// latest is refused: it would leave the lineage with no latest pointer,
// and the pointer never moves backwards.
func (ds *DocumentService) deleteSingle(ctx context.Context, lineageRootID uint, versionID uint) (*DeleteResult, error) {
	if versionID == 0 {
		return nil, fmt.Errorf("%w: a version id is required for non-cascade delete", ErrValidation)
	}

	var version DocumentVersion
	err := ds.DB.
		Where("id = ? AND lineage_root_id = ?", versionID, lineageRootID).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: version id %d in lineage %d", ErrNotFound, versionID, lineageRootID)
	}
	if err != nil {
		return nil, err
	}

	if version.IsLatest {
		return nil, fmt.Errorf("%w: cannot delete the latest version without cascade", ErrValidation)
	}

	if err := ds.DB.Delete(&DocumentVersion{}, version.ID).Error; err != nil {
		return nil, err
	}

	var warnings []string
	var remaining int64
	if err := ds.DB.Model(&DocumentVersion{}).
		Where("content_hash = ?", version.ContentHash).
		Count(&remaining).Error; err == nil && remaining == 0 {
		if err := ds.Blobs.Delete(ctx, blob.ObjectKey(version.ContentHash)); err != nil && !errors.Is(err, blob.ErrNotFound) {
			msg := fmt.Sprintf("failed to delete blob for version %d (%s): %v", version.VersionNumber, version.ContentHash, err)
			log.Print(msg)
			warnings = append(warnings, msg)
		}
	}

	return &DeleteResult{Deleted: 1, Warnings: warnings}, nil
}

// putBlob writes content under its hash key, retrying once after a short
// backoff before surfacing ErrStorage.
func (ds *DocumentService) putBlob(ctx context.Context, hash string, content []byte) error {
	key := blob.ObjectKey(hash)
	err := ds.Blobs.Put(ctx, key, content)
	if err == nil {
		return nil
	}

	backoff := ds.PutBackoff
	if backoff == 0 {
		backoff = defaultPutBackoff
	}
	if backoff > 0 {
		time.Sleep(backoff)
	}

	if err := ds.Blobs.Put(ctx, key, content); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func marshalTags(tags []string) (datatypes.JSON, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
