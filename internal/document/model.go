package document

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentVersion is one physical revision of a research document. A
// lineage is the set of rows sharing a LineageRootID; exactly one row per
// lineage carries IsLatest=true after any completed operation.
//
// LineageRootID is nullable only for the instant between inserting a root
// row and pointing it at its own id inside the create transaction; every
// committed row has it set. The (lineage_root_id, version_number) unique
// index is the backstop against concurrent writers inserting the same
// version number.
type DocumentVersion struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	LineageRootID   *uint   `gorm:"index:idx_lineage_version,unique;index:idx_lineage_latest" json:"lineage_root_id"`
	VersionNumber   int     `gorm:"not null;default:1;index:idx_lineage_version,unique" json:"version_number"`
	IsLatest        bool    `gorm:"not null;index:idx_lineage_latest" json:"is_latest"`
	ContentHash     string  `gorm:"size:64;not null" json:"content_hash"`
	VersionComment  *string `gorm:"size:512" json:"version_comment,omitempty"`
	ParentLineageID *uint   `json:"parent_lineage_id,omitempty"`

	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	DocumentType string         `gorm:"size:50" json:"document_type"`
	FileName     string         `gorm:"size:255" json:"file_name"`
	FileType     string         `gorm:"size:50" json:"file_type"`
	MimeType     string         `gorm:"size:100" json:"mime_type"`
	FileSize     int64          `json:"file_size"`
	Tags         datatypes.JSON `gorm:"type:jsonb" json:"tags"`
	ProjectID    *uint          `gorm:"index" json:"project_id,omitempty"`
	ExperimentID *uint          `gorm:"index" json:"experiment_id,omitempty"`
	UploadedBy   uint           `gorm:"not null;index" json:"uploaded_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}

// CreateInput carries the caller-supplied metadata for a new lineage.
type CreateInput struct {
	Title        string
	Description  string
	DocumentType string
	FileName     string
	MimeType     string
	Tags         []string
	ProjectID    *uint
	ExperimentID *uint
}

// ListFilter narrows the document listing.
type ListFilter struct {
	ProjectID    *uint
	ExperimentID *uint
	DocumentType *string
	FileType     *string
	LatestOnly   bool
	Skip         int
	Limit        int
}

// DeleteResult reports what a lineage delete removed. Blob deletion is
// best effort; failures end up in Warnings without failing the operation.
type DeleteResult struct {
	Deleted  int64    `json:"deleted"`
	Warnings []string `json:"warnings,omitempty"`
}

// TabularPreview is the parsed head of a count-table style document.
type TabularPreview struct {
	Headers   []string      `json:"headers"`
	Rows      []interface{} `json:"rows"`
	TotalRows int           `json:"total_rows"`
	Truncated bool          `json:"truncated"`
}
