package protocol

import (
	"time"

	"github.com/lib/pq"
)

// Protocol is a written experimental procedure. New revisions point at
// their predecessor through ParentID.
type Protocol struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Version     string         `gorm:"size:50;default:1.0" json:"version"`
	Status      string         `gorm:"size:50;default:draft" json:"status"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatorID   uint           `gorm:"not null" json:"creator_id"`
	ParentID    *uint          `json:"parent_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Protocol) TableName() string {
	return "protocols"
}

type CreateProtocolRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Status      string   `json:"status"`
	Content     string   `json:"content" binding:"required"`
	Tags        []string `json:"tags"`
	ParentID    *uint    `json:"parent_id"`
}

type UpdateProtocolRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
}
