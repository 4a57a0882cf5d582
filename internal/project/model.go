package project

import (
	"time"

	"gorm.io/datatypes"
)

// Project organizes research work. Experiments and documents hang off it.
type Project struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:50;default:active" json:"status"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

type CreateProjectRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type UpdateProjectRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	Metadata    datatypes.JSON `json:"metadata"`
}
