package experiment

import (
	"time"

	"gorm.io/datatypes"
)

// Experiment tracks one research experiment inside a project.
type Experiment struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         string         `gorm:"size:50;default:planned" json:"status"`
	ExperimentType string         `gorm:"size:100" json:"experiment_type"`
	ProjectID      uint           `gorm:"not null;index" json:"project_id"`
	CreatorID      uint           `gorm:"not null" json:"creator_id"`
	ProtocolID     *uint          `json:"protocol_id,omitempty"`
	Metadata       datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	Results        datatypes.JSON `gorm:"type:jsonb" json:"results,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (Experiment) TableName() string {
	return "experiments"
}

type CreateExperimentRequest struct {
	Name           string         `json:"name" binding:"required"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	ExperimentType string         `json:"experiment_type"`
	ProjectID      uint           `json:"project_id" binding:"required"`
	ProtocolID     *uint          `json:"protocol_id"`
	Metadata       datatypes.JSON `json:"metadata"`
}

type UpdateExperimentRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	Status         *string        `json:"status"`
	ExperimentType *string        `json:"experiment_type"`
	ProtocolID     *uint          `json:"protocol_id"`
	Metadata       datatypes.JSON `json:"metadata"`
	Results        datatypes.JSON `json:"results"`
}
