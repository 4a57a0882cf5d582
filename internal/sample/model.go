package sample

import (
	"time"

	"gorm.io/datatypes"
)

// Sample tracks one biological sample, optionally derived from another.
type Sample struct {
	ID               uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	SampleType       string         `gorm:"size:100;not null" json:"sample_type"`
	Barcode          *string        `gorm:"size:100;uniqueIndex" json:"barcode,omitempty"`
	Status           string         `gorm:"size:50;default:received" json:"status"`
	Source           string         `gorm:"size:255" json:"source"`
	CollectionDate   *time.Time     `json:"collection_date,omitempty"`
	DNAConcentration *float64       `json:"dna_concentration,omitempty"`
	QualityScore     *float64       `json:"quality_score,omitempty"`
	Location         string         `gorm:"size:255" json:"location"`
	ExperimentID     *uint          `gorm:"index" json:"experiment_id,omitempty"`
	ParentSampleID   *uint          `json:"parent_sample_id,omitempty"`
	Metadata         datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Sample) TableName() string {
	return "samples"
}

type CreateSampleRequest struct {
	Name             string         `json:"name" binding:"required"`
	SampleType       string         `json:"sample_type" binding:"required"`
	Barcode          *string        `json:"barcode"`
	Status           string         `json:"status"`
	Source           string         `json:"source"`
	CollectionDate   *time.Time     `json:"collection_date"`
	DNAConcentration *float64       `json:"dna_concentration"`
	QualityScore     *float64       `json:"quality_score"`
	Location         string         `json:"location"`
	ExperimentID     *uint          `json:"experiment_id"`
	ParentSampleID   *uint          `json:"parent_sample_id"`
	Metadata         datatypes.JSON `json:"metadata"`
}

type UpdateSampleRequest struct {
	Name             *string        `json:"name"`
	Status           *string        `json:"status"`
	Source           *string        `json:"source"`
	DNAConcentration *float64       `json:"dna_concentration"`
	QualityScore     *float64       `json:"quality_score"`
	Location         *string        `json:"location"`
	ExperimentID     *uint          `json:"experiment_id"`
	Metadata         datatypes.JSON `json:"metadata"`
}
