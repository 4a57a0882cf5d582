package sample

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var validStatuses = map[string]bool{
	"received": true, "processing": true, "processed": true, "discarded": true,
}

// ErrDuplicateBarcode marks a barcode already assigned to another sample.
var ErrDuplicateBarcode = errors.New("barcode already in use")

type SampleService struct {
	DB *gorm.DB
}

func (ss *SampleService) CreateSample(req CreateSampleRequest) (*Sample, error) {
	status := req.Status
	if status == "" {
		status = "received"
	}
	if !validStatuses[status] {
		return nil, gorm.ErrInvalidData
	}

	if req.ParentSampleID != nil {
		var parent Sample
		if err := ss.DB.First(&parent, *req.ParentSampleID).Error; err != nil {
			return nil, err
		}
	}

	sample := Sample{
		Name:             req.Name,
		SampleType:       req.SampleType,
		Barcode:          req.Barcode,
		Status:           status,
		Source:           req.Source,
		CollectionDate:   req.CollectionDate,
		DNAConcentration: req.DNAConcentration,
		QualityScore:     req.QualityScore,
		Location:         req.Location,
		ExperimentID:     req.ExperimentID,
		ParentSampleID:   req.ParentSampleID,
		Metadata:         req.Metadata,
	}
	if err := ss.DB.Create(&sample).Error; err != nil {
		if isDuplicateError(err) {
			return nil, ErrDuplicateBarcode
		}
		return nil, err
	}
	return &sample, nil
}

func isDuplicateError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (ss *SampleService) GetSampleByID(id uint) (*Sample, error) {
	var sample Sample
	if err := ss.DB.First(&sample, id).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

func (ss *SampleService) GetSamples(experimentID *uint, sampleType, status string) ([]Sample, error) {
	q := ss.DB.Model(&Sample{})
	if experimentID != nil {
		q = q.Where("experiment_id = ?", *experimentID)
	}
	if sampleType != "" {
		q = q.Where("sample_type = ?", sampleType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var samples []Sample
	if err := q.Order("created_at DESC").Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

// GetDerivedSamples returns the direct children of a sample.
func (ss *SampleService) GetDerivedSamples(parentID uint) ([]Sample, error) {
	var samples []Sample
	err := ss.DB.
		Where("parent_sample_id = ?", parentID).
		Order("created_at ASC").
		Find(&samples).Error
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (ss *SampleService) UpdateSample(id uint, req UpdateSampleRequest) (*Sample, error) {
	sample, err := ss.GetSampleByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, gorm.ErrInvalidData
		}
		updates["status"] = *req.Status
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.DNAConcentration != nil {
		updates["dna_concentration"] = *req.DNAConcentration
	}
	if req.QualityScore != nil {
		updates["quality_score"] = *req.QualityScore
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ExperimentID != nil {
		updates["experiment_id"] = *req.ExperimentID
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}

	if len(updates) > 0 {
		if err := ss.DB.Model(sample).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return sample, nil
}

func (ss *SampleService) DeleteSample(id uint) error {
	result := ss.DB.Delete(&Sample{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
