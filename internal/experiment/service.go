package experiment

import (
	"gorm.io/gorm"
)

var validStatuses = map[string]bool{
	"planned": true, "in_progress": true, "completed": true, "failed": true,
}

type ExperimentService struct {
	DB *gorm.DB
}

func (es *ExperimentService) CreateExperiment(req CreateExperimentRequest, creatorID uint) (*Experiment, error) {
	status := req.Status
	if status == "" {
		status = "planned"
	}
	if !validStatuses[status] {
		return nil, gorm.ErrInvalidData
	}

	experiment := Experiment{
		Name:           req.Name,
		Description:    req.Description,
		Status:         status,
		ExperimentType: req.ExperimentType,
		ProjectID:      req.ProjectID,
		CreatorID:      creatorID,
		ProtocolID:     req.ProtocolID,
		Metadata:       req.Metadata,
	}
	if err := es.DB.Create(&experiment).Error; err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (es *ExperimentService) GetExperimentByID(id uint) (*Experiment, error) {
	var experiment Experiment
	if err := es.DB.First(&experiment, id).Error; err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (es *ExperimentService) GetExperiments(projectID *uint, status string) ([]Experiment, error) {
	q := es.DB.Model(&Experiment{})
	if projectID != nil {
		q = q.Where("project_id = ?", *projectID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var experiments []Experiment
	if err := q.Order("updated_at DESC").Find(&experiments).Error; err != nil {
		return nil, err
	}
	return experiments, nil
}

func (es *ExperimentService) UpdateExperiment(id uint, req UpdateExperimentRequest) (*Experiment, error) {
	experiment, err := es.GetExperimentByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, gorm.ErrInvalidData
		}
		updates["status"] = *req.Status
	}
	if req.ExperimentType != nil {
		updates["experiment_type"] = *req.ExperimentType
	}
	if req.ProtocolID != nil {
		updates["protocol_id"] = *req.ProtocolID
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}
	if req.Results != nil {
		updates["results"] = req.Results
	}

	if len(updates) > 0 {
		if err := es.DB.Model(experiment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return experiment, nil
}

func (es *ExperimentService) DeleteExperiment(id uint) error {
	result := es.DB.Delete(&Experiment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
