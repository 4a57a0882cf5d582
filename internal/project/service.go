package project

import (
	"gorm.io/gorm"
)

var validStatuses = map[string]bool{"active": true, "archived": true, "completed": true}

type ProjectService struct {
	DB *gorm.DB
}

func (ps *ProjectService) CreateProject(req CreateProjectRequest, ownerID uint) (*Project, error) {
	status := req.Status
	if status == "" {
		status = "active"
	}
	if !validStatuses[status] {
		return nil, gorm.ErrInvalidData
	}

	project := Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		OwnerID:     ownerID,
		Metadata:    req.Metadata,
	}
	if err := ps.DB.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (ps *ProjectService) GetProjectByID(id uint) (*Project, error) {
	var project Project
	if err := ps.DB.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (ps *ProjectService) GetProjects(ownerID *uint, status string) ([]Project, error) {
	q := ps.DB.Model(&Project{})
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var projects []Project
	if err := q.Order("updated_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (ps *ProjectService) UpdateProject(id uint, req UpdateProjectRequest) (*Project, error) {
	project, err := ps.GetProjectByID(id)
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
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}

	if len(updates) > 0 {
		if err := ps.DB.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return project, nil
}

func (ps *ProjectService) DeleteProject(id uint) error {
	result := ps.DB.Delete(&Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
