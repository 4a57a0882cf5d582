package protocol

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var validStatuses = map[string]bool{"draft": true, "approved": true, "deprecated": true}

type ProtocolService struct {
	DB *gorm.DB
}

func (ps *ProtocolService) CreateProtocol(req CreateProtocolRequest, creatorID uint) (*Protocol, error) {
	status := req.Status
	if status == "" {
		status = "draft"
	}
	if !validStatuses[status] {
		return nil, gorm.ErrInvalidData
	}
	version := req.Version
	if version == "" {
		version = "1.0"
	}

	if req.ParentID != nil {
		var parent Protocol
		if err := ps.DB.First(&parent, *req.ParentID).Error; err != nil {
			return nil, err
		}
	}

	protocol := Protocol{
		Title:       req.Title,
		Description: req.Description,
		Version:     version,
		Status:      status,
		Content:     req.Content,
		Tags:        req.Tags,
		CreatorID:   creatorID,
		ParentID:    req.ParentID,
	}
	if err := ps.DB.Create(&protocol).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (ps *ProtocolService) GetProtocolByID(id uint) (*Protocol, error) {
	var protocol Protocol
	if err := ps.DB.First(&protocol, id).Error; err != nil {
		return nil, err
	}
	return &protocol, nil
}

func (ps *ProtocolService) GetProtocols(status string) ([]Protocol, error) {
	q := ps.DB.Model(&Protocol{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var protocols []Protocol
	if err := q.Order("updated_at DESC").Find(&protocols).Error; err != nil {
		return nil, err
	}
	return protocols, nil
}

// GetRevisions returns the protocols revised from the given one.
func (ps *ProtocolService) GetRevisions(parentID uint) ([]Protocol, error) {
	var protocols []Protocol
	err := ps.DB.
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&protocols).Error
	if err != nil {
		return nil, err
	}
	return protocols, nil
}

func (ps *ProtocolService) UpdateProtocol(id uint, req UpdateProtocolRequest) (*Protocol, error) {
	protocol, err := ps.GetProtocolByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
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
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := ps.DB.Model(protocol).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return protocol, nil
}

func (ps *ProtocolService) DeleteProtocol(id uint) error {
	result := ps.DB.Delete(&Protocol{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
