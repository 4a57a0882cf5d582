package graph

import (
	"errors"

	"gorm.io/gorm"
)

type GraphService struct {
	DB *gorm.DB
}

// EnsureNode returns the node for an entity, creating it on first sight.
// Label and properties are only written on creation.
func (gs *GraphService) EnsureNode(entityType string, entityID uint, label string) (*GraphNode, error) {
	var node GraphNode
	err := gs.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&node).Error
	if err == nil {
		return &node, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	node = GraphNode{EntityType: entityType, EntityID: entityID, Label: label}
	if err := gs.DB.Create(&node).Error; err != nil {
		// Lost a race with another EnsureNode; the winner's row serves.
		var existing GraphNode
		if ferr := gs.DB.
			Where("entity_type = ? AND entity_id = ?", entityType, entityID).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &node, nil
}

// Link connects two entities, creating their nodes as needed. Duplicate
// links of the same relation are collapsed.
func (gs *GraphService) Link(fromType string, fromID uint, toType string, toID uint, relationType string) (*GraphEdge, error) {
	from, err := gs.EnsureNode(fromType, fromID, "")
	if err != nil {
		return nil, err
	}
	to, err := gs.EnsureNode(toType, toID, "")
	if err != nil {
		return nil, err
	}

	var edge GraphEdge
	err = gs.DB.
		Where("from_node_id = ? AND to_node_id = ? AND relation_type = ?", from.ID, to.ID, relationType).
		First(&edge).Error
	if err == nil {
		return &edge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	edge = GraphEdge{FromNodeID: from.ID, ToNodeID: to.ID, RelationType: relationType}
	if err := gs.DB.Create(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// Neighbors returns every node one hop away, outgoing and incoming.
func (gs *GraphService) Neighbors(entityType string, entityID uint) ([]Neighbor, error) {
	var node GraphNode
	err := gs.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []Neighbor{}, nil
	}
	if err != nil {
		return nil, err
	}

	var out []GraphEdge
	if err := gs.DB.Where("from_node_id = ?", node.ID).Find(&out).Error; err != nil {
		return nil, err
	}
	var in []GraphEdge
	if err := gs.DB.Where("to_node_id = ?", node.ID).Find(&in).Error; err != nil {
		return nil, err
	}

	neighbors := make([]Neighbor, 0, len(out)+len(in))
	for _, e := range out {
		var n GraphNode
		if err := gs.DB.First(&n, e.ToNodeID).Error; err != nil {
			continue
		}
		neighbors = append(neighbors, Neighbor{Node: n, RelationType: e.RelationType, Direction: "out"})
	}
	for _, e := range in {
		var n GraphNode
		if err := gs.DB.First(&n, e.FromNodeID).Error; err != nil {
			continue
		}
		neighbors = append(neighbors, Neighbor{Node: n, RelationType: e.RelationType, Direction: "in"})
	}
	return neighbors, nil
}

// UnlinkEntity drops an entity's node and every edge touching it.
func (gs *GraphService) UnlinkEntity(entityType string, entityID uint) error {
	var node GraphNode
	err := gs.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return gs.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("from_node_id = ? OR to_node_id = ?", node.ID, node.ID).
			Delete(&GraphEdge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&GraphNode{}, node.ID).Error
	})
}

// LinkDocumentLineage wires a new document lineage to its owning project
// and experiment. Satisfies the document package's linker port.
func (gs *GraphService) LinkDocumentLineage(lineageRootID uint, title string, projectID, experimentID *uint) error {
	if _, err := gs.EnsureNode("document", lineageRootID, title); err != nil {
		return err
	}
	if projectID != nil {
		if _, err := gs.Link("document", lineageRootID, "project", *projectID, "BELONGS_TO"); err != nil {
			return err
		}
	}
	if experimentID != nil {
		if _, err := gs.Link("document", lineageRootID, "experiment", *experimentID, "PRODUCED_BY"); err != nil {
			return err
		}
	}
	return nil
}
