package graph

import (
	"time"

	"gorm.io/datatypes"
)

// GraphNode mirrors a domain entity (document lineage, project,
// experiment) into the link layer. One node per (entity_type, entity_id).
type GraphNode struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string         `gorm:"size:50;not null;index:idx_entity,unique" json:"entity_type"`
	EntityID   uint           `gorm:"not null;index:idx_entity,unique" json:"entity_id"`
	Label      string         `gorm:"size:255" json:"label"`
	Properties datatypes.JSON `gorm:"type:jsonb" json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (GraphNode) TableName() string {
	return "graph_nodes"
}

// GraphEdge is a directed, typed relation between two nodes.
type GraphEdge struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FromNodeID   uint           `gorm:"not null;index" json:"from_node_id"`
	ToNodeID     uint           `gorm:"not null;index" json:"to_node_id"`
	RelationType string         `gorm:"size:50;not null" json:"relation_type"`
	Properties   datatypes.JSON `gorm:"type:jsonb" json:"properties,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (GraphEdge) TableName() string {
	return "graph_edges"
}

// Neighbor is one hop from a node, in either direction.
type Neighbor struct {
	Node         GraphNode `json:"node"`
	RelationType string    `json:"relation_type"`
	Direction    string    `json:"direction"` // "out" or "in"
}
