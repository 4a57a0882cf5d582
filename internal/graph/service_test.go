package graph

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:labvault_graph_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&GraphNode{}, &GraphEdge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestEnsureNode_Idempotent(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	first, err := svc.EnsureNode("project", 1, "gut microbiome")
	if err != nil {
		t.Fatalf("EnsureNode: %v", err)
	}
	second, err := svc.EnsureNode("project", 1, "renamed")
	if err != nil {
		t.Fatalf("EnsureNode again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("EnsureNode must reuse the existing node")
	}
	if second.Label != "gut microbiome" {
		t.Fatalf("label must not change on re-ensure, got %q", second.Label)
	}
}

func TestLink_CollapsesDuplicates(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	first, err := svc.Link("document", 10, "project", 1, "BELONGS_TO")
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	second, err := svc.Link("document", 10, "project", 1, "BELONGS_TO")
	if err != nil {
		t.Fatalf("Link again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("duplicate link must reuse the edge")
	}

	var edges int64
	if err := svc.DB.Model(&GraphEdge{}).Count(&edges).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if edges != 1 {
		t.Fatalf("expected 1 edge, got %d", edges)
	}
}

func TestNeighbors_BothDirections(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	if _, err := svc.Link("document", 10, "project", 1, "BELONGS_TO"); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if _, err := svc.Link("experiment", 5, "document", 10, "USES"); err != nil {
		t.Fatalf("Link: %v", err)
	}

	neighbors, err := svc.Neighbors("document", 10)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected 2 neighbors, got %d", len(neighbors))
	}

	directions := map[string]string{}
	for _, n := range neighbors {
		directions[n.Node.EntityType] = n.Direction
	}
	if directions["project"] != "out" || directions["experiment"] != "in" {
		t.Fatalf("unexpected directions: %v", directions)
	}
}

func TestNeighbors_UnknownEntity_Empty(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	neighbors, err := svc.Neighbors("document", 9999)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(neighbors) != 0 {
		t.Fatalf("expected no neighbors, got %d", len(neighbors))
	}
}

func TestUnlinkEntity_RemovesNodeAndEdges(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	if _, err := svc.Link("document", 10, "project", 1, "BELONGS_TO"); err != nil {
		t.Fatalf("Link: %v", err)
	}

	if err := svc.UnlinkEntity("document", 10); err != nil {
		t.Fatalf("UnlinkEntity: %v", err)
	}

	var edges int64
	if err := svc.DB.Model(&GraphEdge{}).Count(&edges).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if edges != 0 {
		t.Fatalf("edges must be gone, got %d", edges)
	}

	neighbors, err := svc.Neighbors("project", 1)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(neighbors) != 0 {
		t.Fatalf("project must have no neighbors left, got %d", len(neighbors))
	}

	// Unlinking an entity that was never linked is a no-op.
	if err := svc.UnlinkEntity("document", 10); err != nil {
		t.Fatalf("UnlinkEntity again: %v", err)
	}
}

func TestLinkDocumentLineage(t *testing.T) {
	svc := &GraphService{DB: newTestDB(t)}

	pid, eid := uint(1), uint(5)
	if err := svc.LinkDocumentLineage(42, "RNA-seq counts", &pid, &eid); err != nil {
		t.Fatalf("LinkDocumentLineage: %v", err)
	}

	neighbors, err := svc.Neighbors("document", 42)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("expected project and experiment links, got %d", len(neighbors))
	}

	relations := map[string]string{}
	for _, n := range neighbors {
		relations[n.Node.EntityType] = n.RelationType
	}
	if relations["project"] != "BELONGS_TO" || relations["experiment"] != "PRODUCED_BY" {
		t.Fatalf("unexpected relations: %v", relations)
	}
}
