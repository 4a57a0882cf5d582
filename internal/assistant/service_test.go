package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"labvault-api/internal/document"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:labvault_assistant_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&document.DocumentVersion{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedLineage(t *testing.T, db *gorm.DB) uint {
	t.Helper()

	rootID := uint(1)
	comment := "Restored from version 1"
	versions := []document.DocumentVersion{
		{ID: 1, LineageRootID: &rootID, VersionNumber: 1, Title: "RNA-seq counts", ContentHash: "aaa", FileSize: 120, UploadedBy: 1},
		{ID: 2, LineageRootID: &rootID, VersionNumber: 2, Title: "RNA-seq counts", ContentHash: "bbb", FileSize: 140, UploadedBy: 1},
		{ID: 3, LineageRootID: &rootID, VersionNumber: 3, Title: "RNA-seq counts", ContentHash: "aaa", FileSize: 120, UploadedBy: 2, IsLatest: true, VersionComment: &comment},
	}
	if err := db.Create(&versions).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return rootID
}

func TestSummarizeLineage_PromptContent(t *testing.T) {
	db := newTestDB(t)
	rootID := seedLineage(t, db)

	var captured string
	svc := &AssistantService{
		DB: db,
		Generate: func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return "Three revisions; the latest restores the original counts.", nil
		},
	}

	summary, err := svc.SummarizeLineage(context.Background(), rootID)
	if err != nil {
		t.Fatalf("SummarizeLineage: %v", err)
	}
	if summary == "" {
		t.Fatalf("empty summary")
	}

	for _, want := range []string{"RNA-seq counts", "version 1", "version 3", "Restored from version 1", "(current)"} {
		if !strings.Contains(captured, want) {
			t.Fatalf("prompt missing %q:\n%s", want, captured)
		}
	}
}

func TestSummarizeLineage_MissingLineage(t *testing.T) {
	svc := &AssistantService{
		DB: newTestDB(t),
		Generate: func(ctx context.Context, prompt string) (string, error) {
			t.Fatal("generator must not run for a missing lineage")
			return "", nil
		},
	}

	_, err := svc.SummarizeLineage(context.Background(), 9999)
	if !errors.Is(err, document.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeLineage_GeneratorFailure(t *testing.T) {
	db := newTestDB(t)
	rootID := seedLineage(t, db)

	svc := &AssistantService{
		DB: db,
		Generate: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	_, err := svc.SummarizeLineage(context.Background(), rootID)
	if err == nil || !strings.Contains(err.Error(), "generation error") {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestSummarizeLineage_EmptyResponse(t *testing.T) {
	db := newTestDB(t)
	rootID := seedLineage(t, db)

	svc := &AssistantService{
		DB: db,
		Generate: func(ctx context.Context, prompt string) (string, error) {
			return "", nil
		},
	}

	_, err := svc.SummarizeLineage(context.Background(), rootID)
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Fatalf("expected no-response error, got %v", err)
	}
}
