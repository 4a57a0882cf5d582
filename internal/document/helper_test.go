package document

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"labvault-api/internal/blob"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:labvault_document_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&DocumentVersion{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*DocumentService, *blob.MemoryStore) {
	t.Helper()
	store := blob.NewMemoryStore()
	svc := &DocumentService{
		DB:         newTestDB(t),
		Blobs:      store,
		PutBackoff: -1,
	}
	return svc, store
}

func createTestLineage(t *testing.T, svc *DocumentService, content []byte) *DocumentVersion {
	t.Helper()
	pid := uint(7)
	doc, err := svc.Create(context.Background(), CreateInput{
		Title:     "RNA-seq counts",
		FileName:  "counts.csv",
		MimeType:  "text/csv",
		Tags:      []string{"rna-seq"},
		ProjectID: &pid,
	}, content, 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return doc
}

func strPtr(s string) *string { return &s }
