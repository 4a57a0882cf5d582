package experiment

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:labvault_experiment_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&Experiment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreateExperiment_Defaults(t *testing.T) {
	svc := &ExperimentService{DB: newTestDB(t)}

	experiment, err := svc.CreateExperiment(CreateExperimentRequest{
		Name:           "16S sequencing run 1",
		ExperimentType: "metagenomics",
		ProjectID:      3,
	}, 9)
	if err != nil {
		t.Fatalf("CreateExperiment: %v", err)
	}
	if experiment.Status != "planned" {
		t.Fatalf("expected default status planned, got %q", experiment.Status)
	}
	if experiment.CreatorID != 9 || experiment.ProjectID != 3 {
		t.Fatalf("ownership fields wrong: %+v", experiment)
	}
}

func TestCreateExperiment_BadStatus(t *testing.T) {
	svc := &ExperimentService{DB: newTestDB(t)}

	_, err := svc.CreateExperiment(CreateExperimentRequest{
		Name: "x", ProjectID: 1, Status: "running",
	}, 1)
	if !errors.Is(err, gorm.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}

func TestGetExperiments_FilterByProject(t *testing.T) {
	svc := &ExperimentService{DB: newTestDB(t)}

	for i, pid := range []uint{1, 1, 2} {
		_, err := svc.CreateExperiment(CreateExperimentRequest{
			Name: fmt.Sprintf("e%d", i), ProjectID: pid,
		}, 1)
		if err != nil {
			t.Fatalf("CreateExperiment %d: %v", i, err)
		}
	}

	pid := uint(1)
	experiments, err := svc.GetExperiments(&pid, "")
	if err != nil {
		t.Fatalf("GetExperiments: %v", err)
	}
	if len(experiments) != 2 {
		t.Fatalf("expected 2 experiments for project 1, got %d", len(experiments))
	}
}

func TestUpdateExperiment_StatusAndResults(t *testing.T) {
	svc := &ExperimentService{DB: newTestDB(t)}
	experiment, err := svc.CreateExperiment(CreateExperimentRequest{
		Name: "qPCR validation", ProjectID: 1,
	}, 1)
	if err != nil {
		t.Fatalf("CreateExperiment: %v", err)
	}

	completed := "completed"
	results := datatypes.JSON([]byte(`{"ct_mean": 21.4}`))
	updated, err := svc.UpdateExperiment(experiment.ID, UpdateExperimentRequest{
		Status:  &completed,
		Results: results,
	})
	if err != nil {
		t.Fatalf("UpdateExperiment: %v", err)
	}
	if updated.Status != "completed" {
		t.Fatalf("status not updated: %q", updated.Status)
	}

	_, err = svc.UpdateExperiment(9999, UpdateExperimentRequest{Status: &completed})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeleteExperiment(t *testing.T) {
	svc := &ExperimentService{DB: newTestDB(t)}
	experiment, err := svc.CreateExperiment(CreateExperimentRequest{Name: "tmp", ProjectID: 1}, 1)
	if err != nil {
		t.Fatalf("CreateExperiment: %v", err)
	}

	if err := svc.DeleteExperiment(experiment.ID); err != nil {
		t.Fatalf("DeleteExperiment: %v", err)
	}
	if err := svc.DeleteExperiment(experiment.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
