package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/pkg/api"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournalLifecycle(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	cycle := time.Date(2024, 7, 15, 18, 0, 0, 0, time.UTC)

	id, err := j.Begin(ctx, "fv3", cycle, "000", []string{"task_run_fcst", "fv3"})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected non-empty run id")
	}

	if err := j.SetRunDir(ctx, id, "/run/fcst"); err != nil {
		t.Fatalf("SetRunDir failed: %v", err)
	}
	if err := j.Finish(ctx, id, api.RunSucceeded, ""); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	records, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != id {
		t.Errorf("Expected id '%s', got '%s'", id, rec.ID)
	}
	if rec.Status != api.RunSucceeded {
		t.Errorf("Expected status succeeded, got '%s'", rec.Status)
	}
	if rec.RunDir != "/run/fcst" {
		t.Errorf("Expected rundir '/run/fcst', got '%s'", rec.RunDir)
	}
	if rec.KeyPath != "task_run_fcst.fv3" {
		t.Errorf("Expected key path 'task_run_fcst.fv3', got '%s'", rec.KeyPath)
	}
	if !rec.Cycle.Equal(cycle) {
		t.Errorf("Expected cycle %v, got %v", cycle, rec.Cycle)
	}
	if rec.FinishedAt == nil {
		t.Error("Expected finished_at to be set")
	}
}

func TestJournalFailedRun(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.Begin(ctx, "fv3", time.Now().UTC(), "001", []string{"fv3"})
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := j.Finish(ctx, id, api.RunFailed, "driver marker missing"); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	records, err := j.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if records[0].Status != api.RunFailed {
		t.Errorf("Expected status failed, got '%s'", records[0].Status)
	}
	if records[0].Reason != "driver marker missing" {
		t.Errorf("Expected failure reason recorded, got '%s'", records[0].Reason)
	}
}

func TestJournalRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := j.Begin(ctx, "fv3", time.Now().UTC(), "000", []string{"fv3"}); err != nil {
			t.Fatalf("Begin %d failed: %v", i, err)
		}
	}

	records, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}
