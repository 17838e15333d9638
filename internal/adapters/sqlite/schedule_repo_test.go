package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/debits/internal/adapters/sqlite"
	"github.com/example/debits/internal/ports/secondary"
)

func TestScheduleRepository_SetReportSchedule_Upserts(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewScheduleRepository(db)
	ctx := context.Background()

	if err := repo.SetReportSchedule(ctx, "W1", time.Friday, 18); err != nil {
		t.Fatalf("SetReportSchedule failed: %v", err)
	}
	// Second write replaces, never duplicates.
	if err := repo.SetReportSchedule(ctx, "W1", time.Monday, 9); err != nil {
		t.Fatalf("SetReportSchedule failed: %v", err)
	}

	schedules, err := repo.ListReportSchedules(ctx)
	if err != nil {
		t.Fatalf("ListReportSchedules failed: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}
	if schedules[0].Day != time.Monday || schedules[0].Hour != 9 {
		t.Errorf("expected Monday 9, got %v %d", schedules[0].Day, schedules[0].Hour)
	}
}

func TestScheduleRepository_ListReportSchedules_MultipleWorkspaces(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewScheduleRepository(db)
	ctx := context.Background()

	if err := repo.SetReportSchedule(ctx, "W2", time.Sunday, 0); err != nil {
		t.Fatalf("SetReportSchedule failed: %v", err)
	}
	if err := repo.SetReportSchedule(ctx, "W1", time.Friday, 18); err != nil {
		t.Fatalf("SetReportSchedule failed: %v", err)
	}

	schedules, err := repo.ListReportSchedules(ctx)
	if err != nil {
		t.Fatalf("ListReportSchedules failed: %v", err)
	}
	if len(schedules) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(schedules))
	}
	if schedules[0].WorkspaceID != "W1" || schedules[1].WorkspaceID != "W2" {
		t.Errorf("expected workspaces ordered W1, W2; got %s, %s",
			schedules[0].WorkspaceID, schedules[1].WorkspaceID)
	}
}

func TestScheduleRepository_SetResetMode_Upserts(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewScheduleRepository(db)
	ctx := context.Background()

	if err := repo.SetResetMode(ctx, "W1", secondary.ResetManual); err != nil {
		t.Fatalf("SetResetMode failed: %v", err)
	}
	if err := repo.SetResetMode(ctx, "W1", secondary.ResetAutomatic); err != nil {
		t.Fatalf("SetResetMode failed: %v", err)
	}

	modes, err := repo.ListResetModes(ctx)
	if err != nil {
		t.Fatalf("ListResetModes failed: %v", err)
	}
	if len(modes) != 1 {
		t.Fatalf("expected 1 mode, got %d", len(modes))
	}
	if modes[0].Mode != secondary.ResetAutomatic {
		t.Errorf("expected automatic, got %s", modes[0].Mode)
	}
}

func TestScheduleRepository_ListResetModes_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewScheduleRepository(db)

	modes, err := repo.ListResetModes(context.Background())
	if err != nil {
		t.Fatalf("ListResetModes failed: %v", err)
	}
	if len(modes) != 0 {
		t.Errorf("expected no modes, got %d", len(modes))
	}
}
