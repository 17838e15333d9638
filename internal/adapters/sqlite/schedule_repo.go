package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/debits/internal/ports/secondary"
)

// ScheduleRepository implements secondary.ScheduleRepository with SQLite.
// Report schedules and reset modes are both one-row-per-workspace upserts.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// SetReportSchedule stores the weekly report slot for a workspace.
func (r *ScheduleRepository) SetReportSchedule(ctx context.Context, workspaceID string, day time.Weekday, hour int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO report_schedules (workspace_id, report_day, report_hour) VALUES (?, ?, ?)
		 ON CONFLICT(workspace_id) DO UPDATE SET report_day = excluded.report_day, report_hour = excluded.report_hour, updated_at = CURRENT_TIMESTAMP`,
		workspaceID, int(day), hour,
	)
	if err != nil {
		return fmt.Errorf("failed to set report schedule: %w", err)
	}
	return nil
}

// ListReportSchedules retrieves every stored report schedule.
func (r *ScheduleRepository) ListReportSchedules(ctx context.Context) ([]*secondary.ReportSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT workspace_id, report_day, report_hour FROM report_schedules ORDER BY workspace_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list report schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*secondary.ReportSchedule
	for rows.Next() {
		var day int
		schedule := &secondary.ReportSchedule{}
		if err := rows.Scan(&schedule.WorkspaceID, &day, &schedule.Hour); err != nil {
			return nil, fmt.Errorf("failed to scan report schedule: %w", err)
		}
		schedule.Day = time.Weekday(day)
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report schedules: %w", err)
	}

	return schedules, nil
}

// SetResetMode stores the reset mode for a workspace.
func (r *ScheduleRepository) SetResetMode(ctx context.Context, workspaceID string, mode secondary.ResetMode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reset_modes (workspace_id, mode) VALUES (?, ?)
		 ON CONFLICT(workspace_id) DO UPDATE SET mode = excluded.mode, updated_at = CURRENT_TIMESTAMP`,
		workspaceID, string(mode),
	)
	if err != nil {
		return fmt.Errorf("failed to set reset mode: %w", err)
	}
	return nil
}

// ListResetModes retrieves every stored reset mode.
func (r *ScheduleRepository) ListResetModes(ctx context.Context) ([]*secondary.ResetModeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT workspace_id, mode FROM reset_modes ORDER BY workspace_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reset modes: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ResetModeRecord
	for rows.Next() {
		var mode string
		record := &secondary.ResetModeRecord{}
		if err := rows.Scan(&record.WorkspaceID, &mode); err != nil {
			return nil, fmt.Errorf("failed to scan reset mode: %w", err)
		}
		record.Mode = secondary.ResetMode(mode)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reset modes: %w", err)
	}

	return records, nil
}
