package primary

import (
	"context"
	"time"

	"github.com/example/debits/internal/ports/secondary"
)

// ScheduleService defines the primary port for report schedule and reset mode
// configuration. Reads happen in the scheduler against the repository directly;
// the chat surface only ever writes.
type ScheduleService interface {
	// SetReportSchedule stores the weekly report slot for a workspace.
	SetReportSchedule(ctx context.Context, workspaceID string, day time.Weekday, hour int) error

	// SetResetMode stores the reset mode for a workspace.
	SetResetMode(ctx context.Context, workspaceID string, mode secondary.ResetMode) error
}
