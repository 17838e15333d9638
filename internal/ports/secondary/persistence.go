// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// LedgerRepository defines the secondary port for debit point persistence.
type LedgerRepository interface {
	// Add credits amount to the (workspace, user) entry, creating it when absent.
	// Returns the balance before and after the mutation.
	Add(ctx context.Context, workspaceID, userID string, amount int64, link string) (*BalanceChange, error)

	// Remove debits amount from the (workspace, user) entry.
	// Returns ErrNotFound when no entry exists and ErrInsufficientBalance when
	// the entry holds fewer points than amount; the entry is untouched in both cases.
	Remove(ctx context.Context, workspaceID, userID string, amount int64, link string) (*BalanceChange, error)

	// Get retrieves a single entry, or ErrNotFound.
	Get(ctx context.Context, workspaceID, userID string) (*LedgerRecord, error)

	// List retrieves all entries for a workspace, sorted by balance descending.
	List(ctx context.Context, workspaceID string) ([]*LedgerRecord, error)

	// Reset deletes every entry for the workspace and returns the number removed.
	Reset(ctx context.Context, workspaceID string) (int64, error)
}

// LedgerRecord represents a user's point balance within a workspace.
type LedgerRecord struct {
	WorkspaceID string
	UserID      string
	Balance     int64
	LastLink    string
	UpdatedAt   time.Time
}

// BalanceChange reports the before/after state of a ledger mutation.
type BalanceChange struct {
	Previous int64
	Amount   int64
	Current  int64
}

// ScheduleRepository defines the secondary port for report schedule and
// reset mode persistence. Both are upserts keyed by workspace.
type ScheduleRepository interface {
	// SetReportSchedule stores the weekly report slot for a workspace.
	SetReportSchedule(ctx context.Context, workspaceID string, day time.Weekday, hour int) error

	// ListReportSchedules retrieves every stored report schedule.
	ListReportSchedules(ctx context.Context) ([]*ReportSchedule, error)

	// SetResetMode stores the reset mode for a workspace.
	SetResetMode(ctx context.Context, workspaceID string, mode ResetMode) error

	// ListResetModes retrieves every stored reset mode.
	ListResetModes(ctx context.Context) ([]*ResetModeRecord, error)
}

// ResetMode governs whether a workspace ledger clears itself monthly.
type ResetMode string

const (
	ResetManual    ResetMode = "manual"
	ResetAutomatic ResetMode = "automatic"
)

// ReportSchedule is the weekly report slot for a workspace.
type ReportSchedule struct {
	WorkspaceID string
	Day         time.Weekday
	Hour        int
}

// ResetModeRecord is the stored reset mode for a workspace.
type ResetModeRecord struct {
	WorkspaceID string
	Mode        ResetMode
}

// ChecklistRepository defines the secondary port for checklist persistence.
type ChecklistRepository interface {
	// CreateTemplate stores a named template with its ordered items.
	// Returns ErrTemplateExists when the name is taken in the workspace.
	CreateTemplate(ctx context.Context, name, workspaceID, creatorID string, items []string) (int64, error)

	// TemplateByName retrieves a template with its items, or ErrNotFound.
	TemplateByName(ctx context.Context, name, workspaceID string) (*TemplateRecord, error)

	// ListTemplates retrieves template names for a workspace, ordered by name.
	ListTemplates(ctx context.Context, workspaceID string) ([]string, error)

	// DeleteTemplate removes a template, its items, and every instance with its
	// item statuses, inside one transaction. Returns ErrNotFound for unknown names.
	DeleteTemplate(ctx context.Context, name, workspaceID string) error

	// CreateInstance posts a template into a channel: creates the instance row and
	// seeds one unchecked status row per item. Returns ErrNoItems when the template
	// has no items.
	CreateInstance(ctx context.Context, templateID int64, channelID, messageRef string) (int64, error)

	// SetInstanceMessageRef updates the message reference after the instance
	// message has actually been posted.
	SetInstanceMessageRef(ctx context.Context, instanceID int64, messageRef string) error

	// UpdateItem flips one item's checked state and recomputes instance completion.
	// Completion latches: once is_complete is set it is never cleared by unchecking.
	UpdateItem(ctx context.Context, instanceID, itemID int64, checked bool, userID string) (*ToggleResult, error)

	// Instance retrieves the full instance view, or ErrNotFound.
	Instance(ctx context.Context, instanceID int64) (*InstanceView, error)
}

// TemplateRecord represents a checklist template with its ordered items.
type TemplateRecord struct {
	ID          int64
	WorkspaceID string
	Name        string
	CreatedBy   string
	CreatedAt   time.Time
	Items       []*ItemRecord
}

// ItemRecord is a single template item. Position is the immutable ordering.
type ItemRecord struct {
	ID       int64
	Text     string
	Position int
}

// ToggleResult reports the outcome of an item toggle. AllComplete is true only
// for the toggle that transitions the instance to complete; later toggles on a
// completed instance report false.
type ToggleResult struct {
	InstanceID  int64
	AllComplete bool
}

// InstanceView is the full state of one posted checklist.
type InstanceView struct {
	ID          int64
	TemplateID  int64
	Name        string
	ChannelID   string
	MessageRef  string
	IsComplete  bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	Items       []*InstanceItem
}

// InstanceItem is one item of an instance with its completion status.
type InstanceItem struct {
	ItemID    int64
	Text      string
	Position  int
	Checked   bool
	CheckedBy string
	CheckedAt *time.Time
}
