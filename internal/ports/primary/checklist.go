package primary

import (
	"context"
	"time"
)

// ChecklistService defines the primary port for checklist operations.
type ChecklistService interface {
	// CreateTemplate stores a reusable named checklist. Fails with
	// secondary.ErrTemplateExists when the name is taken in the workspace.
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) error

	// Templates lists the template names available in a workspace.
	Templates(ctx context.Context, workspaceID string) ([]string, error)

	// DeleteTemplate removes a template and all of its instances.
	DeleteTemplate(ctx context.Context, name, workspaceID string) error

	// Invoke posts a template into a channel: creates a fresh instance with
	// every item unchecked and returns its view for rendering.
	Invoke(ctx context.Context, req InvokeRequest) (*ChecklistView, error)

	// ConfirmPosted records the message reference of the posted instance once
	// the chat platform has acknowledged the message.
	ConfirmPosted(ctx context.Context, instanceID int64, messageRef string) error

	// ToggleItem flips one item and reports whether that flip completed the
	// checklist. Completion fires exactly once per instance.
	ToggleItem(ctx context.Context, req ToggleRequest) (*ToggleOutcome, error)

	// Instance retrieves the full instance view.
	Instance(ctx context.Context, instanceID int64) (*ChecklistView, error)
}

// CreateTemplateRequest contains parameters for creating a template.
type CreateTemplateRequest struct {
	Name        string
	WorkspaceID string
	CreatorID   string
	Items       []string // ordered; blank lines already stripped by the caller
}

// InvokeRequest contains parameters for posting a template into a channel.
type InvokeRequest struct {
	Name        string
	WorkspaceID string
	ChannelID   string
}

// ToggleRequest contains parameters for flipping one checklist item.
type ToggleRequest struct {
	InstanceID int64
	ItemID     int64
	Checked    bool
	UserID     string
}

// ToggleOutcome reports a toggle along with the refreshed view for re-rendering.
type ToggleOutcome struct {
	AllComplete bool
	View        *ChecklistView
}

// ChecklistView is the render-ready state of one posted checklist.
type ChecklistView struct {
	ID          int64
	Name        string
	ChannelID   string
	MessageRef  string
	IsComplete  bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	Items       []ChecklistViewItem
}

// ChecklistViewItem is one render-ready checklist row.
type ChecklistViewItem struct {
	ItemID    int64
	Text      string
	Checked   bool
	CheckedBy string
	CheckedAt *time.Time
}
