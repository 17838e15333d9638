// Package primary defines the primary ports (driving adapters) for the application.
// The chat surface and the scheduler talk to the application through these.
package primary

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is the degraded signal for storage faults: the operation did
// not happen and the caller should answer with a "no data / try again" message.
// The underlying fault is logged at the service boundary, never propagated.
var ErrUnavailable = errors.New("storage unavailable")

// LedgerService defines the primary port for debit point operations.
type LedgerService interface {
	// AddPoints credits points to a user, creating the entry on first use.
	AddPoints(ctx context.Context, req PointsRequest) (*PointsResult, error)

	// RemovePoints debits points from a user. Fails with secondary.ErrNotFound
	// for unknown users and secondary.ErrInsufficientBalance when the balance
	// is too small; the balance is never driven below zero.
	RemovePoints(ctx context.Context, req PointsRequest) (*PointsResult, error)

	// UserPoints retrieves a single user's balance.
	UserPoints(ctx context.Context, workspaceID, userID string) (int64, error)

	// Leaderboard retrieves all balances for a workspace, highest first.
	Leaderboard(ctx context.Context, workspaceID string) ([]*Standing, error)

	// ResetWorkspace clears every entry for the workspace and returns the
	// number of entries removed. Admin gating happens at the surface; the
	// scheduler calls this directly for automatic resets.
	ResetWorkspace(ctx context.Context, workspaceID string) (int64, error)
}

// AdminChecker is the injected capability check for admin-gated commands.
// The chat adapter implements it against the platform's user directory.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// PointsRequest contains parameters for a ledger mutation.
type PointsRequest struct {
	WorkspaceID string
	UserID      string
	Amount      int64
	Link        string // optional permalink to the triggering message
}

// PointsResult reports a ledger mutation: balance before, amount moved, balance after.
type PointsResult struct {
	Previous int64
	Amount   int64
	Current  int64
}

// Standing is one leaderboard row.
type Standing struct {
	UserID    string
	Balance   int64
	UpdatedAt time.Time
}
