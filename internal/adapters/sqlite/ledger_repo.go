// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/debits/internal/core/points"
	"github.com/example/debits/internal/ports/secondary"
)

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Add credits amount to the (workspace, user) entry, creating it when absent.
// The read-modify-write runs inside one transaction so concurrent mutations of
// the same row serialize instead of interleaving.
func (r *LedgerRepository) Add(ctx context.Context, workspaceID, userID string, amount int64, link string) (*secondary.BalanceChange, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous int64
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM ledger_entries WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	).Scan(&previous)

	switch {
	case err == sql.ErrNoRows:
		previous = 0
		_, err = tx.ExecContext(ctx,
			"INSERT INTO ledger_entries (workspace_id, user_id, balance, last_link) VALUES (?, ?, ?, ?)",
			workspaceID, userID, amount, nullString(link),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ledger entry: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read ledger entry: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			"UPDATE ledger_entries SET balance = balance + ?, last_link = COALESCE(?, last_link), updated_at = CURRENT_TIMESTAMP WHERE workspace_id = ? AND user_id = ?",
			amount, nullString(link), workspaceID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger add: %w", err)
	}

	return &secondary.BalanceChange{Previous: previous, Amount: amount, Current: previous + amount}, nil
}

// Remove debits amount from the (workspace, user) entry. A removal that would
// drive the balance negative is rejected with ErrInsufficientBalance and the
// entry is left untouched.
func (r *LedgerRepository) Remove(ctx context.Context, workspaceID, userID string, amount int64, link string) (*secondary.BalanceChange, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous int64
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM ledger_entries WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	).Scan(&previous)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entry: %w", err)
	}

	if guard := points.CanRemove(previous, amount); !guard.Allowed {
		return nil, secondary.ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE ledger_entries SET balance = balance - ?, last_link = COALESCE(?, last_link), updated_at = CURRENT_TIMESTAMP WHERE workspace_id = ? AND user_id = ?",
		amount, nullString(link), workspaceID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ledger remove: %w", err)
	}

	return &secondary.BalanceChange{Previous: previous, Amount: amount, Current: previous - amount}, nil
}

// Get retrieves a single entry.
func (r *LedgerRepository) Get(ctx context.Context, workspaceID, userID string) (*secondary.LedgerRecord, error) {
	record := &secondary.LedgerRecord{WorkspaceID: workspaceID, UserID: userID}
	var lastLink sql.NullString
	var updatedAt time.Time

	err := r.db.QueryRowContext(ctx,
		"SELECT balance, last_link, updated_at FROM ledger_entries WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	).Scan(&record.Balance, &lastLink, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	record.LastLink = lastLink.String
	record.UpdatedAt = updatedAt
	return record, nil
}

// List retrieves all entries for a workspace sorted by balance descending.
// Ties break on user ID so leaderboard output is stable.
func (r *LedgerRepository) List(ctx context.Context, workspaceID string) ([]*secondary.LedgerRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, balance, last_link, updated_at FROM ledger_entries WHERE workspace_id = ? ORDER BY balance DESC, user_id ASC",
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var records []*secondary.LedgerRecord
	for rows.Next() {
		record := &secondary.LedgerRecord{WorkspaceID: workspaceID}
		var lastLink sql.NullString
		if err := rows.Scan(&record.UserID, &record.Balance, &lastLink, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		record.LastLink = lastLink.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return records, nil
}

// Reset deletes every entry for the workspace. Entries of other workspaces
// are untouched.
func (r *LedgerRepository) Reset(ctx context.Context, workspaceID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM ledger_entries WHERE workspace_id = ?",
		workspaceID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset ledger: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count reset rows: %w", err)
	}
	return count, nil
}

// nullString maps "" to NULL so optional columns stay NULL instead of empty.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
