// Package app implements the primary ports over the repositories. Services are
// the storage fault boundary: repository errors that are not part of the
// operation's contract are logged here and degraded to primary.ErrUnavailable,
// never propagated upward.
package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/debits/internal/ctxutil"
	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

// LedgerServiceImpl implements primary.LedgerService.
type LedgerServiceImpl struct {
	ledger secondary.LedgerRepository
	logger *zap.Logger
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(ledger secondary.LedgerRepository, logger *zap.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{ledger: ledger, logger: logger}
}

// AddPoints credits points to a user, creating the entry on first use.
func (s *LedgerServiceImpl) AddPoints(ctx context.Context, req primary.PointsRequest) (*primary.PointsResult, error) {
	change, err := s.ledger.Add(ctx, req.WorkspaceID, req.UserID, req.Amount, req.Link)
	if err != nil {
		s.logger.Error("ledger add failed",
			zap.String("workspace", req.WorkspaceID),
			zap.String("user", req.UserID),
			zap.String("actor", ctxutil.ActorFromContext(ctx)),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	s.logger.Info("points added",
		zap.String("workspace", req.WorkspaceID),
		zap.String("user", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.Int64("balance", change.Current),
		zap.String("actor", ctxutil.ActorFromContext(ctx)))
	return &primary.PointsResult{Previous: change.Previous, Amount: change.Amount, Current: change.Current}, nil
}

// RemovePoints debits points from a user. Unknown users and underflows keep
// their contract errors; anything else degrades.
func (s *LedgerServiceImpl) RemovePoints(ctx context.Context, req primary.PointsRequest) (*primary.PointsResult, error) {
	change, err := s.ledger.Remove(ctx, req.WorkspaceID, req.UserID, req.Amount, req.Link)
	if errors.Is(err, secondary.ErrNotFound) || errors.Is(err, secondary.ErrInsufficientBalance) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("ledger remove failed",
			zap.String("workspace", req.WorkspaceID),
			zap.String("user", req.UserID),
			zap.String("actor", ctxutil.ActorFromContext(ctx)),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	s.logger.Info("points removed",
		zap.String("workspace", req.WorkspaceID),
		zap.String("user", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.Int64("balance", change.Current),
		zap.String("actor", ctxutil.ActorFromContext(ctx)))
	return &primary.PointsResult{Previous: change.Previous, Amount: change.Amount, Current: change.Current}, nil
}

// UserPoints retrieves a single user's balance.
func (s *LedgerServiceImpl) UserPoints(ctx context.Context, workspaceID, userID string) (int64, error) {
	record, err := s.ledger.Get(ctx, workspaceID, userID)
	if errors.Is(err, secondary.ErrNotFound) {
		return 0, err
	}
	if err != nil {
		s.logger.Error("ledger get failed",
			zap.String("workspace", workspaceID),
			zap.String("user", userID),
			zap.Error(err))
		return 0, primary.ErrUnavailable
	}
	return record.Balance, nil
}

// Leaderboard retrieves all balances for a workspace, highest first.
func (s *LedgerServiceImpl) Leaderboard(ctx context.Context, workspaceID string) ([]*primary.Standing, error) {
	records, err := s.ledger.List(ctx, workspaceID)
	if err != nil {
		s.logger.Error("ledger list failed",
			zap.String("workspace", workspaceID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	standings := make([]*primary.Standing, 0, len(records))
	for _, record := range records {
		standings = append(standings, &primary.Standing{
			UserID:    record.UserID,
			Balance:   record.Balance,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return standings, nil
}

// ResetWorkspace clears every entry for the workspace.
func (s *LedgerServiceImpl) ResetWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	count, err := s.ledger.Reset(ctx, workspaceID)
	if err != nil {
		s.logger.Error("ledger reset failed",
			zap.String("workspace", workspaceID),
			zap.Error(err))
		return 0, primary.ErrUnavailable
	}

	s.logger.Info("ledger reset",
		zap.String("workspace", workspaceID),
		zap.Int64("cleared", count),
		zap.String("actor", ctxutil.ActorFromContext(ctx)))
	return count, nil
}
