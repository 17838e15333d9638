package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

// ScheduleServiceImpl implements primary.ScheduleService.
type ScheduleServiceImpl struct {
	schedules secondary.ScheduleRepository
	logger    *zap.Logger
}

// NewScheduleService creates a new ScheduleService with injected dependencies.
func NewScheduleService(schedules secondary.ScheduleRepository, logger *zap.Logger) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{schedules: schedules, logger: logger}
}

// SetReportSchedule stores the weekly report slot for a workspace.
// Day and hour arrive validated from parsing.
func (s *ScheduleServiceImpl) SetReportSchedule(ctx context.Context, workspaceID string, day time.Weekday, hour int) error {
	if err := s.schedules.SetReportSchedule(ctx, workspaceID, day, hour); err != nil {
		s.logger.Error("set report schedule failed",
			zap.String("workspace", workspaceID),
			zap.Error(err))
		return primary.ErrUnavailable
	}

	s.logger.Info("report schedule set",
		zap.String("workspace", workspaceID),
		zap.Stringer("day", day),
		zap.Int("hour", hour))
	return nil
}

// SetResetMode stores the reset mode for a workspace.
func (s *ScheduleServiceImpl) SetResetMode(ctx context.Context, workspaceID string, mode secondary.ResetMode) error {
	if err := s.schedules.SetResetMode(ctx, workspaceID, mode); err != nil {
		s.logger.Error("set reset mode failed",
			zap.String("workspace", workspaceID),
			zap.Error(err))
		return primary.ErrUnavailable
	}

	s.logger.Info("reset mode set",
		zap.String("workspace", workspaceID),
		zap.String("mode", string(mode)))
	return nil
}
