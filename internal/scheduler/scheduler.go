// Package scheduler runs the weekly report and monthly reset loops.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/debits/internal/api"
	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

// Announcer delivers scheduler output to a workspace's default channel.
// The chat adapter implements it; tests use a fake.
type Announcer interface {
	AnnounceLeaderboard(ctx context.Context, workspaceID string, standings []*primary.Standing) error
	AnnounceReset(ctx context.Context, workspaceID string, cleared int64) error
}

// Config holds the loop intervals and the clock. Zero values get defaults.
type Config struct {
	ReportCheckInterval time.Duration // default 1m
	ResetCheckInterval  time.Duration // default 1h
	Now                 func() time.Time
}

// Scheduler polls the stored schedules and fires reports and resets at most
// once per slot. Dedupe state lives in memory for the process lifetime.
type Scheduler struct {
	schedules secondary.ScheduleRepository
	ledger    primary.LedgerService
	announcer Announcer
	logger    *zap.Logger

	reportInterval time.Duration
	resetInterval  time.Duration
	now            func() time.Time

	lastReport  map[string]time.Time // workspace -> hour the last report fired for
	firedResets map[string]struct{}  // workspace_year_month
}

// New creates a Scheduler. Run drives both loops; the Check methods are the
// individual ticks.
func New(schedules secondary.ScheduleRepository, ledger primary.LedgerService, announcer Announcer, logger *zap.Logger, cfg Config) *Scheduler {
	if cfg.ReportCheckInterval <= 0 {
		cfg.ReportCheckInterval = time.Minute
	}
	if cfg.ResetCheckInterval <= 0 {
		cfg.ResetCheckInterval = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		schedules:      schedules,
		ledger:         ledger,
		announcer:      announcer,
		logger:         logger,
		reportInterval: cfg.ReportCheckInterval,
		resetInterval:  cfg.ResetCheckInterval,
		now:            cfg.Now,
		lastReport:     make(map[string]time.Time),
		firedResets:    make(map[string]struct{}),
	}
}

// Run polls until ctx is done. Tick errors are logged, never fatal.
func (s *Scheduler) Run(ctx context.Context) {
	reports := time.NewTicker(s.reportInterval)
	defer reports.Stop()
	resets := time.NewTicker(s.resetInterval)
	defer resets.Stop()

	s.logger.Info("scheduler started",
		zap.Duration("report_interval", s.reportInterval),
		zap.Duration("reset_interval", s.resetInterval))

	// catch a reset slot missed while the process was down within the same day
	s.CheckResets(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-reports.C:
			s.CheckReports(ctx)
		case <-resets.C:
			s.CheckResets(ctx)
		}
	}
}

// CheckReports fires the weekly leaderboard for every workspace whose slot
// matches the current weekday and hour, at most once per hour slot.
func (s *Scheduler) CheckReports(ctx context.Context) {
	schedules, err := s.schedules.ListReportSchedules(ctx)
	if err != nil {
		s.logger.Error("report check: listing schedules failed", zap.Error(err))
		return
	}

	now := s.now()
	slot := now.Truncate(time.Hour)
	for _, schedule := range schedules {
		if now.Weekday() != schedule.Day || now.Hour() != schedule.Hour {
			continue
		}
		if fired, ok := s.lastReport[schedule.WorkspaceID]; ok && fired.Equal(slot) {
			continue
		}

		standings, err := s.ledger.Leaderboard(ctx, schedule.WorkspaceID)
		if err != nil {
			s.logger.Error("report check: leaderboard failed",
				zap.String("workspace", schedule.WorkspaceID),
				zap.Error(err))
			continue
		}
		if err := s.announcer.AnnounceLeaderboard(ctx, schedule.WorkspaceID, standings); err != nil {
			s.logger.Error("report check: announce failed",
				zap.String("workspace", schedule.WorkspaceID),
				zap.Error(err))
			continue
		}

		s.lastReport[schedule.WorkspaceID] = slot
		api.SchedulerReportsSent.Inc()
		s.logger.Info("weekly report sent",
			zap.String("workspace", schedule.WorkspaceID),
			zap.Int("standings", len(standings)))
	}
}

// CheckResets clears the ledger of every workspace in automatic mode on the
// first day of the month, at most once per workspace per month.
func (s *Scheduler) CheckResets(ctx context.Context) {
	now := s.now()
	if now.Day() != 1 {
		return
	}

	modes, err := s.schedules.ListResetModes(ctx)
	if err != nil {
		s.logger.Error("reset check: listing modes failed", zap.Error(err))
		return
	}

	for _, record := range modes {
		if record.Mode != secondary.ResetAutomatic {
			continue
		}
		key := resetKey(record.WorkspaceID, now)
		if _, fired := s.firedResets[key]; fired {
			continue
		}

		cleared, err := s.ledger.ResetWorkspace(ctx, record.WorkspaceID)
		if err != nil {
			s.logger.Error("reset check: reset failed",
				zap.String("workspace", record.WorkspaceID),
				zap.Error(err))
			continue
		}
		if err := s.announcer.AnnounceReset(ctx, record.WorkspaceID, cleared); err != nil {
			// the reset itself happened; do not retry it next tick
			s.logger.Error("reset check: announce failed",
				zap.String("workspace", record.WorkspaceID),
				zap.Error(err))
		}

		s.firedResets[key] = struct{}{}
		api.SchedulerResets.Inc()
		s.logger.Info("monthly reset performed",
			zap.String("workspace", record.WorkspaceID),
			zap.Int64("cleared", cleared))
	}
}

func resetKey(workspaceID string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%d", workspaceID, now.Year(), int(now.Month()))
}
