package scheduler_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
	"github.com/example/debits/internal/scheduler"
)

type fakeScheduleRepo struct {
	schedules []*secondary.ReportSchedule
	modes     []*secondary.ResetModeRecord
}

func (f *fakeScheduleRepo) SetReportSchedule(context.Context, string, time.Weekday, int) error {
	return nil
}

func (f *fakeScheduleRepo) ListReportSchedules(context.Context) ([]*secondary.ReportSchedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleRepo) SetResetMode(context.Context, string, secondary.ResetMode) error {
	return nil
}

func (f *fakeScheduleRepo) ListResetModes(context.Context) ([]*secondary.ResetModeRecord, error) {
	return f.modes, nil
}

type fakeLedgerService struct {
	standings []*primary.Standing
	resets    []string
	failReset bool
}

func (f *fakeLedgerService) AddPoints(context.Context, primary.PointsRequest) (*primary.PointsResult, error) {
	return nil, nil
}

func (f *fakeLedgerService) RemovePoints(context.Context, primary.PointsRequest) (*primary.PointsResult, error) {
	return nil, nil
}

func (f *fakeLedgerService) UserPoints(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (f *fakeLedgerService) Leaderboard(context.Context, string) ([]*primary.Standing, error) {
	return f.standings, nil
}

func (f *fakeLedgerService) ResetWorkspace(_ context.Context, workspaceID string) (int64, error) {
	if f.failReset {
		return 0, primary.ErrUnavailable
	}
	f.resets = append(f.resets, workspaceID)
	return 3, nil
}

type fakeAnnouncer struct {
	reports      []string
	resetNotices []string
	failReports  bool
}

func (f *fakeAnnouncer) AnnounceLeaderboard(_ context.Context, workspaceID string, _ []*primary.Standing) error {
	if f.failReports {
		return fmt.Errorf("channel gone")
	}
	f.reports = append(f.reports, workspaceID)
	return nil
}

func (f *fakeAnnouncer) AnnounceReset(_ context.Context, workspaceID string, _ int64) error {
	f.resetNotices = append(f.resetNotices, workspaceID)
	return nil
}

// fixedClock returns now and lets tests move time forward.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func newScheduler(repo *fakeScheduleRepo, ledger *fakeLedgerService, announcer *fakeAnnouncer, clock *fixedClock) *scheduler.Scheduler {
	return scheduler.New(repo, ledger, announcer, zap.NewNop(), scheduler.Config{Now: clock.now})
}

func TestCheckReports_FiresOnMatchingSlot(t *testing.T) {
	repo := &fakeScheduleRepo{schedules: []*secondary.ReportSchedule{
		{WorkspaceID: "W1", Day: time.Friday, Hour: 17},
	}}
	ledger := &fakeLedgerService{standings: []*primary.Standing{{UserID: "U1", Balance: 5}}}
	announcer := &fakeAnnouncer{}
	// 2026-09-04 is a Friday
	clock := &fixedClock{t: time.Date(2026, 9, 4, 17, 3, 0, 0, time.UTC)}
	s := newScheduler(repo, ledger, announcer, clock)

	s.CheckReports(context.Background())
	if len(announcer.reports) != 1 || announcer.reports[0] != "W1" {
		t.Fatalf("expected one report for W1, got %v", announcer.reports)
	}
}

func TestCheckReports_SkipsNonMatchingSlot(t *testing.T) {
	repo := &fakeScheduleRepo{schedules: []*secondary.ReportSchedule{
		{WorkspaceID: "W1", Day: time.Friday, Hour: 17},
	}}
	announcer := &fakeAnnouncer{}
	clock := &fixedClock{t: time.Date(2026, 9, 4, 16, 59, 0, 0, time.UTC)}
	s := newScheduler(repo, &fakeLedgerService{}, announcer, clock)

	s.CheckReports(context.Background())
	if len(announcer.reports) != 0 {
		t.Errorf("expected no reports an hour early, got %v", announcer.reports)
	}
}

func TestCheckReports_FiresOncePerHourSlot(t *testing.T) {
	repo := &fakeScheduleRepo{schedules: []*secondary.ReportSchedule{
		{WorkspaceID: "W1", Day: time.Friday, Hour: 17},
	}}
	announcer := &fakeAnnouncer{}
	clock := &fixedClock{t: time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC)}
	s := newScheduler(repo, &fakeLedgerService{}, announcer, clock)
	ctx := context.Background()

	s.CheckReports(ctx)
	clock.t = clock.t.Add(time.Minute) // next poll, same slot
	s.CheckReports(ctx)
	if len(announcer.reports) != 1 {
		t.Fatalf("expected one report in the slot, got %d", len(announcer.reports))
	}

	clock.t = clock.t.AddDate(0, 0, 7) // same slot next week
	s.CheckReports(ctx)
	if len(announcer.reports) != 2 {
		t.Errorf("expected the next week's slot to fire, got %d reports", len(announcer.reports))
	}
}

func TestCheckReports_FailedAnnounceRetriesNextTick(t *testing.T) {
	repo := &fakeScheduleRepo{schedules: []*secondary.ReportSchedule{
		{WorkspaceID: "W1", Day: time.Friday, Hour: 17},
	}}
	announcer := &fakeAnnouncer{failReports: true}
	clock := &fixedClock{t: time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC)}
	s := newScheduler(repo, &fakeLedgerService{}, announcer, clock)
	ctx := context.Background()

	s.CheckReports(ctx)
	if len(announcer.reports) != 0 {
		t.Fatalf("expected no report recorded on failure")
	}

	announcer.failReports = false
	clock.t = clock.t.Add(time.Minute)
	s.CheckReports(ctx)
	if len(announcer.reports) != 1 {
		t.Errorf("expected retry within the slot after a failed announce, got %d", len(announcer.reports))
	}
}

func TestCheckResets_FiresOnFirstOfMonthForAutomaticOnly(t *testing.T) {
	repo := &fakeScheduleRepo{modes: []*secondary.ResetModeRecord{
		{WorkspaceID: "W_AUTO", Mode: secondary.ResetAutomatic},
		{WorkspaceID: "W_MANUAL", Mode: secondary.ResetManual},
	}}
	ledger := &fakeLedgerService{}
	announcer := &fakeAnnouncer{}
	clock := &fixedClock{t: time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)}
	s := newScheduler(repo, ledger, announcer, clock)

	s.CheckResets(context.Background())
	if len(ledger.resets) != 1 || ledger.resets[0] != "W_AUTO" {
		t.Fatalf("expected only W_AUTO reset, got %v", ledger.resets)
	}
	if len(announcer.resetNotices) != 1 {
		t.Errorf("expected one reset announcement, got %d", len(announcer.resetNotices))
	}
}

func TestCheckResets_SkipsMidMonth(t *testing.T) {
	repo := &fakeScheduleRepo{modes: []*secondary.ResetModeRecord{
		{WorkspaceID: "W_AUTO", Mode: secondary.ResetAutomatic},
	}}
	ledger := &fakeLedgerService{}
	clock := &fixedClock{t: time.Date(2026, 9, 15, 0, 30, 0, 0, time.UTC)}
	s := newScheduler(repo, ledger, &fakeAnnouncer{}, clock)

	s.CheckResets(context.Background())
	if len(ledger.resets) != 0 {
		t.Errorf("expected no reset mid-month, got %v", ledger.resets)
	}
}

func TestCheckResets_OncePerMonth(t *testing.T) {
	repo := &fakeScheduleRepo{modes: []*secondary.ResetModeRecord{
		{WorkspaceID: "W_AUTO", Mode: secondary.ResetAutomatic},
	}}
	ledger := &fakeLedgerService{}
	clock := &fixedClock{t: time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)}
	s := newScheduler(repo, ledger, &fakeAnnouncer{}, clock)
	ctx := context.Background()

	s.CheckResets(ctx)
	clock.t = clock.t.Add(time.Hour) // later poll, same day
	s.CheckResets(ctx)
	if len(ledger.resets) != 1 {
		t.Fatalf("expected one reset for the month, got %d", len(ledger.resets))
	}

	clock.t = time.Date(2026, 10, 1, 0, 30, 0, 0, time.UTC)
	s.CheckResets(ctx)
	if len(ledger.resets) != 2 {
		t.Errorf("expected the next month to fire, got %d resets", len(ledger.resets))
	}
}

func TestCheckResets_FailedResetRetriesNextTick(t *testing.T) {
	repo := &fakeScheduleRepo{modes: []*secondary.ResetModeRecord{
		{WorkspaceID: "W_AUTO", Mode: secondary.ResetAutomatic},
	}}
	ledger := &fakeLedgerService{failReset: true}
	clock := &fixedClock{t: time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)}
	s := newScheduler(repo, ledger, &fakeAnnouncer{}, clock)
	ctx := context.Background()

	s.CheckResets(ctx)
	if len(ledger.resets) != 0 {
		t.Fatalf("expected no reset recorded on failure")
	}

	ledger.failReset = false
	clock.t = clock.t.Add(time.Hour)
	s.CheckResets(ctx)
	if len(ledger.resets) != 1 {
		t.Errorf("expected retry after a failed reset, got %d", len(ledger.resets))
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &fakeScheduleRepo{}
	clock := &fixedClock{t: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)}
	s := scheduler.New(repo, &fakeLedgerService{}, &fakeAnnouncer{}, zap.NewNop(), scheduler.Config{
		ReportCheckInterval: time.Millisecond,
		ResetCheckInterval:  time.Millisecond,
		Now:                 clock.now,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
