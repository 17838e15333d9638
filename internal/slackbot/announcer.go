package slackbot

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/debits/internal/ports/primary"
)

// ReportAnnouncer delivers scheduler output to the default channel. It is the
// chat-side half of the scheduler: the loop decides when, this decides how.
type ReportAnnouncer struct {
	notifier *Notifier
	channel  string
	logger   *zap.Logger
}

// NewReportAnnouncer creates the announcer the scheduler posts through.
func NewReportAnnouncer(notifier *Notifier, channel string, logger *zap.Logger) *ReportAnnouncer {
	return &ReportAnnouncer{notifier: notifier, channel: channel, logger: logger}
}

// AnnounceLeaderboard posts the weekly standings. An empty workspace posts
// nothing and still counts as delivered.
func (a *ReportAnnouncer) AnnounceLeaderboard(ctx context.Context, workspaceID string, standings []*primary.Standing) error {
	if len(standings) == 0 {
		a.logger.Info("weekly report skipped, no points recorded",
			zap.String("workspace", workspaceID))
		return nil
	}
	_, err := a.notifier.Post(ctx, a.channel, "Weekly Debit Points Update", LeaderboardBlocks(standings)...)
	return err
}

// AnnounceReset posts the automatic reset notice.
func (a *ReportAnnouncer) AnnounceReset(ctx context.Context, workspaceID string, cleared int64) error {
	a.logger.Info("announcing automatic reset",
		zap.String("workspace", workspaceID),
		zap.Int64("cleared", cleared))
	_, err := a.notifier.Post(ctx, a.channel, "Database Reset Successful")
	return err
}
