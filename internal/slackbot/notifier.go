package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/example/debits/internal/api"
)

// Poster is the outbound message surface of the chat client.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts messages with a single fallback: when the target channel is
// unreachable the message is retried once against the default channel, then
// dropped with a log line.
type Notifier struct {
	client   Poster
	fallback string
	logger   *zap.Logger
}

// NewNotifier creates a Notifier with the given fallback channel.
func NewNotifier(client Poster, fallback string, logger *zap.Logger) *Notifier {
	return &Notifier{client: client, fallback: fallback, logger: logger}
}

// Post sends text (and optional blocks) to channel. Returns the message
// timestamp of whichever post succeeded.
func (n *Notifier) Post(ctx context.Context, channel, text string, blocks ...slack.Block) (string, error) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(blocks...))
	}

	_, ts, err := n.client.PostMessageContext(ctx, channel, options...)
	if err == nil {
		return ts, nil
	}
	if channel == n.fallback {
		api.NotifyFailures.Inc()
		n.logger.Error("posting to fallback channel failed",
			zap.String("channel", channel),
			zap.Error(err))
		return "", fmt.Errorf("failed to post to %s: %w", channel, err)
	}

	n.logger.Warn("posting failed, retrying against fallback channel",
		zap.String("channel", channel),
		zap.String("fallback", n.fallback),
		zap.Error(err))

	_, ts, retryErr := n.client.PostMessageContext(ctx, n.fallback, options...)
	if retryErr != nil {
		api.NotifyFailures.Inc()
		n.logger.Error("fallback post failed, dropping message",
			zap.String("channel", channel),
			zap.String("fallback", n.fallback),
			zap.Error(retryErr))
		return "", fmt.Errorf("failed to post to %s and fallback %s: %w", channel, n.fallback, retryErr)
	}
	return ts, nil
}
