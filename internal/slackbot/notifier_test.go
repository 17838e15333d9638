package slackbot_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/example/debits/internal/slackbot"
)

type fakePoster struct {
	failChannels map[string]bool
	posts        []string // channels posted to, in order
}

func (f *fakePoster) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	if f.failChannels[channelID] {
		return "", "", fmt.Errorf("channel_not_found")
	}
	f.posts = append(f.posts, channelID)
	return channelID, "1725000000.000100", nil
}

func TestNotifier_PostsDirectly(t *testing.T) {
	poster := &fakePoster{}
	n := slackbot.NewNotifier(poster, "debits-general", zap.NewNop())

	ts, err := n.Post(context.Background(), "C_TEAM", "hello")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if ts == "" {
		t.Error("expected a message timestamp")
	}
	if len(poster.posts) != 1 || poster.posts[0] != "C_TEAM" {
		t.Errorf("unexpected posts %v", poster.posts)
	}
}

func TestNotifier_RetriesAgainstFallback(t *testing.T) {
	poster := &fakePoster{failChannels: map[string]bool{"C_GONE": true}}
	n := slackbot.NewNotifier(poster, "debits-general", zap.NewNop())

	ts, err := n.Post(context.Background(), "C_GONE", "hello")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if ts == "" {
		t.Error("expected a timestamp from the fallback post")
	}
	if len(poster.posts) != 1 || poster.posts[0] != "debits-general" {
		t.Errorf("expected one fallback post, got %v", poster.posts)
	}
}

func TestNotifier_DropsAfterFallbackFails(t *testing.T) {
	poster := &fakePoster{failChannels: map[string]bool{"C_GONE": true, "debits-general": true}}
	n := slackbot.NewNotifier(poster, "debits-general", zap.NewNop())

	if _, err := n.Post(context.Background(), "C_GONE", "hello"); err == nil {
		t.Fatal("expected error after fallback failed")
	}
	if len(poster.posts) != 0 {
		t.Errorf("expected no successful posts, got %v", poster.posts)
	}
}

func TestNotifier_NoDoublePostToFallback(t *testing.T) {
	poster := &fakePoster{failChannels: map[string]bool{"debits-general": true}}
	n := slackbot.NewNotifier(poster, "debits-general", zap.NewNop())

	// posting to the fallback itself fails once, no retry loop
	if _, err := n.Post(context.Background(), "debits-general", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if len(poster.posts) != 0 {
		t.Errorf("expected no posts, got %v", poster.posts)
	}
}
