package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type userInfoClient interface {
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
}

// DirectoryAdminChecker implements primary.AdminChecker against the workspace
// user directory.
type DirectoryAdminChecker struct {
	client userInfoClient
}

// NewDirectoryAdminChecker creates an AdminChecker backed by the chat client.
func NewDirectoryAdminChecker(client userInfoClient) *DirectoryAdminChecker {
	return &DirectoryAdminChecker{client: client}
}

// IsAdmin reports whether the user holds any admin role in the workspace.
func (c *DirectoryAdminChecker) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := c.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	return user.IsAdmin || user.IsOwner || user.IsPrimaryOwner, nil
}
