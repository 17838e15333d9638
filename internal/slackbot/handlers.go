package slackbot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/example/debits/internal/core/command"
	"github.com/example/debits/internal/core/points"
	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

const storageDownMessage = "Something went wrong talking to storage. Please try again later."

func (b *Bot) cmdAdd(ctx context.Context, cmd slack.SlashCommand) error {
	userID, amount, err := command.ParseMentionAmount(cmd.Text)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Error: "+err.Error())
	}
	if guard := points.ValidAmount(amount); !guard.Allowed {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Error: "+guard.Reason)
	}

	result, err := b.ledger.AddPoints(ctx, primary.PointsRequest{
		WorkspaceID: cmd.TeamID, UserID: userID, Amount: amount,
	})
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}

	text := fmt.Sprintf("%d points have been added to <@%s>", result.Amount, userID)
	_, err = b.notifier.Post(ctx, b.defaultChannel, text, PointsResultBlocks(userID, result, true, "")...)
	return err
}

func (b *Bot) cmdDelete(ctx context.Context, cmd slack.SlashCommand) error {
	userID, amount, err := command.ParseMentionAmount(cmd.Text)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Error: "+err.Error())
	}
	if guard := points.ValidAmount(amount); !guard.Allowed {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Error: "+guard.Reason)
	}

	result, err := b.ledger.RemovePoints(ctx, primary.PointsRequest{
		WorkspaceID: cmd.TeamID, UserID: userID, Amount: amount,
	})
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("No debit points found for <@%s>.", userID))
	case errors.Is(err, secondary.ErrInsufficientBalance):
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("Cannot remove %d points: <@%s> does not have that many.", amount, userID))
	case err != nil:
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}

	text := fmt.Sprintf("%d points have been removed from <@%s>", result.Amount, userID)
	_, err = b.notifier.Post(ctx, b.defaultChannel, text, PointsResultBlocks(userID, result, false, "")...)
	return err
}

func (b *Bot) cmdPoints(ctx context.Context, cmd slack.SlashCommand) error {
	text := strings.TrimSpace(cmd.Text)
	if text != "" {
		userID := strings.TrimPrefix(text, "@")
		balance, err := b.ledger.UserPoints(ctx, cmd.TeamID, userID)
		switch {
		case errors.Is(err, secondary.ErrNotFound):
			return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "No user points found in the database.")
		case err != nil:
			return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
		}
		_, err = b.notifier.Post(ctx, b.defaultChannel, fmt.Sprintf("<@%s>: %d", userID, balance))
		return err
	}

	return b.postLeaderboard(ctx, cmd.TeamID, cmd.ChannelID, cmd.UserID)
}

func (b *Bot) postLeaderboard(ctx context.Context, workspaceID, channelID, userID string) error {
	standings, err := b.ledger.Leaderboard(ctx, workspaceID)
	if err != nil {
		return b.ephemeral(ctx, channelID, userID, storageDownMessage)
	}
	if len(standings) == 0 {
		_, err = b.notifier.Post(ctx, b.defaultChannel, "No user points found in the database.")
		return err
	}
	_, err = b.notifier.Post(ctx, b.defaultChannel, "Debit Points", LeaderboardBlocks(standings)...)
	return err
}

func (b *Bot) cmdSetResetMode(ctx context.Context, cmd slack.SlashCommand) error {
	mode, err := command.ParseResetMode(cmd.Text)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, err.Error())
	}
	if err := b.schedules.SetResetMode(ctx, cmd.TeamID, secondary.ResetMode(mode)); err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}
	return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("Reset mode set to %s.", mode))
}

func (b *Bot) cmdReset(ctx context.Context, cmd slack.SlashCommand) error {
	isAdmin, err := b.admin.IsAdmin(ctx, cmd.UserID)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
			"Unable to verify admin rights. Please try again later.")
	}
	if !isAdmin {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "Command reserved for admin")
	}
	_, err = b.client.OpenViewContext(ctx, cmd.TriggerID, ResetConfirmModal())
	return err
}

func (b *Bot) cmdSetReportDay(ctx context.Context, cmd slack.SlashCommand) error {
	day, hour, err := command.ParseReportDay(cmd.Text)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, err.Error())
	}
	if err := b.schedules.SetReportSchedule(ctx, cmd.TeamID, day, hour); err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}
	return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
		fmt.Sprintf("Weekly report day set to %s at %02d:00.", day, hour))
}

func (b *Bot) cmdCreateChecklist(ctx context.Context, cmd slack.SlashCommand) error {
	_, err := b.client.OpenViewContext(ctx, cmd.TriggerID, CreateChecklistModal())
	return err
}

func (b *Bot) cmdChecklist(ctx context.Context, cmd slack.SlashCommand) error {
	name, mentions := command.ParseChecklistInvocation(cmd.Text)
	if name == "" {
		names, err := b.checklists.Templates(ctx, cmd.TeamID)
		if err != nil {
			return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
		}
		_, _, err = b.client.PostMessageContext(ctx, cmd.ChannelID,
			slack.MsgOptionText("Available Checklists", false),
			slack.MsgOptionBlocks(ChecklistListBlocks(names)...))
		return err
	}

	view, err := b.checklists.Invoke(ctx, primary.InvokeRequest{
		Name: name, WorkspaceID: cmd.TeamID, ChannelID: cmd.ChannelID,
	})
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("Checklist '%s' not found. Use `/checklist` to see available checklists.", name))
	case errors.Is(err, secondary.ErrNoItems):
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID,
			fmt.Sprintf("Checklist '%s' has no items.", name))
	case err != nil:
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}

	if err := b.postChecklistInstance(ctx, cmd.ChannelID, view); err != nil {
		return err
	}

	for _, mentioned := range mentions {
		if err := b.ephemeral(ctx, cmd.ChannelID, mentioned,
			fmt.Sprintf("You've been mentioned in checklist '%s'. Check it out in this channel!", name)); err != nil {
			b.logger.Warn("mention notification failed",
				zap.String("user", mentioned),
				zap.Error(err))
		}
	}
	return nil
}

// postChecklistInstance posts the rendered instance and records its timestamp.
func (b *Bot) postChecklistInstance(ctx context.Context, channelID string, view *primary.ChecklistView) error {
	_, ts, err := b.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText("Checklist: "+view.Name, false),
		slack.MsgOptionBlocks(ChecklistInstanceBlocks(view)...))
	if err != nil {
		return fmt.Errorf("failed to post checklist: %w", err)
	}
	if err := b.checklists.ConfirmPosted(ctx, view.ID, ts); err != nil {
		b.logger.Error("recording checklist message ref failed",
			zap.Int64("instance", view.ID),
			zap.Error(err))
	}
	return nil
}

func (b *Bot) cmdDeleteChecklist(ctx context.Context, cmd slack.SlashCommand) error {
	names, err := b.checklists.Templates(ctx, cmd.TeamID)
	if err != nil {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, storageDownMessage)
	}
	if len(names) == 0 {
		return b.ephemeral(ctx, cmd.ChannelID, cmd.UserID, "No checklists found to delete.")
	}
	_, err = b.client.OpenViewContext(ctx, cmd.TriggerID, DeleteChecklistModal(names))
	return err
}

// viewAddSave and viewRemoveSave handle the points modal submissions.

func (b *Bot) viewAddSave(ctx context.Context, cb slack.InteractionCallback) error {
	return b.handlePointsSubmission(ctx, cb, true)
}

func (b *Bot) viewRemoveSave(ctx context.Context, cb slack.InteractionCallback) error {
	return b.handlePointsSubmission(ctx, cb, false)
}

func (b *Bot) handlePointsSubmission(ctx context.Context, cb slack.InteractionCallback, added bool) error {
	values := cb.View.State.Values
	selected := values["user"]["multi_users_select-action"].SelectedUsers
	if len(selected) == 0 {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: no user selected.")
	}
	target := selected[0]
	link := values["timestamp"]["timestamp_input"].Value

	amount, err := strconv.ParseInt(strings.TrimSpace(values["points"]["plain_text_input-action"].Value), 10, 64)
	if err != nil {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: Amount must be a valid numerical value")
	}
	if guard := points.ValidAmount(amount); !guard.Allowed {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: "+guard.Reason)
	}

	req := primary.PointsRequest{WorkspaceID: cb.Team.ID, UserID: target, Amount: amount, Link: link}
	var result *primary.PointsResult
	var text string
	if added {
		result, err = b.ledger.AddPoints(ctx, req)
		text = fmt.Sprintf("%d points have been added to <@%s>", amount, target)
	} else {
		result, err = b.ledger.RemovePoints(ctx, req)
		text = fmt.Sprintf("%d points have been removed from <@%s>", amount, target)
	}
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
			fmt.Sprintf("No debit points found for <@%s>.", target))
	case errors.Is(err, secondary.ErrInsufficientBalance):
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
			fmt.Sprintf("Cannot remove %d points: <@%s> does not have that many.", amount, target))
	case err != nil:
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, storageDownMessage)
	}

	_, err = b.notifier.Post(ctx, b.defaultChannel, text, PointsResultBlocks(target, result, added, link)...)
	return err
}

func (b *Bot) viewReset(ctx context.Context, cb slack.InteractionCallback) error {
	cleared, err := b.ledger.ResetWorkspace(ctx, cb.Team.ID)
	if err != nil {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, storageDownMessage)
	}
	b.logger.Info("workspace ledger reset via modal",
		zap.String("workspace", cb.Team.ID),
		zap.String("user", cb.User.ID),
		zap.Int64("cleared", cleared))
	_, err = b.notifier.Post(ctx, b.defaultChannel, "The database was successfully reset.")
	return err
}

func (b *Bot) viewCreateChecklist(ctx context.Context, cb slack.InteractionCallback) error {
	values := cb.View.State.Values
	name := strings.TrimSpace(values["checklist_name"]["checklist_name_input"].Value)
	items := command.SplitItems(values["checklist_items"]["checklist_items_input"].Value)

	if name == "" {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: checklist name must not be empty.")
	}
	if len(items) == 0 {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: checklist needs at least one item.")
	}

	err := b.checklists.CreateTemplate(ctx, primary.CreateTemplateRequest{
		Name: name, WorkspaceID: cb.Team.ID, CreatorID: cb.User.ID, Items: items,
	})
	switch {
	case errors.Is(err, secondary.ErrTemplateExists):
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
			fmt.Sprintf("A checklist named '%s' already exists.", name))
	case err != nil:
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
			fmt.Sprintf("Error creating checklist '%s'. Please try again.", name))
	}
	return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
		fmt.Sprintf("Checklist '%s' created successfully! Use `/checklist %s` to use it.", name, name))
}

func (b *Bot) viewDeleteChecklist(ctx context.Context, cb slack.InteractionCallback) error {
	selected := cb.View.State.Values["checklist_select"]["checklist_select_action"].SelectedOption.Value
	if selected == "" {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID, "Error: no checklist selected.")
	}

	err := b.checklists.DeleteTemplate(ctx, selected, cb.Team.ID)
	if err != nil {
		return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
			fmt.Sprintf("Error deleting checklist '%s'. Please try again.", selected))
	}
	return b.ephemeral(ctx, cb.User.ID, cb.User.ID,
		fmt.Sprintf("Checklist '%s' deleted successfully!", selected))
}

// Message shortcuts open the points modal prefilled with the message permalink.

func (b *Bot) shortcutAddPoint(ctx context.Context, cb slack.InteractionCallback) error {
	return b.openPointsModal(ctx, cb, "add_modal_save")
}

func (b *Bot) shortcutRemovePoint(ctx context.Context, cb slack.InteractionCallback) error {
	return b.openPointsModal(ctx, cb, "remove_modal_save")
}

func (b *Bot) openPointsModal(ctx context.Context, cb slack.InteractionCallback, callbackID string) error {
	link, err := b.client.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: cb.Channel.ID,
		Ts:      cb.MessageTs,
	})
	if err != nil {
		b.logger.Warn("permalink lookup failed",
			zap.String("channel", cb.Channel.ID),
			zap.Error(err))
		link = ""
	}
	_, err = b.client.OpenViewContext(ctx, cb.TriggerID, PointsModal(link, callbackID))
	return err
}

func (b *Bot) shortcutAllPoints(ctx context.Context, cb slack.InteractionCallback) error {
	return b.postLeaderboard(ctx, cb.Team.ID, cb.Channel.ID, cb.User.ID)
}

func (b *Bot) shortcutOpenCreateChecklist(ctx context.Context, cb slack.InteractionCallback) error {
	_, err := b.client.OpenViewContext(ctx, cb.TriggerID, CreateChecklistModal())
	return err
}

func (b *Bot) shortcutViewChecklists(ctx context.Context, cb slack.InteractionCallback) error {
	names, err := b.checklists.Templates(ctx, cb.Team.ID)
	if err != nil {
		return fmt.Errorf("failed to list checklists: %w", err)
	}
	_, err = b.client.OpenViewContext(ctx, cb.TriggerID, ViewChecklistsModal(names))
	return err
}

// actionToggleItem handles the checkbox on a posted checklist item. Action ids
// carry the routing data: toggle_item_<itemID>_<instanceID>.
func (b *Bot) actionToggleItem(ctx context.Context, cb slack.InteractionCallback, action *slack.BlockAction) error {
	parts := strings.Split(action.ActionID, "_")
	if len(parts) != 4 {
		return fmt.Errorf("malformed toggle action id %q", action.ActionID)
	}
	itemID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed item id in %q: %w", action.ActionID, err)
	}
	instanceID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return fmt.Errorf("malformed instance id in %q: %w", action.ActionID, err)
	}

	outcome, err := b.checklists.ToggleItem(ctx, primary.ToggleRequest{
		InstanceID: instanceID,
		ItemID:     itemID,
		Checked:    len(action.SelectedOptions) > 0,
		UserID:     cb.User.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to toggle item: %w", err)
	}

	view := outcome.View
	if _, _, _, err := b.client.UpdateMessageContext(ctx, cb.Channel.ID, cb.Message.Timestamp,
		slack.MsgOptionText("Checklist: "+view.Name, false),
		slack.MsgOptionBlocks(ChecklistInstanceBlocks(view)...)); err != nil {
		b.logger.Error("checklist message update failed",
			zap.Int64("instance", instanceID),
			zap.Error(err))
	}

	if outcome.AllComplete {
		elapsed := "Time information not available"
		if view.CompletedAt != nil {
			elapsed = FormatElapsed(view.CreatedAt, *view.CompletedAt)
		}
		if _, _, err := b.client.PostMessageContext(ctx, cb.Channel.ID,
			slack.MsgOptionText(fmt.Sprintf("Checklist completed in %s!", elapsed), false),
			slack.MsgOptionBlocks(CompletionBlocks(view)...)); err != nil {
			return fmt.Errorf("failed to post completion message: %w", err)
		}
	}
	return nil
}

// actionViewChecklist posts a fresh instance of the chosen template. From the
// checklists modal there is no channel, so it goes to a DM with the user.
func (b *Bot) actionViewChecklist(ctx context.Context, cb slack.InteractionCallback, action *slack.BlockAction) error {
	name := action.Value
	if name == "" {
		return fmt.Errorf("view checklist action without a template name")
	}

	fromModal := cb.Container.Type == "view"
	channelID := cb.Channel.ID
	if channelID == "" && fromModal {
		channel, _, _, err := b.client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
			Users: []string{cb.User.ID},
		})
		if err != nil {
			return fmt.Errorf("failed to open DM for checklist preview: %w", err)
		}
		channelID = channel.ID
	}
	if channelID == "" {
		return fmt.Errorf("no destination channel for checklist view")
	}

	notify := func(message string) {
		var err error
		if fromModal {
			_, _, err = b.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(message, false))
		} else {
			err = b.ephemeral(ctx, channelID, cb.User.ID, message)
		}
		if err != nil {
			b.logger.Warn("checklist view notification failed", zap.Error(err))
		}
	}

	view, err := b.checklists.Invoke(ctx, primary.InvokeRequest{
		Name: name, WorkspaceID: cb.Team.ID, ChannelID: channelID,
	})
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		notify(fmt.Sprintf("Checklist '%s' was not found. It may have been deleted.", name))
		return nil
	case errors.Is(err, secondary.ErrNoItems):
		notify(fmt.Sprintf("Checklist '%s' has no items.", name))
		return nil
	case err != nil:
		notify("Unable to load the checklist. Please try again later.")
		return nil
	}

	return b.postChecklistInstance(ctx, channelID, view)
}
