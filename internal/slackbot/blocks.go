package slackbot

import (
	"fmt"

	"github.com/slack-go/slack"

	"github.com/example/debits/internal/ports/primary"
)

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

// IntroBlocks is the message posted when the bot is mentioned.
func IntroBlocks() []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(mrkdwn(
			"Hello there! 👋 I'm Debits Bot, here to help you keep track of debit points within your team. "+
				"With me, you can easily assign and record debit points for various reasons."), nil, nil),
		slack.NewSectionBlock(mrkdwn(
			"*1️⃣ Use the `/add` command*. Type `/add` followed by `@username` and the amount of points. "+
				"For example: `/add @john.doe 1`"), nil, nil),
		slack.NewSectionBlock(mrkdwn(
			"*2️⃣ Use the `/points` command* to view a leaderboard of users and their accumulated debit points"), nil, nil),
		slack.NewHeaderBlock(plain("For Scheduling")),
		slack.NewSectionBlock(mrkdwn(
			"*1️⃣ Use the `/set-report-day` command*. Type `/set-report-day` followed by the day of the week "+
				"and the hour of the day you want to get the reports weekly. For example: `/set-report-day friday 18`"), nil, nil),
	}
}

// PointsResultBlocks renders the outcome of a ledger mutation.
func PointsResultBlocks(userID string, result *primary.PointsResult, added bool, link string) []slack.Block {
	verb := "added to"
	if !added {
		verb = "removed from"
	}
	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(
			fmt.Sprintf("%d points have been %s <@%s>", result.Amount, verb, userID)), nil, nil),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			mrkdwn(fmt.Sprintf("*Previous:*\n%d", result.Previous)),
			mrkdwn(fmt.Sprintf("*Current:*\n%d", result.Current)),
		}, nil),
	}
	if link != "" {
		blocks = append(blocks, slack.NewContextBlock("", mrkdwn(fmt.Sprintf("🔗 <%s|Triggering message>", link))))
	}
	return blocks
}

// LeaderboardBlocks renders the workspace standings, highest balance first.
func LeaderboardBlocks(standings []*primary.Standing) []slack.Block {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("Debit Points"))}
	for i, standing := range standings {
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(
			fmt.Sprintf("*%d.* <@%s>: %d", i+1, standing.UserID, standing.Balance)), nil, nil))
	}
	return blocks
}

// PointsModal is the add/remove points modal opened from message shortcuts.
// callbackID routes the submission: add_modal_save or remove_modal_save.
func PointsModal(permalink, callbackID string) slack.ModalViewRequest {
	userSelect := slack.NewOptionsMultiSelectBlockElement(
		slack.MultiOptTypeUser, plain("Select users"), "multi_users_select-action")
	pointsInput := slack.NewPlainTextInputBlockElement(nil, "plain_text_input-action")
	linkInput := slack.NewPlainTextInputBlockElement(nil, "timestamp_input")
	linkInput.InitialValue = permalink

	linkBlock := slack.NewInputBlock("timestamp", plain("Timestamp"), nil, linkInput)
	linkBlock.DispatchAction = true

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: callbackID,
		Title:      plain("Debits Bot"),
		Submit:     plain("Submit"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock("user", plain("Select User"), nil, userSelect),
			slack.NewInputBlock("points", plain("Points"), nil, pointsInput),
			slack.NewDividerBlock(),
			linkBlock,
		}},
	}
}

// ResetConfirmModal asks for confirmation before clearing the workspace ledger.
func ResetConfirmModal() slack.ModalViewRequest {
	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: "reset",
		Title:      plain("Reset Debits"),
		Submit:     plain("Reset"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewSectionBlock(mrkdwn(
				"⚠️ This will permanently remove every debit point in this workspace. Continue?"), nil, nil),
		}},
	}
}

// CreateChecklistModal collects a checklist name and its items, one per line.
func CreateChecklistModal() slack.ModalViewRequest {
	nameInput := slack.NewPlainTextInputBlockElement(plain("e.g. release"), "checklist_name_input")
	itemsInput := slack.NewPlainTextInputBlockElement(plain("One item per line"), "checklist_items_input")
	itemsInput.Multiline = true

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: "create_checklist",
		Title:      plain("Create Checklist"),
		Submit:     plain("Create"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock("checklist_name", plain("Checklist Name"), nil, nameInput),
			slack.NewInputBlock("checklist_items", plain("Items"), plain("One item per line."), itemsInput),
		}},
	}
}

// DeleteChecklistModal offers the existing templates in a select.
func DeleteChecklistModal(names []string) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, 0, len(names))
	for _, name := range names {
		options = append(options, slack.NewOptionBlockObject(name, plain(name), nil))
	}
	selectElement := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic, plain("Select a checklist"), "checklist_select_action", options...)

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		CallbackID: "delete_checklist",
		Title:      plain("Delete Checklist"),
		Submit:     plain("Delete"),
		Close:      plain("Cancel"),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			slack.NewInputBlock("checklist_select", plain("Checklist"), nil, selectElement),
		}},
	}
}

// ViewChecklistsModal lists the templates with a view button per row.
func ViewChecklistsModal(names []string) slack.ModalViewRequest {
	var blocks []slack.Block
	if len(names) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn("No checklists have been created yet."), nil, nil))
	}
	for _, name := range names {
		button := slack.NewButtonBlockElement("view_checklist_button", name, plain("View"))
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(fmt.Sprintf("*%s*", name)), nil,
			slack.NewAccessory(button)))
	}

	return slack.ModalViewRequest{
		Type:       slack.VTModal,
		Title:      plain("Available Checklists"),
		Close:      plain("Close"),
		Blocks:     slack.Blocks{BlockSet: blocks},
		CallbackID: "view_checklists",
	}
}

// ChecklistListBlocks renders the template names for an in-channel listing.
func ChecklistListBlocks(names []string) []slack.Block {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("Available Checklists"))}
	if len(names) == 0 {
		return append(blocks, slack.NewSectionBlock(mrkdwn("No checklists have been created yet."), nil, nil))
	}
	for _, name := range names {
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(fmt.Sprintf("• `%s`", name)), nil, nil))
	}
	return append(blocks, slack.NewContextBlock("",
		mrkdwn("Use `/checklist <name>` to post one into this channel.")))
}

// ToggleActionID encodes the item and instance into a checkbox action id.
func ToggleActionID(itemID, instanceID int64) string {
	return fmt.Sprintf("toggle_item_%d_%d", itemID, instanceID)
}

// ChecklistInstanceBlocks renders a posted checklist with one checkbox per item.
func ChecklistInstanceBlocks(view *primary.ChecklistView) []slack.Block {
	blocks := []slack.Block{slack.NewHeaderBlock(plain(view.Name))}

	checked := 0
	for _, item := range view.Items {
		option := slack.NewOptionBlockObject("done", mrkdwn(item.Text), nil)
		checkbox := slack.NewCheckboxGroupsBlockElement(ToggleActionID(item.ItemID, view.ID), option)
		if item.Checked {
			checkbox.InitialOptions = []*slack.OptionBlockObject{option}
			checked++
		}

		text := item.Text
		if item.Checked && item.CheckedBy != "" {
			text = fmt.Sprintf("%s ✔ <@%s>", item.Text, item.CheckedBy)
		}
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(text), nil, slack.NewAccessory(checkbox)))
	}

	progress := fmt.Sprintf("%d of %d complete", checked, len(view.Items))
	if view.IsComplete {
		progress = "✅ " + progress
	}
	return append(blocks, slack.NewContextBlock("", mrkdwn(progress)))
}

// CompletionBlocks is the celebration message posted when the last item is checked.
func CompletionBlocks(view *primary.ChecklistView) []slack.Block {
	timeTaken := "Time information not available"
	if view.CompletedAt != nil {
		timeTaken = FormatElapsed(view.CreatedAt, *view.CompletedAt)
	}

	blocks := []slack.Block{
		slack.NewSectionBlock(mrkdwn(
			fmt.Sprintf("✅ *Checklist \"%s\" has been completed!*", view.Name)), nil, nil),
		slack.NewContextBlock("", mrkdwn("⏱️ Time taken: "+timeTaken)),
		slack.NewContextBlock("", mrkdwn("🕒 Started: "+FormatStamp(view.CreatedAt))),
	}
	if view.CompletedAt != nil {
		blocks = append(blocks, slack.NewContextBlock("", mrkdwn("🏁 Completed: "+FormatStamp(*view.CompletedAt))))
	}
	return blocks
}
