// Package slackbot is the chat surface: it translates Slack envelopes into
// service calls and renders the results back as Block Kit messages.
package slackbot

import (
	"context"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/example/debits/internal/api"
	"github.com/example/debits/internal/ctxutil"
	"github.com/example/debits/internal/ports/primary"
)

// chatClient is the slice of the Slack API the handlers use. *slack.Client
// satisfies it; tests may substitute a fake.
type chatClient interface {
	Poster
	userInfoClient
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	GetPermalinkContext(ctx context.Context, params *slack.PermalinkParameters) (string, error)
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
}

type commandHandler func(ctx context.Context, cmd slack.SlashCommand) error
type interactionHandler func(ctx context.Context, cb slack.InteractionCallback) error
type actionHandler func(ctx context.Context, cb slack.InteractionCallback, action *slack.BlockAction) error

// Deps carries everything the bot needs. All fields are required.
type Deps struct {
	Client         *slack.Client
	Socket         *socketmode.Client
	Ledger         primary.LedgerService
	Schedules      primary.ScheduleService
	Checklists     primary.ChecklistService
	Admin          primary.AdminChecker
	Notifier       *Notifier
	DefaultChannel string
	Logger         *zap.Logger
}

// Bot runs the socket mode event loop and dispatches through explicit
// registries: one map per envelope kind, built once at startup.
type Bot struct {
	client         chatClient
	socket         *socketmode.Client
	ledger         primary.LedgerService
	schedules      primary.ScheduleService
	checklists     primary.ChecklistService
	admin          primary.AdminChecker
	notifier       *Notifier
	defaultChannel string
	logger         *zap.Logger

	commands  map[string]commandHandler
	views     map[string]interactionHandler
	shortcuts map[string]interactionHandler
	actions   map[string]actionHandler
}

// New wires the bot and registers every handler.
func New(d Deps) *Bot {
	b := &Bot{
		client:         d.Client,
		socket:         d.Socket,
		ledger:         d.Ledger,
		schedules:      d.Schedules,
		checklists:     d.Checklists,
		admin:          d.Admin,
		notifier:       d.Notifier,
		defaultChannel: d.DefaultChannel,
		logger:         d.Logger,
	}

	b.commands = map[string]commandHandler{
		"/add":              b.cmdAdd,
		"/delete":           b.cmdDelete,
		"/points":           b.cmdPoints,
		"/set-reset-mode":   b.cmdSetResetMode,
		"/reset":            b.cmdReset,
		"/set-report-day":   b.cmdSetReportDay,
		"/create-checklist": b.cmdCreateChecklist,
		"/checklist":        b.cmdChecklist,
		"/delete-checklist": b.cmdDeleteChecklist,
	}
	b.views = map[string]interactionHandler{
		"add_modal_save":    b.viewAddSave,
		"remove_modal_save": b.viewRemoveSave,
		"reset":             b.viewReset,
		"create_checklist":  b.viewCreateChecklist,
		"delete_checklist":  b.viewDeleteChecklist,
	}
	b.shortcuts = map[string]interactionHandler{
		"add_point":             b.shortcutAddPoint,
		"remove_point":          b.shortcutRemovePoint,
		"all_points":            b.shortcutAllPoints,
		"open_create_checklist": b.shortcutOpenCreateChecklist,
		"view_checklists":       b.shortcutViewChecklists,
	}
	b.actions = map[string]actionHandler{
		"view_checklist_button": b.actionViewChecklist,
	}
	return b
}

// Run connects over socket mode and dispatches events until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	go b.dispatch(ctx)
	return b.socket.RunContext(ctx)
}

func (b *Bot) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socket.Events:
			if !ok {
				return
			}
			b.route(ctx, evt)
		}
	}
}

// route acks the envelope immediately and processes it off the loop.
func (b *Bot) route(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.logger.Info("connecting to slack")
	case socketmode.EventTypeConnected:
		b.logger.Info("connected to slack")
	case socketmode.EventTypeConnectionError:
		b.logger.Warn("slack connection error, retrying")
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		go b.handleCommand(ctx, cmd)
	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		go b.handleInteraction(ctx, cb)
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		go b.handleEvent(ctx, apiEvent)
	}
}

func (b *Bot) handleCommand(ctx context.Context, cmd slack.SlashCommand) {
	handler, ok := b.commands[cmd.Command]
	if !ok {
		b.logger.Warn("unregistered command", zap.String("command", cmd.Command))
		return
	}
	api.CommandsTotal.WithLabelValues(cmd.Command).Inc()

	ctx = ctxutil.WithActorID(ctx, cmd.UserID)
	if err := handler(ctx, cmd); err != nil {
		b.logger.Error("command handler failed",
			zap.String("command", cmd.Command),
			zap.String("user", cmd.UserID),
			zap.Error(err))
	}
}

func (b *Bot) handleInteraction(ctx context.Context, cb slack.InteractionCallback) {
	ctx = ctxutil.WithActorID(ctx, cb.User.ID)

	switch cb.Type {
	case slack.InteractionTypeViewSubmission:
		handler, ok := b.views[cb.View.CallbackID]
		if !ok {
			b.logger.Warn("unregistered view callback", zap.String("callback", cb.View.CallbackID))
			return
		}
		if err := handler(ctx, cb); err != nil {
			b.logger.Error("view handler failed",
				zap.String("callback", cb.View.CallbackID),
				zap.Error(err))
		}
	case slack.InteractionTypeShortcut, slack.InteractionTypeMessageAction:
		handler, ok := b.shortcuts[cb.CallbackID]
		if !ok {
			b.logger.Warn("unregistered shortcut", zap.String("callback", cb.CallbackID))
			return
		}
		if err := handler(ctx, cb); err != nil {
			b.logger.Error("shortcut handler failed",
				zap.String("callback", cb.CallbackID),
				zap.Error(err))
		}
	case slack.InteractionTypeBlockActions:
		for _, action := range cb.ActionCallback.BlockActions {
			b.handleBlockAction(ctx, cb, action)
		}
	}
}

func (b *Bot) handleBlockAction(ctx context.Context, cb slack.InteractionCallback, action *slack.BlockAction) {
	handler, ok := b.actions[action.ActionID]
	if !ok && strings.HasPrefix(action.ActionID, "toggle_item_") {
		handler, ok = b.actionToggleItem, true
	}
	if !ok {
		// value-less decorative actions arrive here too, not an error
		b.logger.Debug("unhandled block action", zap.String("action", action.ActionID))
		return
	}
	if err := handler(ctx, cb, action); err != nil {
		b.logger.Error("block action handler failed",
			zap.String("action", action.ActionID),
			zap.Error(err))
	}
}

func (b *Bot) handleEvent(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := apiEvent.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		if _, _, err := b.client.PostMessageContext(ctx, ev.Channel,
			slack.MsgOptionText("Intro message", false),
			slack.MsgOptionBlocks(IntroBlocks()...)); err != nil {
			b.logger.Error("intro message failed", zap.String("channel", ev.Channel), zap.Error(err))
		}
	}
}

// ephemeral answers the acting user privately in the given channel.
func (b *Bot) ephemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := b.client.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	return err
}
