package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/debits/internal/api"
	"github.com/example/debits/internal/config"
	"github.com/example/debits/internal/scheduler"
	"github.com/example/debits/internal/slackbot"
	"github.com/example/debits/internal/wire"
)

// ServeCmd returns the serve command: the bot, the scheduler, and the ops
// server running until interrupted.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the scheduler, and the ops server",
		Long: `Connect to Slack over socket mode and serve until interrupted.

Runs three loops: the chat event loop, the report/reset scheduler, and the
HTTP ops server (health and metrics).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := wire.NewLogger(cfg.LogFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runServe(cfg, logger)
		},
	}
}

func runServe(cfg *config.Config, logger *zap.Logger) error {
	container, err := wire.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := slack.New(cfg.SlackBotToken, slack.OptionAppLevelToken(cfg.SlackAppToken))
	socket := socketmode.New(client)

	notifier := slackbot.NewNotifier(client, cfg.DefaultChannel, logger)
	bot := slackbot.New(slackbot.Deps{
		Client:         client,
		Socket:         socket,
		Ledger:         container.Ledger,
		Schedules:      container.Schedules,
		Checklists:     container.Checklists,
		Admin:          slackbot.NewDirectoryAdminChecker(client),
		Notifier:       notifier,
		DefaultChannel: cfg.DefaultChannel,
		Logger:         logger,
	})

	announcer := slackbot.NewReportAnnouncer(notifier, cfg.DefaultChannel, logger)
	loop := scheduler.New(container.ScheduleRepo, container.Ledger, announcer, logger, scheduler.Config{
		ReportCheckInterval: time.Duration(cfg.ReportCheckInterval),
		ResetCheckInterval:  time.Duration(cfg.ResetCheckInterval),
	})

	ops := api.NewServer(container.DB, logger)

	errs := make(chan error, 2)
	go func() {
		errs <- bot.Run(ctx)
	}()
	go loop.Run(ctx)
	go func() {
		logger.Info("ops server listening", zap.String("addr", cfg.ListenAddr))
		errs <- ops.ListenAndServe(cfg.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errs:
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("serve failed: %w", err)
		}
		return nil
	}
}
