// Package wire provides dependency injection for the debits application.
// Construction is explicit: Build assembles the object graph once from the
// loaded configuration.
package wire

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/debits/internal/adapters/sqlite"
	"github.com/example/debits/internal/app"
	"github.com/example/debits/internal/config"
	"github.com/example/debits/internal/db"
	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

// Container holds the assembled application graph.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sql.DB

	Ledger     primary.LedgerService
	Schedules  primary.ScheduleService
	Checklists primary.ChecklistService

	// ScheduleRepo is read directly by the scheduler loop.
	ScheduleRepo secondary.ScheduleRepository
}

// NewLogger builds the production logger, teeing to stderr and an optional file.
func NewLogger(logFile string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Build opens the database, runs migrations, and wires repositories into
// services. The caller owns the container and closes it on shutdown.
func Build(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ledgerRepo := sqlite.NewLedgerRepository(database)
	scheduleRepo := sqlite.NewScheduleRepository(database)
	checklistRepo := sqlite.NewChecklistRepository(database)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		DB:           database,
		Ledger:       app.NewLedgerService(ledgerRepo, logger),
		Schedules:    app.NewScheduleService(scheduleRepo, logger),
		Checklists:   app.NewChecklistService(checklistRepo, logger),
		ScheduleRepo: scheduleRepo,
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.DB.Close()
}
