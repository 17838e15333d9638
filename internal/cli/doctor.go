package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/debits/internal/config"
	"github.com/example/debits/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and database health",
		Long: `Health check for the bot environment.

Validates:
- Configuration file and token presence
- Database file creation and schema migrations

Examples:
  debits doctor          # Run full health check
  debits doctor --quiet  # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkConfig(),
				checkDatabase(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				for _, r := range results {
					fmt.Printf("%-12s %s\n", r.Name, colorStatus(r.Status))
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("             %s\n", r.Details)
					}
				}
				fmt.Println()
			}

			if hasErrors {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Exit code only, no output")
	return cmd
}

func colorStatus(status string) string {
	switch status {
	case "✓":
		return color.New(color.FgGreen).Sprint(status)
	case "⚠":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}

func checkConfig() CheckResult {
	cfg, err := config.LoadFile()
	if err != nil {
		return CheckResult{Name: "config", Status: "✗", Details: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return CheckResult{Name: "config", Status: "⚠", Details: err.Error()}
	}
	return CheckResult{Name: "config", Status: "✓"}
}

func checkDatabase() CheckResult {
	cfg, err := config.LoadFile()
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: "config unreadable: " + err.Error()}
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	defer database.Close()

	if err := database.Ping(); err != nil {
		return CheckResult{Name: "database", Status: "✗", Details: err.Error()}
	}
	return CheckResult{Name: "database", Status: "✓"}
}
