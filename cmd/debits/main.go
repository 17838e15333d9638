package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/debits/internal/cli"
	"github.com/example/debits/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "debits",
		Short:   "Debits Bot - debit point tracking for Slack workspaces",
		Version: version.String(),
		Long: `Debits Bot tracks per-user debit points, posts weekly leaderboard reports,
resets ledgers monthly, and runs collaborative checklists in channels.`,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
