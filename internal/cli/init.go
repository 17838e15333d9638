package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/debits/internal/config"
)

// InitCmd returns the init command for writing a starter config file.
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config.json",
		Long: `Write a starter configuration file with defaults filled in.

Tokens are left empty: set them in the file or via DEBITS_SLACK_BOT_TOKEN and
DEBITS_SLACK_APP_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := os.Getenv(config.EnvConfigFile)
			if path == "" {
				path = config.DefaultPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
