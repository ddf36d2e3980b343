package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/askweb/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View and change askweb settings stored in ~/.askweb/config.json.

Environment variables (also read from a .env file) override the file:
  ASKWEB_BASE_URL, ASKWEB_TIMEOUT_SECONDS, ASKWEB_VERBOSE`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(deps.Stdout, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long:  "Change a setting. Valid keys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := config.SetValue(&cfg, args[0], args[1]); err != nil {
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Cannot set "+args[0]))
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			ok := lipgloss.NewStyle().Foreground(colorSuccess).Render(fmt.Sprintf("✓ %s = %s", args[0], args[1]))
			fmt.Fprintln(deps.Stdout, ok)
			return nil
		},
	})

	return cmd
}
