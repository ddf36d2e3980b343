package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health check command
func NewHealthCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the prediction service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.settings(cmd)
			if err != nil {
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Invalid configuration"))
				return err
			}

			client, err := deps.clientFor(cfg)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			message, err := client.Health(cmd.Context())
			if err != nil {
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Health check failed"))
				return fmt.Errorf("health check failed: %w", err)
			}

			ok := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
			fmt.Fprintf(deps.Stdout, "%s %s\n", ok, client.BaseURL())
			if message != "" {
				fmt.Fprintf(deps.Stdout, "  %s\n", lipgloss.NewStyle().Foreground(colorTextDim).Render(message))
			}
			return nil
		},
	}
}
