package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFormCmd creates the interactive form command
func NewFormCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive question form",
		Long: `Open a full-screen form: type a question, press Enter and the answer
appears below it. Only one question is in flight at a time.`,
		Args: cobra.NoArgs,
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

			return deps.TUI.RunForm(cmd.Context(), client, cfg)
		},
	}
}
