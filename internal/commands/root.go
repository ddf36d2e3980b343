// Package commands provides CLI commands for askweb.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/askweb/internal/config"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every command that talks to the service
type globalFlags struct {
	url     string
	timeout int
}

// settings resolves the effective configuration: file, environment, then flags.
func (g *globalFlags) settings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if g.url != "" {
		cfg.BaseURL = g.url
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = g.timeout
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewRootCmd creates the askweb command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}
	query := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "askweb [question]",
		Short: "Ask questions to a prediction service",
		Long: `askweb sends a question to a prediction service and shows its answer.

The service is any HTTP backend exposing POST /predict that accepts
{"question": "..."} and replies with {"answer": "..."}. Run 'askweb serve'
to host one backed by a local Ollama model.

Examples:
  askweb "What does article 12 say?"   Ask a single question
  askweb -f question.txt               Read the question from a file
  cat question.txt | askweb            Read the question from stdin
  askweb "..." -o answer.md            Save the answer to a file
  askweb form                          Open the interactive form
  askweb health                        Check that the service is up
  askweb config set base_url http://host:8000`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "askweb %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := readQuestion(deps, query.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			cfg, err := flags.settings(cmd)
			if err != nil {
				fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Invalid configuration"))
				return err
			}
			return runQuery(cmd.Context(), deps, cfg, question, *query)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.url, "url", "u", "", "Prediction service base URL (overrides config)")
	cmd.PersistentFlags().IntVar(&flags.timeout, "timeout", 0, "Request timeout in seconds, 0 waits indefinitely (overrides config)")
	cmd.Flags().StringVarP(&query.output, "output", "o", "", "Save answer to file")
	cmd.Flags().StringVarP(&query.file, "file", "f", "", "Read question from file")
	cmd.Flags().BoolVar(&query.raw, "raw", false, "Print only the answer text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewFormCmd(deps, flags))
	cmd.AddCommand(NewHealthCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewServeCmd(deps))

	return cmd
}

// readQuestion picks the question from --file, stdin or the argument, in
// that order. ok is false when no input was given at all.
func readQuestion(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.HasStdin != nil && deps.HasStdin() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" || len(args) == 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
