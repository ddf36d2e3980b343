package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/askweb/internal/inference"
	"github.com/diogo/askweb/internal/server"
)

// NewServeCmd creates the command that hosts the prediction endpoint
func NewServeCmd(deps *Dependencies) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction service backed by Ollama",
		Long: `Run an HTTP server exposing GET / and POST /predict.

Questions are wrapped in an instruction prompt and answered by a model
served by Ollama. Settings come from the environment or a .env file:
  PORT            listen port (default 8000)
  OLLAMA_URL      Ollama server (default http://localhost:11434)
  OLLAMA_MODEL    model name (default qwen3:8b)
  MAX_NEW_TOKENS  generation limit (default 600)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.LoadConfig()
			if port != "" {
				cfg.Port = port
			}

			gen, err := inference.NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel,
				inference.WithMaxTokens(cfg.MaxNewTokens))
			if err != nil {
				return fmt.Errorf("failed to create generator: %w", err)
			}

			checkModel(cmd.Context(), deps, gen)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(gen, cfg, server.WithLogOutput(deps.Stderr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}

// checkModel reports whether the model is available. The server starts either
// way; predict answers "model not loaded" until it is.
func checkModel(ctx context.Context, deps *Dependencies, gen *inference.OllamaGenerator) {
	fmt.Fprintf(deps.Stderr, "Loading model: %s...\n", gen.Model())

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := gen.Ready(ctx); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Model not available"))
		return
	}
	fmt.Fprintln(deps.Stderr, "✓ Model is ready")
}
