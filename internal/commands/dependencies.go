package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/askweb/internal/api"
	"github.com/diogo/askweb/internal/config"
	"github.com/diogo/askweb/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunForm(ctx context.Context, client api.ClientInterface, cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client overrides the client built from configuration.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Stdin is read when it is not a terminal.
	Stdin    io.Reader
	HasStdin func() bool

	Stdout io.Writer
	Stderr io.Writer

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(text string) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunForm(ctx context.Context, client api.ClientInterface, cfg config.Config) error {
	return tui.RunForm(ctx, client, cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:             &DefaultTUI{},
		Stdin:           os.Stdin,
		HasStdin:        stdinIsPipe,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		CopyToClipboard: clipboard.WriteAll,
	}
}

// clientFor returns the injected client or one built from cfg
func (d *Dependencies) clientFor(cfg config.Config) (api.ClientInterface, error) {
	if d.Client != nil {
		return d.Client, nil
	}
	client, err := api.NewClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// stdinIsPipe reports whether stdin is redirected rather than a terminal
func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
