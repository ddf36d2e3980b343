package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/askweb/internal/config"
	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/form"
	"github.com/diogo/askweb/internal/models"
	"github.com/diogo/askweb/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the form TUI
var (
	answerLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	answerBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorTextDim).
				Italic(true)
)

// queryOptions are the flags of a one-shot question
type queryOptions struct {
	output string
	file   string
	raw    bool
}

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner drawing on w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.w, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// terminalView renders the form regions on a plain terminal: the loading
// indicator is a spinner on stderr, the output is kept for printing once the
// cycle is over.
type terminalView struct {
	w        io.Writer
	quiet    bool
	spin     *spinner
	errorMsg string
	output   string
	isHint   bool
}

func newTerminalView(w io.Writer, quiet bool) *terminalView {
	return &terminalView{
		w:      w,
		quiet:  quiet,
		output: models.PlaceholderInitial,
		isHint: true,
	}
}

func (v *terminalView) Alert(message string) {
	warn := lipgloss.NewStyle().Foreground(colorError).Render("⚠ " + message)
	fmt.Fprintln(v.w, warn)
}

func (v *terminalView) SetSubmitEnabled(bool) {}

func (v *terminalView) SetLoading(loading bool) {
	if v.quiet {
		return
	}
	if loading {
		v.spin = newSpinner(v.w, "Searching for an answer")
		v.spin.start()
		return
	}
	if v.spin == nil {
		return
	}
	if v.errorMsg != "" {
		v.spin.stopWithError()
	} else {
		v.spin.stopWithSuccess("Done")
	}
	v.spin = nil
}

func (v *terminalView) SetError(visible bool, message string) {
	if visible {
		v.errorMsg = message
	} else {
		v.errorMsg = ""
	}
}

func (v *terminalView) SetOutput(text string, placeholder bool) {
	v.output = text
	v.isHint = placeholder
}

var _ form.View = (*terminalView)(nil)

// lockedWriter serializes writes from several goroutines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// runQuery submits one question through the form controller and prints the
// outcome. If opts.raw is set, only the answer text is printed.
func runQuery(ctx context.Context, deps *Dependencies, cfg config.Config, question string, opts queryOptions) error {
	client, err := deps.clientFor(cfg)
	if err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Failed to create client"))
		return fmt.Errorf("failed to create client: %w", err)
	}

	verbose := cfg.Verbose && !opts.raw
	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Endpoint: %s\n", cfg.PredictURL())
	}

	// The spinner draws from its own goroutine while the controller may log
	stderr := &lockedWriter{w: deps.Stderr}
	view := newTerminalView(stderr, opts.raw)
	var ctrlOpts []form.Option
	if verbose {
		ctrlOpts = append(ctrlOpts, form.WithLogWriter(stderr))
	}
	ctrl := form.NewController(client, view, ctrlOpts...)

	startTime := time.Now()
	err = ctrl.Submit(ctx, question)
	requestDuration := time.Since(startTime)

	if err != nil {
		if apierrors.IsValidationError(err) {
			return err
		}
		if !opts.raw {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, models.MessageFetchFailed))
		}
		return fmt.Errorf("%s: %w", strings.ToLower(models.MessageFetchFailed), err)
	}

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
	}

	text := view.output

	if opts.raw {
		if opts.output != "" {
			if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	fmt.Fprintln(deps.Stderr)

	if cfg.CopyToClipboard && !view.isHint && deps.CopyToClipboard != nil {
		if err := deps.CopyToClipboard(text); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(deps.Stderr, clipMsg)
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Answer saved to %s", opts.output),
		)
		fmt.Fprintln(deps.Stderr, successMsg)
		return nil
	}

	fmt.Fprintln(deps.Stdout, answerLabelStyle.Render("✦ Answer"))

	if view.isHint {
		fmt.Fprintln(deps.Stdout, placeholderStyle.Render(text))
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	rendered := render.Answer(text, render.OptionsFor(cfg, contentWidth))
	fmt.Fprintln(deps.Stdout, answerBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" && body != err.Error() {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check that the service is running, or pass --url"))
		case apierrors.IsConfigError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Run 'askweb config show' to review your settings"))
		case apierrors.IsParseError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The URL may not point at a prediction service"))
		}
	}

	return sb.String()
}
