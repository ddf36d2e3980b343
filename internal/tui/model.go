package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/askweb/internal/api"
	"github.com/diogo/askweb/internal/config"
	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/form"
	"github.com/diogo/askweb/internal/models"
	"github.com/diogo/askweb/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// answerMsg carries the outcome of one predict call back to the UI loop
type answerMsg struct {
	answer *models.Answer
	err    error
}

// Model is the question form. All view mutations happen inside Update: the
// predict call runs as a tea.Cmd and its result comes back as an answerMsg.
type Model struct {
	ctx       context.Context
	predictor api.Predictor
	ctrl      *form.Controller
	view      *form.StateView
	baseURL   string
	cfg       config.Config

	// UI components
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model

	// State
	ready          bool
	lastErr        error
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewFormModel creates the form bound to predictor
func NewFormModel(ctx context.Context, predictor api.Predictor, baseURL string, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Type your question here..."
	ti.CharLimit = 2000
	ti.Prompt = "› "
	ti.PromptStyle = inputLabelStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	view := form.NewStateView(models.PlaceholderInitial)

	return Model{
		ctx:       ctx,
		predictor: predictor,
		ctrl:      form.NewController(predictor, view),
		view:      view,
		baseURL:   baseURL,
		cfg:       cfg,
		input:     ti,
		spinner:   s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 5
		statusHeight := 2
		errorHeight := 3

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - errorHeight
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth - 4
			m.viewport.Height = vpHeight
		}
		m.input.Width = contentWidth - 8
		m.updateViewport()

	case tea.KeyMsg:
		// A pending alert swallows keys until it is dismissed
		if m.view.LastAlert != "" {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "enter", "esc", " ":
				m.view.DismissAlert()
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if !m.view.SubmitEnabled {
				return m, nil
			}
			question, err := m.ctrl.Begin(m.input.Value())
			if err != nil {
				return m, nil
			}
			m.lastErr = nil
			m.animationFrame = 0
			m.updateViewport()
			return m, tea.Batch(
				m.predict(question),
				m.spinner.Tick,
				animationTick(),
			)
		}

	case answerMsg:
		m.ctrl.Complete(msg.answer, msg.err)
		m.lastErr = msg.err
		m.updateViewport()
		m.viewport.GotoTop()

	case spinner.TickMsg:
		if m.view.Loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.view.Loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass keys to the input while the form is interactive
	if m.view.SubmitEnabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// predict runs the request off the UI loop
func (m Model) predict(question string) tea.Cmd {
	ctx := m.ctx
	predictor := m.predictor
	return func() tea.Msg {
		answer, err := predictor.Predict(ctx, question)
		return answerMsg{answer: answer, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ askweb"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.baseURL),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	if m.view.LastAlert != "" {
		sections = append(sections, m.renderAlert(contentWidth))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	output := lipgloss.JoinVertical(lipgloss.Left,
		outputLabelStyle.Render("Answer"),
		m.viewport.View(),
	)
	sections = append(sections, outputPanelStyle.Width(contentWidth).Render(output))

	if m.view.ErrorVisible {
		sections = append(sections, m.renderError())
	}

	var inputContent string
	if m.view.Loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = m.input.View()
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// updateViewport refreshes the output region from the view state
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	width := m.viewport.Width - 4
	if m.view.OutputIsHint {
		m.viewport.SetContent(placeholderStyle.Render(m.view.Output))
		return
	}
	rendered := render.Answer(m.view.Output, render.OptionsFor(m.cfg, width))
	m.viewport.SetContent(answerBubbleStyle.Width(width).Render(rendered))
}

func (m Model) renderAlert(width int) string {
	box := alertStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Render("⚠ "+m.view.LastAlert),
		"",
		hintStyle.Render("press Enter to continue"),
	))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// renderError shows the error region. The message comes from the view; the
// hint line is derived from the structured error when one is known.
func (m Model) renderError() string {
	var sb strings.Builder
	sb.WriteString(errorStyle.Render("⚠ " + m.view.ErrorMessage))

	detailStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)
	if status := apierrors.GetHTTPStatus(m.lastErr); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}
	if hint := errorHint(m.lastErr); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).PaddingLeft(2).Render("→ " + hint))
	}
	return sb.String()
}

// renderLoadingAnimation renders the loading indicator that replaces the
// submit control while a request is in flight
func (m Model) renderLoadingAnimation() string {
	frame := m.animationFrame

	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}
	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Searching ")
	return fmt.Sprintf("%s %s%s", m.spinner.View(), bar.String(), text)
}

func (m Model) renderStatusBar(width int) string {
	submit := submitStyle.Render("● ready")
	if !m.view.SubmitEnabled {
		submit = submitOffStyle.Render("○ " + m.ctrl.Status().String())
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Submit"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := []string{submit}
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunForm starts the interactive form
func RunForm(ctx context.Context, client api.ClientInterface, cfg config.Config) error {
	render.SetTUITheme(cfg.TUITheme)
	UpdateTheme()

	m := NewFormModel(ctx, client, client.BaseURL(), cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
