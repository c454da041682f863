package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lotuschain/gnome-ext-builder/internal/core"
)

// ErrAbandoned is returned when the user quits while a request is in flight.
// The request itself keeps running; its result is discarded.
var ErrAbandoned = errors.New("generation abandoned")

// GenerateFunc performs the blocking generation the spinner waits on.
type GenerateFunc func() (*core.ArtifactPair, error)

type generatedMsg struct {
	pair *core.ArtifactPair
	err  error
}

// ProgressDisplay is a Bubble Tea model that shows a spinner until one
// generation completes.
type ProgressDisplay struct {
	spinner   spinner.Model
	model     string
	run       GenerateFunc
	startTime time.Time
	endTime   time.Time

	pair      *core.ArtifactPair
	err       error
	done      bool
	abandoned bool
}

// NewProgressDisplay creates a progress display for one generation.
func NewProgressDisplay(model string, run GenerateFunc) *ProgressDisplay {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &ProgressDisplay{
		spinner:   s,
		model:     model,
		run:       run,
		startTime: time.Now(),
	}
}

// Init implements tea.Model.
func (p *ProgressDisplay) Init() tea.Cmd {
	run := p.run
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		pair, err := run()
		return generatedMsg{pair: pair, err: err}
	})
}

// Update implements tea.Model.
func (p *ProgressDisplay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			p.abandoned = true
			return p, tea.Quit
		}

	case generatedMsg:
		p.pair, p.err = msg.pair, msg.err
		p.done = true
		p.endTime = time.Now()
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *ProgressDisplay) View() string {
	if p.done || p.abandoned {
		return ""
	}
	elapsed := time.Since(p.startTime).Truncate(time.Second)
	return fmt.Sprintf("%s Generating code, please wait...  %s  %s\n",
		p.spinner.View(),
		ModelStyle.Render(p.model),
		HelpStyle.Render(elapsed.String()),
	)
}

// Result returns the generation outcome once the program has exited.
func (p *ProgressDisplay) Result() (*core.ArtifactPair, error) {
	if p.abandoned && !p.done {
		return nil, ErrAbandoned
	}
	return p.pair, p.err
}

// Duration is how long the generation took.
func (p *ProgressDisplay) Duration() time.Duration {
	if p.endTime.IsZero() {
		return time.Since(p.startTime)
	}
	return p.endTime.Sub(p.startTime)
}

// RunWithSpinner runs fn behind an interactive spinner and returns its result.
func RunWithSpinner(model string, fn GenerateFunc) (*core.ArtifactPair, time.Duration, error) {
	display := NewProgressDisplay(model, fn)
	final, err := tea.NewProgram(display).Run()
	if err != nil {
		return nil, 0, fmt.Errorf("progress display failed: %w", err)
	}
	d := final.(*ProgressDisplay)
	pair, err := d.Result()
	return pair, d.Duration(), err
}

// RenderStart returns a line announcing the request (non-interactive mode).
func RenderStart(model string, inputChars int) string {
	return fmt.Sprintf("%s Generating code  %s  ~%s input tokens",
		SpinnerStyle.Render("→"),
		ModelStyle.Render(model),
		FormatTokens(EstimateTokens(inputChars)),
	)
}

// RenderComplete returns the summary line after a successful generation.
func RenderComplete(model string, duration time.Duration, inputChars, outputChars int) string {
	inputTokens := EstimateTokens(inputChars)
	outputTokens := EstimateTokens(outputChars)
	cost := EstimateCost(model, inputTokens, outputTokens)

	return fmt.Sprintf("%s Generated  %s  %s  ~%s tokens  Est. cost: %s",
		SuccessStyle.Render("✓"),
		ModelStyle.Render(model),
		HelpStyle.Render(duration.Truncate(time.Second).String()),
		FormatTokens(inputTokens+outputTokens),
		CostStyle.Render(FormatCost(cost)),
	)
}
