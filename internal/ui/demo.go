package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pleimann/holdpad/internal/element"
	"github.com/pleimann/holdpad/internal/gesture"
	"github.com/pleimann/holdpad/internal/hold"
	"github.com/pleimann/holdpad/internal/timing"
)

// ErrNotTerminal is returned by RunDemo when stdin or stdout is not a TTY
var ErrNotTerminal = errors.New("demo needs an interactive terminal")

// Terminals report key repeats but no key release. A space press is treated
// as released once no repeat has arrived for this long, which covers the
// usual initial repeat delay.
const keyReleaseAfter = 650 * time.Millisecond

const (
	historySize    = 5
	minDuration    = 250 * time.Millisecond
	durationStep   = 250 * time.Millisecond
	headerLines    = 3
	maxProgressBar = 60
)

// DemoOptions configures the interactive hold demo
type DemoOptions struct {
	Duration  time.Duration
	Strategy  timing.Strategy
	FrameRate int
}

// runMsg carries work posted from timers and the frame ticker
type runMsg func()

type keyReleaseMsg struct{ gen int }

// programPoster posts work into a running Bubble Tea program so timers and
// frames run serialized with input messages
type programPoster struct {
	p *tea.Program
}

func (pp *programPoster) Post(fn func()) {
	pp.p.Send(runMsg(fn))
}

type demoModel struct {
	env      timing.Env
	duration time.Duration
	strategy timing.Strategy

	el     *element.Element
	handle *hold.Handle
	bar    progress.Model

	percent   float64
	status    string
	started   time.Time
	modality  gesture.Modality
	completed bool
	history   []string
	err       error

	keyDown bool
	keyGen  int
	hover   bool
}

func newDemoModel(env timing.Env, opts DemoOptions) (*demoModel, error) {
	m := &demoModel{
		env:      env,
		duration: opts.Duration,
		strategy: opts.Strategy,
		el:       element.New("demo"),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		status:   "idle",
	}
	if err := m.attach(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *demoModel) attach() error {
	h, err := hold.Attach(m.el, m.duration, hold.Callbacks{
		OnHoldStart:    m.onStart,
		OnHoldProgress: m.onProgress,
		OnHoldComplete: m.onComplete,
		OnHoldCancel:   m.onCancel,
	},
		hold.WithStrategy(m.strategy),
		hold.WithClock(m.env.Clock),
		hold.WithFrames(m.env.Frames),
	)
	if err != nil {
		return err
	}
	h.SetText("Hold to confirm")
	h.SetAriaLabel("confirm")
	m.handle = h
	return nil
}

// reattach replaces the widget after a strategy or duration change. A hold
// in progress is abandoned.
func (m *demoModel) reattach() {
	m.handle.Detach()
	m.percent = 0
	m.completed = false
	m.status = "idle"
	if err := m.attach(); err != nil {
		m.err = err
	}
}

func (m *demoModel) onStart(mod gesture.Modality) {
	m.started = m.env.Clock.Now()
	m.modality = mod
	m.completed = false
	m.percent = 0
	m.status = "holding with " + mod.String()
}

func (m *demoModel) onProgress(p float64) {
	m.percent = p
}

func (m *demoModel) onComplete() {
	m.completed = true
	m.percent = 100
	m.status = "completed"
	m.record(Success(fmt.Sprintf("completed with %s after %s", m.modality, m.elapsed())))
}

func (m *demoModel) onCancel() {
	m.percent = 0
	m.status = "cancelled"
	m.record(Warning(fmt.Sprintf("cancelled %s hold after %s", m.modality, m.elapsed())))
}

func (m *demoModel) elapsed() time.Duration {
	return m.env.Clock.Now().Sub(m.started).Round(time.Millisecond)
}

func (m *demoModel) record(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historySize {
		m.history = m.history[len(m.history)-historySize:]
	}
}

func (m *demoModel) Init() tea.Cmd {
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case keyReleaseMsg:
		if msg.gen == m.keyGen && m.keyDown {
			m.keyDown = false
			m.el.Dispatch(element.NewKeyEvent(element.KeyUp, " "))
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.BlurMsg:
		m.keyDown = false
		m.hover = false
		m.el.Dispatch(element.NewEvent(element.Blur))
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), maxProgressBar)
	}
	return m, nil
}

func (m *demoModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.handle.Detach()
		return tea.Quit
	case " ":
		if !m.keyDown {
			m.keyDown = true
			m.el.Dispatch(element.NewKeyEvent(element.KeyDown, " "))
		}
		m.keyGen++
		gen := m.keyGen
		return tea.Tick(keyReleaseAfter, func(time.Time) tea.Msg {
			return keyReleaseMsg{gen: gen}
		})
	case "s":
		m.strategy = nextStrategy(m.strategy)
		m.reattach()
	case "+", "=":
		m.duration += durationStep
		m.reattach()
	case "-":
		if m.duration-durationStep >= minDuration {
			m.duration -= durationStep
			m.reattach()
		}
	}
	return nil
}

func (m *demoModel) handleMouse(msg tea.MouseMsg) {
	inside := m.inButton(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		button, ok := mouseButton(msg.Button)
		if ok && inside {
			m.el.Dispatch(element.NewMouseEvent(element.MouseDown, button))
		}
	case tea.MouseActionRelease:
		button, ok := mouseButton(msg.Button)
		if ok && inside {
			m.el.Dispatch(element.NewMouseEvent(element.MouseUp, button))
		}
	case tea.MouseActionMotion:
		if m.hover && !inside {
			m.el.Dispatch(element.NewEvent(element.MouseLeave))
		}
	}
	m.hover = inside
}

// mouseButton maps a terminal mouse button to a DOM button index. Release
// events from some terminals carry no button; those count as primary.
func mouseButton(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft, tea.MouseButtonNone:
		return element.ButtonPrimary, true
	case tea.MouseButtonMiddle:
		return element.ButtonAuxiliary, true
	case tea.MouseButtonRight:
		return element.ButtonSecondary, true
	default:
		return 0, false
	}
}

func (m *demoModel) inButton(x, y int) bool {
	btn := m.renderButton()
	w, h := lipgloss.Width(btn), lipgloss.Height(btn)
	return x >= 0 && x < w && y >= headerLines && y < headerLines+h
}

func nextStrategy(s timing.Strategy) timing.Strategy {
	for i, st := range timing.Strategies {
		if st == s {
			return timing.Strategies[(i+1)%len(timing.Strategies)]
		}
	}
	return timing.Strategies[0]
}

func (m *demoModel) renderButton() string {
	style := HoldButtonStyle
	switch {
	case m.completed:
		style = HoldButtonDoneStyle
	case m.handle.Active():
		style = HoldButtonActiveStyle
	}
	return style.Render(m.el.Text())
}

func (m *demoModel) View() string {
	var b strings.Builder

	// The header must stay headerLines tall for mouse hit testing
	b.WriteString(Title("holdpad demo") + "\n")
	b.WriteString(Muted(fmt.Sprintf("strategy %s, duration %s", m.strategy, m.duration)) + "\n\n")

	b.WriteString(m.renderButton() + "\n\n")
	b.WriteString(m.bar.ViewAs(min(max(m.percent/100, 0), 1)) + "\n")

	_, active := m.el.Attribute(gesture.AttrActiveHold)
	props := fmt.Sprintf("%s: %s  %s: %s  %s: %t",
		hold.PropDuration, m.el.StyleProperty(hold.PropDuration),
		hold.PropProgress, m.el.StyleProperty(hold.PropProgress),
		gesture.AttrActiveHold, active)
	b.WriteString(PropertyStyle.Render(props) + "\n\n")

	b.WriteString(Bold("Status ") + m.status + "\n")
	if m.err != nil {
		b.WriteString(Error(m.err.Error()) + "\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n" + BoxStyle.Render(strings.Join(m.history, "\n")) + "\n")
	}

	b.WriteString("\n" + Muted("hold space or click and hold the button  s strategy  +/- duration  q quit"))
	return b.String()
}

// RunDemo runs an interactive hold widget in the terminal
func RunDemo(opts DemoOptions) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	poster := &programPoster{}
	frames := timing.NewTickerFrames(poster, opts.FrameRate)
	env := timing.Env{
		Clock:  timing.NewLoopClock(timing.SystemClock, poster),
		Frames: frames,
	}

	m, err := newDemoModel(env, opts)
	if err != nil {
		return fmt.Errorf("failed to create hold widget: %w", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	poster.p = p

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go frames.Run(ctx)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("demo failed: %w", err)
	}
	return nil
}
