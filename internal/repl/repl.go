// Package repl runs the console as an interactive terminal program.
package repl

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/footprint-tools/console/internal/console"
	"github.com/footprint-tools/console/internal/ui"
	"github.com/footprint-tools/console/internal/ui/style"
)

// DefaultFrame is how often queued commands are run.
const DefaultFrame = 16 * time.Millisecond

const maxCompletionsShown = 8

type frameMsg time.Time

type keyMap struct {
	Submit   key.Binding
	Complete key.Binding
	Prev     key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "run")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "complete")),
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓", "history")),
		Next:     key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp/PgDn", "scroll")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("^L", "clear")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("Esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Complete, k.Prev, k.PageUp, k.Clear, k.Quit}
}

// Model is the bubbletea model of the interactive console. Input lines are
// queued on the console and run on the next frame tick.
type Model struct {
	con   *console.Console
	out   *ui.Buffer
	frame time.Duration
	quit  *atomic.Bool

	input textinput.Model
	view  viewport.Model
	help  help.Model
	keys  keyMap

	histPos int
	draft   string

	completions []string
	compPos     int

	seen   uint64
	width  int
	height int
}

// New creates a Model reading console output from out. It registers the
// quit and clear commands on con.
func New(con *console.Console, out *ui.Buffer, frame time.Duration) Model {
	if frame <= 0 {
		frame = DefaultFrame
	}

	input := textinput.New()
	input.Prompt = style.Prompt("] ")
	input.Placeholder = "type help for a list of commands"
	input.Focus()

	m := Model{
		con:     con,
		out:     out,
		frame:   frame,
		quit:    &atomic.Bool{},
		input:   input,
		view:    viewport.New(80, 20),
		help:    help.New(),
		keys:    newKeyMap(),
		histPos: -1,
	}

	m.registerCommands()
	return m
}

func (m Model) registerCommands() {
	quit := m.quit
	for _, name := range []string{"quit", "exit"} {
		m.register(name, "Leave the interactive console", func([]string, string) { quit.Store(true) })
	}

	out := m.out
	m.register("clear", "Clear the console output", func([]string, string) { out.Clear() })
}

func (m Model) register(name, desc string, fn console.CommandFunc) {
	err := m.con.RegisterCommand(name, fn, console.WithDescription(desc))
	if err != nil && !errors.Is(err, console.ErrDuplicate) {
		m.con.Println(style.Error(err.Error()))
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh(true)
		return m, nil

	case frameMsg:
		m.con.Update()
		if m.quit.Load() {
			return m, tea.Quit
		}
		m.refresh(false)
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Complete) {
		m.completions = nil
		m.compPos = 0
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		m.walkHistory(-1)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.walkHistory(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		m.out.Clear()
		m.refresh(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.histPos = -1
	m.draft = ""
	if line == "" {
		return
	}
	m.con.QueueCommand(line, true)
	m.refresh(true)
}

// walkHistory moves through the input history; dir -1 is older. Leaving the
// newest entry restores what was being typed.
func (m *Model) walkHistory(dir int) {
	hist := m.con.History()
	if len(hist) == 0 {
		return
	}

	pos := m.histPos
	switch {
	case pos < 0 && dir < 0:
		m.draft = m.input.Value()
		pos = len(hist) - 1
	case pos < 0:
		return
	default:
		pos += dir
	}

	switch {
	case pos < 0:
		pos = 0
	case pos >= len(hist):
		m.histPos = -1
		m.input.SetValue(m.draft)
		m.input.CursorEnd()
		return
	}

	m.histPos = pos
	m.input.SetValue(hist[pos])
	m.input.CursorEnd()
}

// complete fills the input with the next completion candidate. The first
// press computes the candidates; further presses cycle through them.
func (m *Model) complete() {
	if m.completions == nil {
		m.completions = m.con.BuildAutoCompleteList(m.input.Value())
		m.compPos = 0
		if len(m.completions) == 0 {
			return
		}
	}
	if len(m.completions) == 0 {
		return
	}

	m.input.SetValue(m.completions[m.compPos%len(m.completions)])
	m.input.CursorEnd()
	m.compPos++
}

func (m *Model) resize() {
	footer := 3
	m.view.Width = max(m.width, 1)
	m.view.Height = max(m.height-footer, 1)
	m.input.Width = max(m.width-4, 1)
	m.help.Width = m.width
}

// refresh reloads the viewport when the output changed, following the tail
// unless the user scrolled up.
func (m *Model) refresh(force bool) {
	v := m.out.Version()
	if v == m.seen && !force {
		return
	}
	m.seen = v

	follow := m.view.AtBottom() || force
	m.view.SetContent(strings.Join(m.out.Lines(), "\n"))
	if follow {
		m.view.GotoBottom()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.completions) > 1 {
		shown := m.completions
		if len(shown) > maxCompletionsShown {
			shown = shown[:maxCompletionsShown]
		}
		b.WriteString(style.Muted(strings.Join(shown, "  ")))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// Run starts the interactive console and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, con *console.Console, out *ui.Buffer, frame time.Duration) error {
	p := tea.NewProgram(
		New(con, out, frame),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
