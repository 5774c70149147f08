package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/trilogic/internal/router"
	"github.com/abhisek/trilogic/internal/screen"
	"github.com/abhisek/trilogic/internal/screens/home"
	sessionscreen "github.com/abhisek/trilogic/internal/screens/session"
	"github.com/abhisek/trilogic/internal/screens/welcome"
	"github.com/abhisek/trilogic/internal/session"
	"github.com/abhisek/trilogic/internal/store"
	"github.com/abhisek/trilogic/internal/ui/layout"
)

// Options holds the dependencies shared by every screen. Events and the
// session sink may be nil, in which case history is unavailable and nothing
// is recorded.
type Options struct {
	Session sessionscreen.Deps
	Planner session.Planner
	Events  store.EventRepo
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
	solved int
	total  int
}

// newAppModel creates a new AppModel starting at the welcome splash.
func newAppModel(opts Options) AppModel {
	if opts.Planner == nil {
		opts.Planner = session.NewPlanner(opts.Events)
	}
	splash := welcome.New(func() screen.Screen {
		return home.New(opts.Session, opts.Planner, opts.Events)
	})
	return AppModel{
		router: router.New(splash),
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.solved = msg.Solved
		m.total = msg.Total
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.solved, m.total, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); hints != nil {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
