package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/welcome"
	"github.com/abhisek/studybuddy/internal/spacedrep"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Deps are the services shared by all screens.
type Deps struct {
	Service   api.Service
	State     *appstate.Store
	Board     *leaderboard.Board
	KV        store.KVRepo
	Scheduler *spacedrep.Scheduler
	Log       *logrus.Logger

	// Splash shows the welcome animation before the home screen.
	Splash bool
}

// expireMsg removes notification ID once its lifetime has passed.
type expireMsg struct {
	ID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   Deps
	toasts *notify.Queue
	width  int
	height int

	// initCmd is the Init of a screen pushed before the program started.
	initCmd tea.Cmd
}

// New creates the root model with the home screen at the bottom of the
// stack and, if initialPath is another view, that view on top.
func New(deps Deps, initialPath string) (*AppModel, error) {
	if deps.State == nil {
		deps.State = appstate.NewStore()
	}
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}

	root := routes[HomePath](deps)
	if deps.Splash && (initialPath == "" || initialPath == HomePath) {
		root = welcome.New(func() screen.Screen { return routes[HomePath](deps) })
	}

	m := &AppModel{
		router: router.New(root),
		deps:   deps,
		toasts: notify.NewQueue(),
	}
	if initialPath != "" && initialPath != HomePath {
		s, err := screenFor(initialPath, deps)
		if err != nil {
			return nil, err
		}
		m.initCmd = m.router.Push(s)
	}
	return m, nil
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), m.initCmd)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.NavigateMsg:
		return m, m.navigate(msg.Path)

	case screen.NotifyMsg:
		return m, m.notify(msg.Title, msg.Message, msg.Kind)

	case expireMsg:
		m.toasts.Remove(msg.ID)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+d":
			m.toasts.DismissNewest()
			return m, nil
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

func (m *AppModel) navigate(path string) tea.Cmd {
	if path == HomePath {
		return m.router.PopToRoot()
	}
	s, err := screenFor(path, m.deps)
	if err != nil {
		m.deps.Log.WithError(err).Warn("app: navigate")
		return m.notify("Not found", err.Error(), notify.KindError)
	}
	return m.router.Push(s)
}

func (m *AppModel) notify(title, message string, kind notify.Kind) tea.Cmd {
	n := m.toasts.Push(title, message, kind)
	return tea.Tick(notify.Lifetime, func(_ time.Time) tea.Msg {
		return expireMsg{ID: n.ID}
	})
}

func (m *AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame for the current window size.
func (m *AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if cur := m.deps.State.State().CurrentSession; cur != nil {
		status = "● " + cur.Topic + "  "
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	notice := ""
	if items := m.toasts.Items(); len(items) > 0 {
		notice = components.Toast(items[len(items)-1], m.width-6)
		if len(items) > 1 {
			notice += lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("  (+%d, ctrl+d to dismiss)", len(items)-1))
		}
	}
	footer := layout.RenderFooter(footerHints, notice, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps Deps, initialPath string) error {
	m, err := New(deps, initialPath)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
