// Package history lists past study sessions.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

const requestTimeout = 30 * time.Second

type sessionsMsg struct {
	Sessions []api.StudySession
	Err      error
}

// HistoryScreen displays past study sessions, newest first. The list
// comes from the app state store and is refreshed from the backend on open.
type HistoryScreen struct {
	svc   api.Service
	state *appstate.Store
	log   *logrus.Logger

	selected int
	expanded map[string]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc api.Service, state *appstate.Store, log *logrus.Logger) *HistoryScreen {
	if log == nil {
		log = logging.Discard()
	}
	return &HistoryScreen{
		svc:      svc,
		state:    state,
		log:      log,
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := svc.Sessions(ctx)
		return sessionsMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

// sessions returns the finished sessions, newest first.
func (s *HistoryScreen) sessions() []api.StudySession {
	all := s.state.State().Sessions
	out := make([]api.StudySession, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Ended() {
			out = append(out, all[i])
		}
	}
	return out
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsMsg:
		s.loaded = true
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("history: load sessions")
			s.errMsg = "Could not refresh sessions"
			return s, nil
		}
		s.errMsg = ""
		s.state.Dispatch(appstate.SetSessions{Sessions: msg.Sessions})
		return s, nil

	case tea.KeyMsg:
		sessions := s.sessions()
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(sessions)-1 {
				s.selected++
			}
		case "enter", "space":
			if s.selected < len(sessions) {
				id := sessions[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sessions := s.sessions()

	var b strings.Builder
	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg) + "\n\n")
	}

	switch {
	case len(sessions) == 0 && !s.loaded:
		b.WriteString(theme.Hint.Render("Loading history..."))
		return components.Center(b.String(), width, height)
	case len(sessions) == 0:
		b.WriteString(theme.Hint.Italic(true).Render("No finished sessions yet. Start one from the home screen!"))
		return components.Center(b.String(), width, height)
	}

	for i, sess := range sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%s%s  %s  %dm  %d asked  %d/10",
			prefix,
			sess.StartTime.Local().Format("Jan 02"),
			sess.Topic,
			sess.Duration,
			sess.QuestionsAsked,
			sess.ConfidenceLevel,
		)
		b.WriteString(style.Render(components.Truncate(line, cw)) + "\n")

		if s.expanded[sess.ID] {
			b.WriteString(renderDetail(sess, cw))
		}
	}
	return components.Card(strings.TrimRight(b.String(), "\n"), cw)
}

func renderDetail(sess api.StudySession, cw int) string {
	dim := theme.Hint
	var b strings.Builder
	b.WriteString(dim.Render(fmt.Sprintf("    %s - %s",
		sess.StartTime.Local().Format("15:04"), sess.EndTime.Local().Format("15:04"))) + "\n")
	if len(sess.MaterialsCovered) == 0 {
		b.WriteString(dim.Italic(true).Render("    No materials recorded") + "\n")
		return b.String()
	}
	for _, m := range sess.MaterialsCovered {
		b.WriteString(dim.Render(components.Truncate("    • "+m, cw)) + "\n")
	}
	return b.String()
}
