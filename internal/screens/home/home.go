package home

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// User-facing messages.
const (
	MsgStartFailed     = "Failed to start session. Please try again."
	MsgEndFailed       = "Failed to end session. Please try again."
	MsgTopicRequired   = "Please enter a topic"
	MsgConfidenceRange = "Confidence must be between 0 and 10"
)

const (
	requestTimeout = 30 * time.Second
	maxConfidence  = 10
)

type mode int

const (
	modeMenu mode = iota
	modeStartSession
	modeEndSession
)

// HomeScreen is the dashboard: progress, the current study session and
// navigation to the other screens.
type HomeScreen struct {
	svc   api.Service
	state *appstate.Store
	log   *logrus.Logger

	menu       components.Menu
	mode       mode
	input      components.TextInput
	busy       bool
	errMsg     string
	motivation string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)

// New creates the home screen.
func New(svc api.Service, state *appstate.Store, log *logrus.Logger) *HomeScreen {
	if log == nil {
		log = logging.Discard()
	}
	h := &HomeScreen{svc: svc, state: state, log: log}
	h.buildMenu()
	return h
}

// buildMenu rebuilds the menu for the current session state, keeping the
// cursor position.
func (h *HomeScreen) buildMenu() {
	sessionItem := components.MenuItem{
		Label:  "Start study session",
		Hint:   "track time and questions",
		Action: h.openSessionForm(modeStartSession),
	}
	if h.state.State().CurrentSession != nil {
		sessionItem = components.MenuItem{
			Label:  "End study session",
			Hint:   "rate your confidence",
			Action: h.openSessionForm(modeEndSession),
		}
	}

	items := []components.MenuItem{
		{Label: "AI Chat", Hint: "ask your tutor", Action: navigate("/ai-chat")},
		{Label: "Quiz", Hint: "timed multiple choice", Action: navigate("/quiz")},
		{Label: "Flashcards", Hint: "flip and rate cards", Action: navigate("/flashcards")},
		{Label: "Study Plans", Hint: "multi-week schedules", Action: navigate("/study-plan")},
		sessionItem,
		{Label: "History", Hint: "past study sessions", Action: navigate("/history")},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	h.menu.Selected = selected
}

func navigate(path string) func() tea.Cmd {
	return func() tea.Cmd { return screen.Navigate(path) }
}

func (h *HomeScreen) openSessionForm(m mode) func() tea.Cmd {
	return func() tea.Cmd {
		h.mode = m
		h.errMsg = ""
		if m == modeStartSession {
			h.input = components.NewTextInput("What are you studying?", components.KindText, 80)
		} else {
			h.input = components.NewTextInput("0-10", components.KindInteger, 2)
		}
		return h.input.Init()
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	svc := h.svc
	load := func(fn func(ctx context.Context) tea.Msg) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return fn(ctx)
		}
	}
	return tea.Batch(
		load(func(ctx context.Context) tea.Msg {
			p, err := svc.Profile(ctx)
			return profileMsg{Profile: p, Err: err}
		}),
		load(func(ctx context.Context) tea.Msg {
			sessions, err := svc.Sessions(ctx)
			return sessionsMsg{Sessions: sessions, Err: err}
		}),
		load(func(ctx context.Context) tea.Msg {
			text, err := svc.Motivation(ctx)
			if err != nil {
				return motivationMsg{}
			}
			return motivationMsg{Text: text}
		}),
	)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// HandlesEscape reports whether a session form is open.
func (h *HomeScreen) HandlesEscape() bool {
	return h.mode != modeMenu
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.mode != modeMenu {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		if msg.Err != nil {
			h.log.WithError(msg.Err).Warn("home: load profile")
			return h, nil
		}
		h.state.Dispatch(appstate.SetProfile{Profile: *msg.Profile})
		return h, nil

	case sessionsMsg:
		if msg.Err != nil {
			h.log.WithError(msg.Err).Warn("home: load sessions")
			return h, nil
		}
		h.state.Dispatch(appstate.SetSessions{Sessions: msg.Sessions})
		return h, nil

	case motivationMsg:
		h.motivation = msg.Text
		return h, nil

	case sessionStartedMsg:
		return h.handleStarted(msg)

	case sessionEndedMsg:
		return h.handleEnded(msg)

	case tea.KeyMsg:
		if h.mode == modeMenu {
			var cmd tea.Cmd
			h.menu, cmd = h.menu.Update(msg)
			return h, cmd
		}
		return h.handleFormKey(msg)
	}

	if h.mode != modeMenu {
		var cmd tea.Cmd
		h.input, cmd = h.input.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if h.busy {
		return h, nil
	}
	switch msg.String() {
	case "esc":
		h.mode = modeMenu
		h.errMsg = ""
		return h, nil
	case "enter":
		if h.mode == modeStartSession {
			return h.startSession()
		}
		return h.endSession()
	}
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return h, cmd
}

func (h *HomeScreen) startSession() (screen.Screen, tea.Cmd) {
	topic := h.input.Value()
	if topic == "" {
		h.errMsg = MsgTopicRequired
		return h, nil
	}
	h.busy = true
	svc := h.svc
	return h, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess, err := svc.StartSession(ctx, topic)
		return sessionStartedMsg{Topic: topic, Session: sess, Err: err}
	}
}

func (h *HomeScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	h.busy = false
	if msg.Err != nil {
		h.log.WithError(msg.Err).Warn("home: start session")
		h.errMsg = MsgStartFailed
		return h, nil
	}
	h.state.Dispatch(appstate.StartSession{Topic: msg.Topic, Session: msg.Session})
	h.mode = modeMenu
	h.buildMenu()
	return h, screen.Notify("Session started", "Studying "+msg.Topic, notify.KindSuccess)
}

func (h *HomeScreen) endSession() (screen.Screen, tea.Cmd) {
	cur := h.state.State().CurrentSession
	if cur == nil {
		h.mode = modeMenu
		h.buildMenu()
		return h, nil
	}
	confidence, err := h.input.IntValue()
	if err != nil || confidence < 0 || confidence > maxConfidence {
		h.errMsg = MsgConfidenceRange
		return h, nil
	}
	h.busy = true
	id := cur.ID
	svc := h.svc
	return h, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sess, err := svc.EndSession(ctx, id, confidence)
		return sessionEndedMsg{Session: sess, Err: err}
	}
}

func (h *HomeScreen) handleEnded(msg sessionEndedMsg) (screen.Screen, tea.Cmd) {
	h.busy = false
	if msg.Err != nil || msg.Session == nil {
		h.log.WithError(msg.Err).Warn("home: end session")
		h.errMsg = MsgEndFailed
		return h, nil
	}
	h.state.Dispatch(appstate.EndSession{Session: *msg.Session})
	h.mode = modeMenu
	h.buildMenu()
	return h, screen.Notify("Session complete",
		fmt.Sprintf("%d minutes, %d questions", msg.Session.Duration, msg.Session.QuestionsAsked),
		notify.KindSuccess)
}
