package chat

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/appstate"
	convo "github.com/abhisek/studybuddy/internal/chat"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// askTimeout bounds a single tutor round trip.
const askTimeout = 60 * time.Second

// answerMsg carries the outcome of a question.
type answerMsg struct {
	Answer string
	Err    error
}

// ChatScreen is the AI tutor conversation.
type ChatScreen struct {
	svc   api.Service
	state *appstate.Store
	log   *logrus.Logger

	conv  *convo.Conversation
	input components.TextInput
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates a chat screen. Questions go to the current study session
// when one is open.
func New(svc api.Service, state *appstate.Store, log *logrus.Logger) *ChatScreen {
	if log == nil {
		log = logging.Discard()
	}
	return &ChatScreen{
		svc:   svc,
		state: state,
		log:   log,
		conv:  convo.New(),
		input: components.NewTextInput("Ask me anything...", components.KindText, 500),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "AI Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		if msg.Err != nil {
			s.log.WithError(msg.Err).Warn("chat: ask failed")
		}
		s.conv.Receive(msg.Answer, msg.Err)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			q, ok := s.conv.Send(s.input.Value())
			if !ok {
				return s, nil
			}
			s.input.Reset()
			return s, s.ask(q)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) ask(question string) tea.Cmd {
	var sessionID string
	if cur := s.state.State().CurrentSession; cur != nil {
		sessionID = cur.ID
	}
	svc := s.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()

		var answer string
		var err error
		if sessionID != "" {
			answer, err = svc.AskSessionQuestion(ctx, sessionID, question)
		} else {
			answer, err = svc.AskQuestion(ctx, question)
		}
		return answerMsg{Answer: answer, Err: err}
	}
}

// Conversation exposes the transcript.
func (s *ChatScreen) Conversation() *convo.Conversation {
	return s.conv
}
