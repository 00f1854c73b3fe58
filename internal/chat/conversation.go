// Package chat holds the tutor conversation transcript.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/api"
)

const (
	Greeting     = "Hi! I'm your AI Study Buddy. Ask me anything about your studies!"
	EmptyAnswer  = "I received your message but couldn't process a proper response."
	ErrorMessage = "Sorry, I encountered an error while processing your request. Please try again."
)

// Conversation is the chat transcript plus the in-flight flag. Only one
// question may be pending at a time.
type Conversation struct {
	Messages []api.ChatMessage
	Pending  bool

	now func() time.Time
}

// New starts a conversation with the greeting.
func New() *Conversation {
	c := &Conversation{now: time.Now}
	c.append(api.SenderAI, Greeting, false)
	return c
}

func (c *Conversation) append(sender api.Sender, text string, isErr bool) api.ChatMessage {
	m := api.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: c.now(),
		IsError:   isErr,
	}
	c.Messages = append(c.Messages, m)
	return m
}

// Send records the user's question and marks the conversation pending.
// It returns the trimmed question and false when the input is blank or a
// request is already in flight.
func (c *Conversation) Send(input string) (string, bool) {
	q := strings.TrimSpace(input)
	if q == "" || c.Pending {
		return "", false
	}
	c.append(api.SenderUser, q, false)
	c.Pending = true
	return q, true
}

// Receive records the outcome of the pending request.
func (c *Conversation) Receive(answer string, err error) api.ChatMessage {
	c.Pending = false
	if err != nil {
		return c.append(api.SenderAI, ErrorMessage, true)
	}
	if strings.TrimSpace(answer) == "" {
		return c.append(api.SenderAI, EmptyAnswer, false)
	}
	return c.append(api.SenderAI, answer, false)
}

// History returns the transcript without the greeting and error
// messages, oldest first, for sending as model context.
func (c *Conversation) History() []api.ChatMessage {
	var out []api.ChatMessage
	for i, m := range c.Messages {
		if i == 0 || m.IsError {
			continue
		}
		out = append(out, m)
	}
	return out
}
