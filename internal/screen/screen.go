package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/notify"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that consume Esc themselves,
// for example to close a form, instead of letting the app go back.
type EscapeHandler interface {
	HandlesEscape() bool
}

// NavigateMsg asks the app to open the screen registered at Path.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// NotifyMsg asks the app to show a transient notification.
type NotifyMsg struct {
	Title   string
	Message string
	Kind    notify.Kind
}

// Notify returns a command that emits a NotifyMsg.
func Notify(title, message string, kind notify.Kind) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg{Title: title, Message: message, Kind: kind}
	}
}
