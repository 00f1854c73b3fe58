package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are addressed by
// their text so hidden options can be removed without shifting answers.
type MultiChoice struct {
	Options  []string
	Hidden   map[string]bool
	Selected int

	// Set once the question is answered.
	Revealed bool
	Correct  string
	Chosen   string
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, Hidden: map[string]bool{}}
}

// Visible returns the options not hidden, in order.
func (m MultiChoice) Visible() []string {
	out := make([]string, 0, len(m.Options))
	for _, o := range m.Options {
		if !m.Hidden[o] {
			out = append(out, o)
		}
	}
	return out
}

// Hide removes options from view and keeps the cursor on a visible one.
func (m *MultiChoice) Hide(options []string) {
	for _, o := range options {
		m.Hidden[o] = true
	}
	if n := len(m.Visible()); m.Selected >= n {
		m.Selected = max(n-1, 0)
	}
}

// Current returns the highlighted option text.
func (m MultiChoice) Current() string {
	v := m.Visible()
	if m.Selected < 0 || m.Selected >= len(v) {
		return ""
	}
	return v[m.Selected]
}

// Reveal marks the answer so View can color it.
func (m *MultiChoice) Reveal(correct, chosen string) {
	m.Revealed = true
	m.Correct = correct
	m.Chosen = chosen
}

// Update moves the cursor. It returns the chosen option text when the
// learner picks one with enter or a letter/number key, else "".
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, string) {
	if m.Revealed {
		return m, ""
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, ""
	}
	visible := m.Visible()

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(visible)-1 {
			m.Selected++
		}
	case "enter":
		return m, m.Current()
	default:
		if i, ok := optionIndex(key); ok && i < len(visible) {
			m.Selected = i
			return m, visible[i]
		}
	}
	return m, ""
}

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '6':
		return int(c - '1'), true
	case c >= 'a' && c <= 'f':
		return int(c - 'a'), true
	}
	return 0, false
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Visible() {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case m.Revealed && opt == m.Correct:
			style = theme.Correct
		case m.Revealed && opt == m.Chosen:
			style = theme.Incorrect
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
