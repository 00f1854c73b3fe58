package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// InputKind restricts which characters a TextInput accepts.
type InputKind int

const (
	KindText InputKind = iota
	KindInteger
	KindDecimal
)

// TextInput wraps bubbles/textinput with input filtering.
type TextInput struct {
	Model textinput.Model
	Kind  InputKind
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, kind InputKind, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.Focus()

	if charLimit > 0 {
		ti.CharLimit = charLimit
	}

	return TextInput{Model: ti, Kind: kind}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages. Characters not allowed by Kind are dropped.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && !t.accepts(kmsg.String()) {
		return t, nil
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) accepts(key string) bool {
	if len(key) != 1 {
		return true
	}
	c := key[0]
	switch t.Kind {
	case KindInteger:
		return c >= '0' && c <= '9'
	case KindDecimal:
		if c == '.' {
			return !strings.Contains(t.Model.Value(), ".")
		}
		return c >= '0' && c <= '9'
	default:
		return true
	}
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// IntValue returns the input value as an integer.
func (t TextInput) IntValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Model.Value()))
}

// FloatValue returns the input value as a float.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
}
