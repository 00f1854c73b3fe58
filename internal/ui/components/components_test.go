package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/studybuddy/internal/notify"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one"},
		{Label: "off", Disabled: true},
		{Label: "two"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)

	m, _ = m.Update(keyPress('k'))
	assert.Equal(t, 1, m.Selected)
}

func TestMenu_EnterRunsAction(t *testing.T) {
	type picked struct{}
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		return func() tea.Msg { return picked{} }
	}}})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if assert.NotNil(t, cmd) {
		assert.IsType(t, picked{}, cmd())
	}
	assert.Contains(t, m.View(), "▸ go")
}

func TestTextInput_Filters(t *testing.T) {
	in := NewTextInput("", KindDecimal, 0)
	for _, r := range "1a.5.x" {
		in, _ = in.Update(keyPress(r))
	}
	assert.Equal(t, "1.5", in.Value())
	v, err := in.FloatValue()
	assert.NoError(t, err)
	assert.InDelta(t, 1.5, v, 1e-9)

	num := NewTextInput("", KindInteger, 2)
	for _, r := range "3x07" {
		num, _ = num.Update(keyPress(r))
	}
	assert.Equal(t, "30", num.Value())

	text := NewTextInput("", KindText, 0)
	for _, r := range "go 1" {
		text, _ = text.Update(keyPress(r))
	}
	assert.Equal(t, "go 1", text.Value())
}

func TestMultiChoice(t *testing.T) {
	mc := NewMultiChoice([]string{"w", "x", "y", "z"})

	mc, picked := mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Empty(t, picked)
	assert.Equal(t, "x", mc.Current())

	mc.Hide([]string{"w", "y"})
	assert.Equal(t, []string{"x", "z"}, mc.Visible())

	_, picked = mc.Update(keyPress('b'))
	assert.Equal(t, "z", picked)

	_, picked = mc.Update(keyPress('3'))
	assert.Empty(t, picked, "only two options are visible")

	mc.Reveal("x", "z")
	_, picked = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Empty(t, picked)
	assert.Contains(t, mc.View(), "A)  x")
}

func TestMultiChoice_HideKeepsCursorInRange(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d"})
	mc.Selected = 3

	mc.Hide([]string{"a", "b"})

	assert.Equal(t, 1, mc.Selected)
	assert.Equal(t, "d", mc.Current())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "", Truncate("hello", 0))
	assert.Equal(t, "日本…", Truncate("日本語テキスト", 5))
}

func TestWrap(t *testing.T) {
	lines := Wrap("the quick brown fox jumps", 10)
	assert.Equal(t, []string{"the quick", "brown fox", "jumps"}, lines)

	for _, l := range Wrap("abcdefghijklmnop", 5) {
		assert.LessOrEqual(t, len(l), 5)
	}
	assert.Equal(t, []string{"a", "", "b"}, Wrap("a\n\nb", 10))
}

func TestProgressBar(t *testing.T) {
	out := NewProgressBar("Q", 0.5, true, 30).View()
	assert.True(t, strings.HasSuffix(out, "50%") || strings.Contains(out, "50%"))
}

func TestToast(t *testing.T) {
	n := notify.Notification{Title: "Plan created", Message: "python", Kind: notify.KindSuccess}
	out := Toast(n, 40)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "Plan created: python")

	long := Toast(notify.Notification{Title: strings.Repeat("x", 100)}, 20)
	assert.LessOrEqual(t, lipgloss.Width(long), 20)
}
