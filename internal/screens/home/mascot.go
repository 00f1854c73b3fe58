package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle     MascotVariant = iota // Default indigo
	MascotStudying                      // Cyan, reading, session open
	MascotProud                         // Amber, star eyes, high confidence
)

// proudConfidence is the average confidence at which the mascot celebrates.
const proudConfidence = 8.0

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
└┬───┬┘
 │ABC│`

const mascotStudying = `┌─────┐
│ ◔ ◔ │
│  ─  │
└┬───┬┘
 ╞═══╡`

const mascotProud = `┌─────┐
│ ★ ★ │
│  ▿  │
└┬───┬┘
 │A+ │`

// MascotFor picks the variant matching the current study state.
func MascotFor(st appstate.State) MascotVariant {
	switch {
	case st.CurrentSession != nil:
		return MascotStudying
	case st.Progress.SessionsCompleted > 0 && st.Progress.AverageConfidence >= proudConfidence:
		return MascotProud
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotStudying:
		art, fg = mascotStudying, theme.Secondary
	case MascotProud:
		art, fg = mascotProud, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
