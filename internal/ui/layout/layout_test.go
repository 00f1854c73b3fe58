package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Quiz", "● python", 80)

	for _, want := range []string{"Study Buddy", "Quiz", "● python"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if w := lipgloss.Width(out); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}
}

func TestRenderFooter_Notice(t *testing.T) {
	plain := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, "", 80)
	withNotice := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, "Saved", 80)

	if lipgloss.Height(withNotice) != lipgloss.Height(plain)+1 {
		t.Errorf("notice should add one line: %d vs %d", lipgloss.Height(withNotice), lipgloss.Height(plain))
	}
	if !strings.Contains(withNotice, "Saved") {
		t.Error("footer missing notice")
	}
}

func TestRenderFrame_Height(t *testing.T) {
	header := RenderHeader("Home", "", 80)
	footer := RenderFooter(nil, "", 80)

	out := RenderFrame(header, "a\nb\nc", footer, 80, 30)

	if h := lipgloss.Height(out); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
}
