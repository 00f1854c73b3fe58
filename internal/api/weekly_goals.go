package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
)

// WeeklyGoal is one week of a study plan.
type WeeklyGoal struct {
	Week  int      `json:"week"`
	Theme string   `json:"theme"`
	Goals []string `json:"goals"`
}

// WeeklyGoals decodes both the structured form and the legacy form in
// which each week is a plain "Week N: theme" string.
type WeeklyGoals []WeeklyGoal

var legacyWeekPrefix = regexp.MustCompile(`^Week \d+: `)

func (w *WeeklyGoals) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weekly goals: %w", err)
	}
	if raw == nil {
		*w = nil
		return nil
	}

	out := make(WeeklyGoals, 0, len(raw))
	for i, item := range raw {
		out = append(out, decodeWeeklyGoal(item, i))
	}
	*w = out
	return nil
}

func decodeWeeklyGoal(item json.RawMessage, index int) WeeklyGoal {
	if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
		return WeeklyGoal{Week: index + 1, Theme: "Goal"}
	}

	var goal WeeklyGoal
	if err := json.Unmarshal(item, &goal); err == nil {
		return goal
	}

	var legacy string
	if err := json.Unmarshal(item, &legacy); err == nil {
		return WeeklyGoal{
			Week:  index + 1,
			Theme: legacyWeekPrefix.ReplaceAllString(legacy, ""),
		}
	}

	return WeeklyGoal{Week: index + 1, Theme: "Goal"}
}
