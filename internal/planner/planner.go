// Package planner builds multi-week study plans from a topic and a daily
// time budget. Content produced by the LLM is optional; every section has
// a deterministic fallback.
package planner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/api"
)

// MaxWeeks caps the number of weekly goals in a plan.
const MaxWeeks = 12

// Content is the generated part of a plan. Nil fields fall back to the
// built-in tables.
type Content struct {
	Goals     api.WeeklyGoals
	Resources []string
}

// Weeks returns how many weekly goals a plan over days should carry.
func Weeks(days int) int {
	return max(1, min(days/7, MaxWeeks))
}

// Build assembles a plan for req as of now. It fails with
// api.ErrPlanWindow when req sets neither target days nor a deadline.
func Build(userID string, req api.PlanRequest, now time.Time, c Content) (api.StudyPlan, error) {
	days, deadline, err := req.Window(now)
	if err != nil {
		return api.StudyPlan{}, err
	}
	daily, total := req.Hours(days)
	weeks := Weeks(days)

	goals := c.Goals
	if len(goals) == 0 {
		goals = FallbackGoals(req.Topic, weeks)
	} else if len(goals) > weeks {
		goals = goals[:weeks]
	}

	resources := c.Resources
	if len(resources) == 0 {
		resources = FallbackResources(req.Topic)
	}

	return api.StudyPlan{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Topic:              req.Topic,
		TotalHours:         total,
		DailyHours:         math.Round(daily*10) / 10,
		WeeklyGoals:        goals,
		Resources:          resources,
		AssessmentSchedule: Assessments(days),
		Deadline:           api.NewTimestamp(deadline),
		CreatedAt:          api.NewTimestamp(now),
	}, nil
}

// Assessments lists the checkpoints for a plan over days: a progress quiz
// every second week, a project review every fourth, and a final assessment
// for plans of eight weeks or more.
func Assessments(days int) []string {
	weeks := days / 7
	out := []string{}
	for w := 1; w <= weeks; w++ {
		if w%2 == 0 {
			out = append(out, fmt.Sprintf("Week %d Progress Quiz", w))
		}
		if w%4 == 0 {
			out = append(out, fmt.Sprintf("Week %d Project Review", w))
		}
	}
	if weeks >= 8 {
		out = append(out, "Final Comprehensive Assessment")
	}
	return out
}

// FallbackResources returns generic resource titles for topic.
func FallbackResources(topic string) []string {
	return []string{
		topic + " Official Documentation",
		topic + " for Beginners",
		"Advanced " + topic + " Concepts",
	}
}

// FallbackGoals returns weeks goals from the built-in curriculum for
// topic, padded with advanced weeks once the curriculum runs out.
func FallbackGoals(topic string, weeks int) api.WeeklyGoals {
	table := curricula[strings.ToLower(strings.TrimSpace(topic))]
	out := make(api.WeeklyGoals, 0, weeks)
	for i := range weeks {
		if i < len(table) {
			g := table[i]
			out = append(out, api.WeeklyGoal{
				Week:  i + 1,
				Theme: g.theme,
				Goals: append([]string(nil), g.goals...),
			})
			continue
		}
		out = append(out, api.WeeklyGoal{
			Week:  i + 1,
			Theme: "Advanced " + topic + " Concepts",
			Goals: []string{"Deep Dive", "Practice Problems", "Mini Project"},
		})
	}
	return out
}
