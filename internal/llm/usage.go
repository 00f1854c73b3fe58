package llm

import "github.com/abhisek/studybuddy/internal/store"

// Study features that issue LLM calls.
const (
	FeatureChat       = "Tutor chat"
	FeatureQuiz       = "Quizzes"
	FeatureFlashcards = "Flashcards"
	FeaturePlans      = "Study plans"
	FeatureOther      = "Other"
)

var featureOrder = []string{FeatureChat, FeatureQuiz, FeatureFlashcards, FeaturePlans, FeatureOther}

// FeatureOf maps a recorded purpose to the study feature that issued it.
func FeatureOf(purpose string) string {
	switch purpose {
	case PurposeChat:
		return FeatureChat
	case PurposeQuiz:
		return FeatureQuiz
	case PurposeFlashcards:
		return FeatureFlashcards
	case PurposePlanGoals, PurposeResources:
		return FeaturePlans
	}
	return FeatureOther
}

// FeatureUsage totals LLM usage for one study feature.
type FeatureUsage struct {
	Feature      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64

	// Purposes holds the per-purpose rows folded into the totals.
	Purposes []store.LLMUsage
}

// Tokens is the input plus output token count.
func (f FeatureUsage) Tokens() int {
	return f.InputTokens + f.OutputTokens
}

// ByFeature folds per-purpose usage into study features, in menu order.
// Features without calls are left out. Latency is weighted by calls.
func ByFeature(usage []store.LLMUsage) []FeatureUsage {
	byName := make(map[string]*FeatureUsage)
	latency := make(map[string]int64)
	for _, u := range usage {
		name := FeatureOf(u.Purpose)
		f := byName[name]
		if f == nil {
			f = &FeatureUsage{Feature: name}
			byName[name] = f
		}
		f.Calls += u.Calls
		f.Failures += u.Failures
		f.InputTokens += u.InputTokens
		f.OutputTokens += u.OutputTokens
		f.Purposes = append(f.Purposes, u)
		latency[name] += u.AvgLatencyMs * int64(u.Calls)
	}

	var out []FeatureUsage
	for _, name := range featureOrder {
		f := byName[name]
		if f == nil || f.Calls == 0 {
			continue
		}
		f.AvgLatencyMs = latency[name] / int64(f.Calls)
		out = append(out, *f)
	}
	return out
}
