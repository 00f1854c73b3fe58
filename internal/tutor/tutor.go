// Package tutor produces study content: answers, quizzes, flashcards and
// plan material. It asks the configured LLM for structured output and
// falls back to built-in content whenever no model is configured or a
// call fails.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/llm"
)

// Config controls generation.
type Config struct {
	// MaxTokens is the token budget for structured responses.
	MaxTokens int

	// AnswerMaxTokens is the token budget for free-text answers.
	AnswerMaxTokens int

	Temperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       2048,
		AnswerMaxTokens: 1024,
		Temperature:     0.7,
	}
}

// Tutor generates study content. A nil provider means offline mode.
type Tutor struct {
	provider llm.Provider
	config   Config
	log      *logrus.Logger
}

// New creates a Tutor. provider may be nil.
func New(provider llm.Provider, cfg Config, log *logrus.Logger) *Tutor {
	if log == nil {
		log = logrus.New()
	}
	return &Tutor{provider: provider, config: cfg, log: log}
}

// Online reports whether a model is configured.
func (t *Tutor) Online() bool {
	return t.provider != nil
}

// Answer explains question in the context of topic.
func (t *Tutor) Answer(ctx context.Context, topic, question string) string {
	if t.provider == nil {
		return OfflineAnswer(topic)
	}

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: answerPrompt(topic, question)}},
		MaxTokens:   t.config.AnswerMaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		t.fallback("answer", topic, err)
		return OfflineAnswer(topic)
	}
	text := resp.Text()
	if text == "" {
		return OfflineAnswer(topic)
	}
	return text
}

type quizOutput struct {
	Questions []api.QuizQuestion `json:"questions"`
}

// Quiz returns up to n questions about topic. Generated questions whose
// answer is not among their options are dropped.
func (t *Tutor) Quiz(ctx context.Context, topic string, difficulty api.Difficulty, n int) []api.QuizQuestion {
	if t.provider != nil {
		var out quizOutput
		err := t.generate(ctx, llm.PurposeQuiz, quizPrompt(topic, difficulty, n), QuizSchema, &out)
		if err == nil {
			qs := usableQuestions(out.Questions, topic, difficulty)
			if len(qs) > n {
				qs = qs[:n]
			}
			if len(qs) > 0 {
				return qs
			}
			err = fmt.Errorf("no usable questions in %d generated", len(out.Questions))
		}
		t.fallback("quiz", topic, err)
	}
	return BankQuestions(topic, difficulty, n)
}

func usableQuestions(in []api.QuizQuestion, topic string, difficulty api.Difficulty) []api.QuizQuestion {
	out := make([]api.QuizQuestion, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, q := range in {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 || !slices.Contains(q.Options, q.CorrectAnswer) {
			continue
		}
		if q.ID == "" || seen[q.ID] {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		seen[q.ID] = true
		q.Topic = topic
		q.Difficulty = difficulty
		out = append(out, q)
	}
	return out
}

type flashcardOutput struct {
	Cards []api.Flashcard `json:"cards"`
}

// Flashcards returns up to n cards about topic.
func (t *Tutor) Flashcards(ctx context.Context, topic string, n int) []api.Flashcard {
	if t.provider != nil {
		var out flashcardOutput
		err := t.generate(ctx, llm.PurposeFlashcards, flashcardPrompt(topic, n), FlashcardSchema, &out)
		if err == nil && len(out.Cards) > 0 {
			if len(out.Cards) > n {
				out.Cards = out.Cards[:n]
			}
			return out.Cards
		}
		t.fallback("flashcards", topic, err)
	}
	return FallbackFlashcards(topic)
}

type goalsOutput struct {
	Weeks api.WeeklyGoals `json:"weeks"`
}

// WeeklyGoals asks the model for a weeks-long curriculum. It returns nil
// when offline or on failure; callers fill in the built-in curriculum.
func (t *Tutor) WeeklyGoals(ctx context.Context, topic string, weeks int) api.WeeklyGoals {
	if t.provider == nil {
		return nil
	}
	var out goalsOutput
	if err := t.generate(ctx, llm.PurposePlanGoals, goalsPrompt(topic, weeks), WeeklyGoalsSchema, &out); err != nil {
		t.fallback("weekly goals", topic, err)
		return nil
	}
	for i := range out.Weeks {
		if out.Weeks[i].Week == 0 {
			out.Weeks[i].Week = i + 1
		}
	}
	return out.Weeks
}

type resourcesOutput struct {
	Resources []string `json:"resources"`
}

// Resources asks the model for study resources. It returns nil when
// offline or on failure.
func (t *Tutor) Resources(ctx context.Context, topic string) []string {
	if t.provider == nil {
		return nil
	}
	var out resourcesOutput
	if err := t.generate(ctx, llm.PurposeResources, resourcesPrompt(topic), ResourcesSchema, &out); err != nil {
		t.fallback("resources", topic, err)
		return nil
	}
	return out.Resources
}

// Motivation returns one of the fixed encouragement messages at random.
func (t *Tutor) Motivation() string {
	return Motivations[rand.IntN(len(Motivations))]
}

func (t *Tutor) generate(ctx context.Context, purpose, prompt string, schema *llm.Schema, dst any) error {
	resp, err := t.provider.Generate(llm.WithPurpose(ctx, purpose), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      schema,
		MaxTokens:   t.config.MaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		return fmt.Errorf("LLM generation failed: %w", err)
	}
	if err := json.Unmarshal(resp.Content, dst); err != nil {
		return fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return nil
}

func (t *Tutor) fallback(what, topic string, err error) {
	t.log.WithFields(logrus.Fields{
		"content": what,
		"topic":   topic,
	}).WithError(err).Warn("using built-in content")
}
