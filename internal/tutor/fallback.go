package tutor

import (
	"strings"

	"github.com/abhisek/studybuddy/internal/api"
)

// OfflineAnswer is returned for questions when no model is available.
func OfflineAnswer(topic string) string {
	return "I'm currently in offline mode, but that's a great question about " + topic +
		"! Try looking it up in the recommended resources."
}

// FallbackFlashcards returns placeholder cards for topic.
func FallbackFlashcards(topic string) []api.Flashcard {
	return []api.Flashcard{
		{Front: "What is " + topic + "?", Back: "A key concept in " + topic + "."},
		{Front: "Key Term 1", Back: "Definition of key term 1."},
		{Front: "Key Term 2", Back: "Definition of key term 2."},
	}
}

// BankQuestions returns up to n built-in questions for topic and
// difficulty. Unknown topics yield none.
func BankQuestions(topic string, difficulty api.Difficulty, n int) []api.QuizQuestion {
	qs := quizBank[strings.ToLower(strings.TrimSpace(topic))][difficulty]
	if n < len(qs) {
		qs = qs[:n]
	}
	out := make([]api.QuizQuestion, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Motivations are the encouragement messages shown after sessions and quizzes.
var Motivations = []string{
	"Great job on your study session! Every minute counts towards your goals! 🌟",
	"Consistency is key! You're building valuable knowledge with each study session. 💪",
	"Remember why you started! Your future self will thank you for this effort. 🎯",
	"Learning is a journey. Celebrate your progress, no matter how small! 🎉",
	"You're developing skills that will open new opportunities. Keep going! 🚀",
	"The expert in anything was once a beginner. Keep pushing forward! 🌈",
	"Every question you ask brings you closer to mastery. Stay curious! 🔍",
	"You're not just studying - you're building your future self! 🌠",
	"Small progress is still progress. Keep that momentum going! ⚡",
	"Your brain is getting stronger with every study session! 🧠",
}

var quizBank = map[string]map[api.Difficulty][]api.QuizQuestion{
	"python": {
		api.DifficultyEasy: {
			{
				ID:            "py_easy_1",
				Question:      "What is the output of print(2 + 3 * 4)?",
				Options:       []string{"20", "14", "24", "Error"},
				CorrectAnswer: "14",
				Explanation:   "Python follows PEMDAS order of operations: multiplication before addition.",
				Topic:         "python",
				Difficulty:    api.DifficultyEasy,
			},
			{
				ID:            "py_easy_2",
				Question:      "What keyword is used to define a function in Python?",
				Options:       []string{"function", "def", "define", "func"},
				CorrectAnswer: "def",
				Explanation:   "The 'def' keyword is used to define functions in Python.",
				Topic:         "python",
				Difficulty:    api.DifficultyEasy,
			},
		},
		api.DifficultyMedium: {
			{
				ID:            "py_medium_1",
				Question:      "What does the 'self' parameter represent in Python class methods?",
				Options:       []string{"The class itself", "The instance of the class", "A reference to the parent class", "A static method indicator"},
				CorrectAnswer: "The instance of the class",
				Explanation:   "The 'self' parameter refers to the instance of the class.",
				Topic:         "python",
				Difficulty:    api.DifficultyMedium,
			},
		},
		api.DifficultyHard: {
			{
				ID:            "py_hard_1",
				Question:      "What is the time complexity of searching in a Python dictionary?",
				Options:       []string{"O(1)", "O(n)", "O(log n)", "O(n²)"},
				CorrectAnswer: "O(1)",
				Explanation:   "Python dictionaries use hash tables, providing average O(1) time complexity for lookups.",
				Topic:         "python",
				Difficulty:    api.DifficultyHard,
			},
		},
	},
	"javascript": {
		api.DifficultyEasy: {
			{
				ID:            "js_easy_1",
				Question:      "Which keyword is used to declare a variable in modern JavaScript?",
				Options:       []string{"var", "let", "const", "all of the above"},
				CorrectAnswer: "all of the above",
				Explanation:   "JavaScript has three variable declaration keywords: var, let, and const.",
				Topic:         "javascript",
				Difficulty:    api.DifficultyEasy,
			},
		},
	},
	"react": {
		api.DifficultyEasy: {
			{
				ID:            "react_easy_1",
				Question:      "What is JSX in React?",
				Options:       []string{"A JavaScript library", "A syntax extension for JavaScript", "A CSS framework", "A database query language"},
				CorrectAnswer: "A syntax extension for JavaScript",
				Explanation:   "JSX is a syntax extension that allows writing HTML-like code in JavaScript.",
				Topic:         "react",
				Difficulty:    api.DifficultyEasy,
			},
		},
	},
}
