package quiz

import (
	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/leaderboard"
)

// questionsMsg is sent when quiz generation Request finishes.
type questionsMsg struct {
	Request   uint64
	Questions []api.QuizQuestion
	Err       error
}

// tickMsg is the one-second countdown for question Turn.
type tickMsg struct {
	Turn uint64
}

// reviewDoneMsg ends the review delay of question Turn.
type reviewDoneMsg struct {
	Turn uint64
}

// leaderboardMsg carries the stored or updated leaderboard.
type leaderboardMsg struct {
	Entries []leaderboard.Entry
	Err     error
}

// motivationMsg carries the results-screen message.
type motivationMsg struct {
	Text string
}

// gradedMsg is the server-side grading of the finished run.
type gradedMsg struct {
	Submission *api.QuizSubmission
	Err        error
}
