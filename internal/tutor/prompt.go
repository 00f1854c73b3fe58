package tutor

import (
	"fmt"

	"github.com/abhisek/studybuddy/internal/api"
)

const systemPrompt = `You are an AI Study Buddy helping a student learn.

Rules:
- Explanations are clear, concise and suitable for a student.
- Stay on the subject the student is studying.
- Structured answers follow the requested JSON format exactly.`

func answerPrompt(topic, question string) string {
	return fmt.Sprintf("The student is studying %s and asks: %q\nProvide a clear, concise, and helpful explanation.", topic, question)
}

func quizPrompt(topic string, difficulty api.Difficulty, n int) string {
	return fmt.Sprintf("Generate %d %s level multiple choice quiz questions about %s. "+
		"Each question has exactly 4 options and correct_answer must be one of them.", n, difficulty, topic)
}

func flashcardPrompt(topic string, n int) string {
	return fmt.Sprintf("Create %d flashcards for the topic %q. The front is a question or term, the back the answer or definition.", n, topic)
}

func goalsPrompt(topic string, weeks int) string {
	return fmt.Sprintf("Create a %d-week study plan for %s. Number the weeks from 1 and give each a theme and 2 to 4 goals.", weeks, topic)
}

func resourcesPrompt(topic string) string {
	return fmt.Sprintf("Suggest 3 to 5 high-quality study resources for %s.", topic)
}
