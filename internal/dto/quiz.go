package dto

import (
	"time"

	"quizify/internal/domain"
)

// GenerateQuizRequest is the request body for generating a quiz.
type GenerateQuizRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

// ChoiceResponse is one answer option in the API response.
type ChoiceResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QuestionResponse is one quiz question in the API response.
type QuestionResponse struct {
	Question    string           `json:"question"`
	Choices     []ChoiceResponse `json:"choices"`
	Answer      string           `json:"answer"`
	Explanation string           `json:"explanation"`
}

// QuizResponse is a finished quiz in the API response. NumGenerated may
// be lower than NumRequested when retry budgets were exhausted.
type QuizResponse struct {
	ID           string             `json:"id"`
	Topic        string             `json:"topic"`
	NumRequested int                `json:"num_requested"`
	NumGenerated int                `json:"num_generated"`
	Questions    []QuestionResponse `json:"questions"`
	CreatedAt    time.Time          `json:"created_at"`
}

// FromGeneratedQuiz maps the domain entity to its API representation.
func FromGeneratedQuiz(quiz *domain.GeneratedQuiz) *QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		choices := make([]ChoiceResponse, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, ChoiceResponse{Key: c.Key, Value: c.Value})
		}
		questions = append(questions, QuestionResponse{
			Question:    q.Question,
			Choices:     choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}
	return &QuizResponse{
		ID:           quiz.ID,
		Topic:        quiz.Topic,
		NumRequested: quiz.NumRequested,
		NumGenerated: len(quiz.Questions),
		Questions:    questions,
		CreatedAt:    quiz.CreatedAt,
	}
}
