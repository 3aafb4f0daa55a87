package domain

import (
	"context"
)

// QuizArchive persists finished quiz-generation runs.
type QuizArchive interface {
	Save(ctx context.Context, quiz *GeneratedQuiz) error
	// GetByID returns the archived quiz, or nil when no quiz with the
	// given ID exists.
	GetByID(ctx context.Context, id string) (*GeneratedQuiz, error)
}
