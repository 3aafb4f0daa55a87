package domain

import (
	"context"
)

// QuestionSource produces one structured quiz question per invocation
// for the given topic. The retrieval-augmented chain is the production
// implementation.
type QuestionSource interface {
	GenerateQuestion(ctx context.Context, topic string) (*Question, error)
}

// QuizGenerator drives repeated QuestionSource invocations and
// assembles the deduplicated question bank for one quiz run.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context) ([]*Question, error)
}
