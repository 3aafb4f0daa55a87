package quizgen

import (
	"context"
	"fmt"

	"quizify/internal/domain"
	"quizify/internal/logger"

	"go.uber.org/zap"
)

const (
	// DefaultTopic is used when the caller supplies no topic.
	DefaultTopic = "General Knowledge"

	// MaxQuestions bounds one quiz run.
	MaxQuestions = 10

	// maxRetries is the per-slot budget of further attempts after the
	// initial one fails (duplicate or unparseable output).
	maxRetries = 3
)

// Generator orchestrates one quiz run: it drives repeated chain
// invocations, validates uniqueness against the growing question bank,
// and assembles the final question list. Parameters are fixed at
// construction; GenerateQuiz may be called repeatedly and resets the
// bank each time.
type Generator struct {
	topic        string
	numQuestions int
	source       domain.QuestionSource
	questionBank []*domain.Question
}

// NewGenerator validates the generation parameters and builds a
// Generator. An empty topic falls back to DefaultTopic; numQuestions
// outside [1, MaxQuestions] is a configuration error and no generator
// is returned.
func NewGenerator(topic string, numQuestions int, source domain.QuestionSource) (*Generator, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	if numQuestions < 1 {
		return nil, domain.NewInvalidConfigError("number of questions must be at least 1")
	}
	if numQuestions > MaxQuestions {
		return nil, domain.NewInvalidConfigError(fmt.Sprintf("number of questions cannot exceed %d", MaxQuestions))
	}
	if source == nil {
		return nil, domain.NewInvalidConfigError("question source cannot be nil")
	}

	return &Generator{
		topic:        topic,
		numQuestions: numQuestions,
		source:       source,
	}, nil
}

// Topic returns the configured topic.
func (g *Generator) Topic() string {
	return g.topic
}

// NumQuestions returns the configured slot count.
func (g *Generator) NumQuestions() int {
	return g.numQuestions
}

// GenerateQuiz produces the question bank for this run. Each of the
// numQuestions slots consumes one initial chain invocation; when that
// attempt yields a duplicate or unparseable output, up to maxRetries
// further invocations are made for the slot before it is skipped. The
// returned bank therefore holds at most numQuestions entries, in
// generation order, with no two entries sharing question text. Model or
// retrieval failures abort the whole run.
func (g *Generator) GenerateQuiz(ctx context.Context) ([]*domain.Question, error) {
	l := logger.Get()
	g.questionBank = make([]*domain.Question, 0, g.numQuestions)

	for slot := 0; slot < g.numQuestions; slot++ {
		accepted, err := g.fillSlot(ctx, slot)
		if err != nil {
			return nil, err
		}
		if !accepted {
			l.Warn("Slot skipped after exhausting retry budget",
				zap.Int("slot", slot),
				zap.String("topic", g.topic))
		}
	}

	l.Info("Quiz generation finished",
		zap.String("topic", g.topic),
		zap.Int("requested", g.numQuestions),
		zap.Int("generated", len(g.questionBank)))

	return g.questionBank, nil
}

// fillSlot attempts to fill one slot: one initial invocation plus the
// retry budget. It reports whether a question was accepted; errors
// other than schema failures propagate and abort the run.
func (g *Generator) fillSlot(ctx context.Context, slot int) (bool, error) {
	l := logger.Get()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		question, err := g.source.GenerateQuestion(ctx, g.topic)
		if err != nil {
			if domain.IsSchemaError(err) {
				l.Warn("Discarding unparseable question candidate",
					zap.Int("slot", slot),
					zap.Int("attempt", attempt),
					zap.Error(err))
				continue
			}
			return false, err
		}

		unique, err := g.ValidateQuestion(question)
		if err != nil {
			return false, err
		}
		if unique {
			g.questionBank = append(g.questionBank, question)
			l.Debug("Accepted unique question",
				zap.Int("slot", slot),
				zap.Int("attempt", attempt))
			return true, nil
		}

		l.Debug("Duplicate question detected",
			zap.Int("slot", slot),
			zap.Int("attempt", attempt),
			zap.String("question", question.Question))
	}

	return false, nil
}

// ValidateQuestion reports whether the candidate is unique within the
// current question bank, comparing question text by exact string
// equality. A candidate with no question text is a contract violation,
// not a duplicate, and returns an error instead of false.
func (g *Generator) ValidateQuestion(question *domain.Question) (bool, error) {
	if question == nil || question.Question == "" {
		return false, domain.NewMissingFieldError("question")
	}

	for _, existing := range g.questionBank {
		if existing.Question == question.Question {
			return false, nil
		}
	}
	return true, nil
}

var _ domain.QuizGenerator = (*Generator)(nil)
