package validation

import (
	"fmt"
	"strings"

	"quizify/internal/domain"
	"quizify/internal/quizgen"

	"github.com/oklog/ulid/v2"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateQuizRequest validates the quiz-generation request.
// An empty topic is allowed (the generator substitutes its default);
// the question count must be within the generator's bounds.
func (v *Validator) ValidateGenerateQuizRequest(topic string, numQuestions int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(topic) > 500 {
		errors = append(errors, domain.ValidationError{
			Field:   "topic",
			Message: "must be at most 500 characters",
		})
	}

	if numQuestions < 1 || numQuestions > quizgen.MaxQuestions {
		errors = append(errors, domain.ValidationError{
			Field:   "num_questions",
			Message: fmt.Sprintf("must be between 1 and %d", quizgen.MaxQuestions),
		})
	}

	return errors
}

// ValidateQuizID validates a quiz identifier path parameter.
func (v *Validator) ValidateQuizID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.ValidationError{
			Field:   "id",
			Message: "is required",
		})
		return errors
	}
	if _, err := ulid.Parse(id); err != nil {
		errors = append(errors, domain.ValidationError{
			Field:   "id",
			Message: "must be a valid ULID",
		})
	}

	return errors
}
