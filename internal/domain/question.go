package domain

import (
	"fmt"
	"time"
)

// ChoiceKeys are the only valid answer-option labels, in display order.
var ChoiceKeys = []string{"A", "B", "C", "D"}

// Choice is a single answer option. It has no lifecycle of its own and
// is always embedded in a Question.
type Choice struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Question is one validated multiple-choice quiz question. Instances
// are created through NewQuestion and never mutated afterwards, so a
// Question in circulation always satisfies its invariants: non-empty
// text, exactly four choices keyed A-D, and an answer that references
// one of them.
type Question struct {
	Question    string   `json:"question"`
	Choices     []Choice `json:"choices"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// NewQuestion validates and builds a Question.
func NewQuestion(text string, choices []Choice, answer, explanation string) (*Question, error) {
	if text == "" {
		return nil, NewMissingFieldError("question")
	}
	if len(choices) != len(ChoiceKeys) {
		return nil, NewInvalidInputError(fmt.Sprintf("expected %d choices, got %d", len(ChoiceKeys), len(choices)))
	}

	seen := make(map[string]bool, len(ChoiceKeys))
	valid := make(map[string]bool, len(ChoiceKeys))
	for _, k := range ChoiceKeys {
		valid[k] = true
	}
	for _, c := range choices {
		if !valid[c.Key] {
			return nil, NewInvalidInputError(fmt.Sprintf("invalid choice key: %q", c.Key))
		}
		if seen[c.Key] {
			return nil, NewInvalidInputError(fmt.Sprintf("duplicate choice key: %q", c.Key))
		}
		seen[c.Key] = true
	}

	if !seen[answer] {
		return nil, NewInvalidInputError(fmt.Sprintf("answer %q does not match any choice key", answer))
	}

	q := &Question{
		Question:    text,
		Choices:     make([]Choice, len(choices)),
		Answer:      answer,
		Explanation: explanation,
	}
	copy(q.Choices, choices)
	return q, nil
}

// ChoiceValue returns the display text of the choice with the given
// key, or "" when no such choice exists.
func (q *Question) ChoiceValue(key string) string {
	for _, c := range q.Choices {
		if c.Key == key {
			return c.Value
		}
	}
	return ""
}

// GeneratedQuiz is one finished quiz-generation run: the topic it was
// generated for, how many questions were requested, and the questions
// that survived uniqueness validation (possibly fewer than requested).
type GeneratedQuiz struct {
	ID           string
	Topic        string
	NumRequested int
	Questions    []*Question
	CreatedAt    time.Time
}
