package validation

import (
	"strings"
	"testing"

	"quizify/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestValidateGenerateQuizRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name         string
		topic        string
		numQuestions int
		wantFields   []string
	}{
		{"valid", "Photosynthesis", 5, nil},
		{"empty topic allowed", "", 3, nil},
		{"count lower bound", "X", 1, nil},
		{"count upper bound", "X", 10, nil},
		{"count zero", "X", 0, []string{"num_questions"}},
		{"count too high", "X", 11, []string{"num_questions"}},
		{"topic too long", strings.Repeat("a", 501), 3, []string{"topic"}},
		{"both invalid", strings.Repeat("a", 501), 0, []string{"topic", "num_questions"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateGenerateQuizRequest(tt.topic, tt.numQuestions)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				return
			}
			assert.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}

func TestValidateQuizID(t *testing.T) {
	v := NewValidator()

	t.Run("Valid", func(t *testing.T) {
		assert.Empty(t, v.ValidateQuizID(util.NewULID()))
	})

	t.Run("Empty", func(t *testing.T) {
		errs := v.ValidateQuizID("   ")
		assert.Len(t, errs, 1)
		assert.Equal(t, "id", errs[0].Field)
	})

	t.Run("NotAULID", func(t *testing.T) {
		errs := v.ValidateQuizID("not-a-ulid")
		assert.Len(t, errs, 1)
		assert.Equal(t, "id", errs[0].Field)
	})
}
