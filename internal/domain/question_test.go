package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourChoices() []Choice {
	return []Choice{
		{Key: "A", Value: "Mercury"},
		{Key: "B", Value: "Venus"},
		{Key: "C", Value: "Earth"},
		{Key: "D", Value: "Mars"},
	}
}

func TestNewQuestion(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		q, err := NewQuestion("Which planet is third from the Sun?", fourChoices(), "C", "Earth is the third planet.")
		require.NoError(t, err)
		assert.Equal(t, "Which planet is third from the Sun?", q.Question)
		assert.Len(t, q.Choices, 4)
		assert.Equal(t, "C", q.Answer)
	})

	t.Run("EmptyText", func(t *testing.T) {
		q, err := NewQuestion("", fourChoices(), "A", "")
		assert.Nil(t, q)
		assert.True(t, HasCode(err, ErrMissingField))
	})

	t.Run("ThreeChoices", func(t *testing.T) {
		q, err := NewQuestion("Q?", fourChoices()[:3], "A", "")
		assert.Nil(t, q)
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("InvalidKey", func(t *testing.T) {
		choices := fourChoices()
		choices[3].Key = "E"
		q, err := NewQuestion("Q?", choices, "A", "")
		assert.Nil(t, q)
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("DuplicateKey", func(t *testing.T) {
		choices := fourChoices()
		choices[1].Key = "A"
		q, err := NewQuestion("Q?", choices, "A", "")
		assert.Nil(t, q)
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("AnswerNotAChoice", func(t *testing.T) {
		q, err := NewQuestion("Q?", fourChoices(), "E", "")
		assert.Nil(t, q)
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("ChoicesAreCopied", func(t *testing.T) {
		choices := fourChoices()
		q, err := NewQuestion("Q?", choices, "A", "")
		require.NoError(t, err)
		choices[0].Value = "mutated"
		assert.Equal(t, "Mercury", q.Choices[0].Value)
	})
}

func TestQuestion_ChoiceValue(t *testing.T) {
	q, err := NewQuestion("Q?", fourChoices(), "B", "")
	require.NoError(t, err)

	assert.Equal(t, "Venus", q.ChoiceValue("B"))
	assert.Equal(t, "", q.ChoiceValue("Z"))
}
