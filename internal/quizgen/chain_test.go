package quizgen

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"quizify/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model returning a canned response and recording
// the prompts it receives.
type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// fakeRetriever is a domain.ContextRetriever with a fixed payload.
type fakeRetriever struct {
	context string
	err     error
	calls   int
}

func (r *fakeRetriever) Retrieve(ctx context.Context, topic string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.context, nil
}

func countingFactory(model llms.Model, calls *int) ModelFactory {
	return func(ctx context.Context) (llms.Model, error) {
		*calls++
		return model, nil
	}
}

func TestNewChain(t *testing.T) {
	model := &fakeModel{response: validResponse}
	factoryCalls := 0

	t.Run("NilRetriever", func(t *testing.T) {
		chain, err := NewChain(nil, countingFactory(model, &factoryCalls))
		assert.Nil(t, chain)
		assert.True(t, domain.HasCode(err, domain.ErrInvalidConfig))
	})

	t.Run("NilFactory", func(t *testing.T) {
		chain, err := NewChain(&fakeRetriever{}, nil)
		assert.Nil(t, chain)
		assert.True(t, domain.HasCode(err, domain.ErrInvalidConfig))
	})

	t.Run("ModelNotCreatedAtConstruction", func(t *testing.T) {
		_, err := NewChain(&fakeRetriever{}, countingFactory(model, &factoryCalls))
		require.NoError(t, err)
		assert.Zero(t, factoryCalls)
	})
}

func TestChain_GenerateQuestion(t *testing.T) {
	model := &fakeModel{response: validResponse}
	ret := &fakeRetriever{context: "Paris has been France's capital since 987."}
	factoryCalls := 0

	chain, err := NewChain(ret, countingFactory(model, &factoryCalls))
	require.NoError(t, err)

	q, err := chain.GenerateQuestion(context.Background(), "France")
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", q.Question)
	assert.Equal(t, 1, ret.calls)

	// The rendered prompt carries the topic, the retrieved context and
	// the format instructions.
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "subject matter expert on the topic: France")
	assert.Contains(t, model.prompts[0], ret.context)
	assert.Contains(t, model.prompts[0], FormatInstructions())
}

func TestChain_LazyModelInitOnce(t *testing.T) {
	model := &fakeModel{response: validResponse}
	factoryCalls := 0

	chain, err := NewChain(&fakeRetriever{context: "ctx"}, countingFactory(model, &factoryCalls))
	require.NoError(t, err)

	_, err = chain.GenerateQuestion(context.Background(), "X")
	require.NoError(t, err)
	_, err = chain.GenerateQuestion(context.Background(), "X")
	require.NoError(t, err)

	assert.Equal(t, 1, factoryCalls)
}

// quietModel answers every call with the same response and records
// nothing, so it is safe under concurrent use.
type quietModel struct{}

func (quietModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: validResponse}},
	}, nil
}

func (quietModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return validResponse, nil
}

// quietRetriever returns a fixed context block and keeps no state.
type quietRetriever struct{}

func (quietRetriever) Retrieve(ctx context.Context, topic string) (string, error) {
	return "ctx", nil
}

func TestChain_ConcurrentRequestsInitModelOnce(t *testing.T) {
	var factoryCalls int32
	chain, err := NewChain(quietRetriever{}, func(ctx context.Context) (llms.Model, error) {
		atomic.AddInt32(&factoryCalls, 1)
		return quietModel{}, nil
	})
	require.NoError(t, err)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = chain.GenerateQuestion(context.Background(), "X")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&factoryCalls))
}

func TestChain_RetrieverErrorPropagates(t *testing.T) {
	model := &fakeModel{response: validResponse}
	ret := &fakeRetriever{err: errors.New("vector store unavailable")}
	factoryCalls := 0

	chain, err := NewChain(ret, countingFactory(model, &factoryCalls))
	require.NoError(t, err)

	q, err := chain.GenerateQuestion(context.Background(), "X")
	assert.Nil(t, q)
	assert.True(t, domain.HasCode(err, domain.ErrRetrieval))
	// The model must not be touched when retrieval fails.
	assert.Empty(t, model.prompts)
}

func TestChain_ModelErrorPropagates(t *testing.T) {
	model := &fakeModel{err: errors.New("401 unauthorized")}
	factoryCalls := 0

	chain, err := NewChain(&fakeRetriever{context: "ctx"}, countingFactory(model, &factoryCalls))
	require.NoError(t, err)

	q, err := chain.GenerateQuestion(context.Background(), "X")
	assert.Nil(t, q)
	assert.True(t, domain.HasCode(err, domain.ErrLLMServiceError))
}

func TestChain_FactoryErrorIsModelError(t *testing.T) {
	chain, err := NewChain(&fakeRetriever{context: "ctx"}, func(ctx context.Context) (llms.Model, error) {
		return nil, errors.New("missing api key")
	})
	require.NoError(t, err)

	q, err := chain.GenerateQuestion(context.Background(), "X")
	assert.Nil(t, q)
	assert.True(t, domain.HasCode(err, domain.ErrLLMServiceError))
}

func TestChain_UnparseableOutputIsSchemaError(t *testing.T) {
	model := &fakeModel{response: "I am not JSON"}
	factoryCalls := 0

	chain, err := NewChain(&fakeRetriever{context: "ctx"}, countingFactory(model, &factoryCalls))
	require.NoError(t, err)

	q, err := chain.GenerateQuestion(context.Background(), "X")
	assert.Nil(t, q)
	assert.True(t, domain.IsSchemaError(err))
}
