package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"}); err != nil {
		panic(err)
	}
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

type MockQuizGenerator struct {
	mock.Mock
	topic string
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuizGenerator) Topic() string { return m.topic }

type MockQuizArchive struct {
	mock.Mock
}

func (m *MockQuizArchive) Save(ctx context.Context, quiz *domain.GeneratedQuiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizArchive) GetByID(ctx context.Context, id string) (*domain.GeneratedQuiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedQuiz), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mapCache is a map-backed domain.Cache for tests that care about key
// identity rather than call counts.
type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]string{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := c.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return value, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Ping(ctx context.Context) error { return nil }

func fixedFactory(gen domain.QuizGenerator, err error) GeneratorFactory {
	return func(topic string, numQuestions int) (domain.QuizGenerator, error) {
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}

func sampleQuestions(t *testing.T, texts ...string) []*domain.Question {
	t.Helper()
	questions := make([]*domain.Question, 0, len(texts))
	for _, text := range texts {
		q, err := domain.NewQuestion(text, []domain.Choice{
			{Key: "A", Value: "a"},
			{Key: "B", Value: "b"},
			{Key: "C", Value: "c"},
			{Key: "D", Value: "d"},
		}, "A", "because")
		require.NoError(t, err)
		questions = append(questions, q)
	}
	return questions
}

func TestQuizService_GenerateQuiz(t *testing.T) {
	ctx := context.Background()
	req := &dto.GenerateQuizRequest{Topic: "Photosynthesis", NumQuestions: 2}

	t.Run("GeneratesArchivesAndCaches", func(t *testing.T) {
		gen := &MockQuizGenerator{topic: "Photosynthesis"}
		gen.On("GenerateQuiz", ctx).Return(sampleQuestions(t, "Q1?", "Q2?"), nil).Once()

		archive := new(MockQuizArchive)
		archive.On("Save", ctx, mock.AnythingOfType("*domain.GeneratedQuiz")).Return(nil).Once()

		cacheMock := new(MockCache)
		cacheMock.On("Get", ctx, mock.AnythingOfType("string")).Return("", domain.ErrCacheMiss).Once()
		cacheMock.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), 1*time.Hour).Return(nil).Once()

		svc := NewQuizService(fixedFactory(gen, nil), archive, cacheMock, nil)

		resp, err := svc.GenerateQuiz(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Photosynthesis", resp.Topic)
		assert.Equal(t, 2, resp.NumRequested)
		assert.Equal(t, 2, resp.NumGenerated)
		assert.NotEmpty(t, resp.ID)
		assert.False(t, resp.CreatedAt.IsZero())

		gen.AssertExpectations(t)
		archive.AssertExpectations(t)
		cacheMock.AssertExpectations(t)
	})

	t.Run("CacheHitSkipsGeneration", func(t *testing.T) {
		cached := &dto.QuizResponse{
			ID:           "01HV3",
			Topic:        "Photosynthesis",
			NumRequested: 2,
			NumGenerated: 2,
		}
		data, err := json.Marshal(cached)
		require.NoError(t, err)

		cacheMock := new(MockCache)
		cacheMock.On("Get", ctx, mock.AnythingOfType("string")).Return(string(data), nil).Once()

		gen := &MockQuizGenerator{topic: "Photosynthesis"}
		svc := NewQuizService(fixedFactory(gen, nil), nil, cacheMock, nil)

		resp, err := svc.GenerateQuiz(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "01HV3", resp.ID)
		gen.AssertNotCalled(t, "GenerateQuiz", mock.Anything)
		cacheMock.AssertExpectations(t)
	})

	t.Run("EmptyTopicSharesCacheEntryWithDefault", func(t *testing.T) {
		gen := &MockQuizGenerator{topic: "General Knowledge"}
		gen.On("GenerateQuiz", ctx).Return(sampleQuestions(t, "Q1?"), nil).Once()

		store := newMapCache()
		svc := NewQuizService(fixedFactory(gen, nil), nil, store, nil)

		first, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{Topic: "", NumQuestions: 1})
		require.NoError(t, err)

		// The explicit default topic must hit the entry the empty
		// topic just stored; no second generation run happens.
		second, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{Topic: "General Knowledge", NumQuestions: 1})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		gen.AssertNumberOfCalls(t, "GenerateQuiz", 1)
	})

	t.Run("CorruptCacheEntryRegenerates", func(t *testing.T) {
		gen := &MockQuizGenerator{topic: "Photosynthesis"}
		gen.On("GenerateQuiz", ctx).Return(sampleQuestions(t, "Q1?", "Q2?"), nil).Once()

		cacheMock := new(MockCache)
		cacheMock.On("Get", ctx, mock.AnythingOfType("string")).Return("{not json", nil).Once()
		cacheMock.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), 1*time.Hour).Return(nil).Once()

		svc := NewQuizService(fixedFactory(gen, nil), nil, cacheMock, nil)

		resp, err := svc.GenerateQuiz(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.NumGenerated)
		gen.AssertExpectations(t)
	})

	t.Run("FactoryConfigErrorPropagates", func(t *testing.T) {
		cfgErr := domain.NewInvalidConfigError("number of questions must be between 1 and 10")
		svc := NewQuizService(fixedFactory(nil, cfgErr), nil, nil, nil)

		resp, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{Topic: "X", NumQuestions: 99})
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrInvalidConfig))
	})

	t.Run("GenerationErrorPropagates", func(t *testing.T) {
		gen := &MockQuizGenerator{}
		gen.On("GenerateQuiz", ctx).Return(nil, domain.NewLLMServiceError(errors.New("model unreachable"))).Once()

		svc := NewQuizService(fixedFactory(gen, nil), nil, nil, nil)

		resp, err := svc.GenerateQuiz(ctx, req)
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrLLMServiceError))
	})

	t.Run("ArchiveFailureIsInternal", func(t *testing.T) {
		gen := &MockQuizGenerator{}
		gen.On("GenerateQuiz", ctx).Return(sampleQuestions(t, "Q1?"), nil).Once()

		archive := new(MockQuizArchive)
		archive.On("Save", ctx, mock.AnythingOfType("*domain.GeneratedQuiz")).
			Return(errors.New("disk full")).Once()

		svc := NewQuizService(fixedFactory(gen, nil), archive, nil, nil)

		resp, err := svc.GenerateQuiz(ctx, req)
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrInternal))
	})

	t.Run("EmptyTopicUsesGeneratorDefault", func(t *testing.T) {
		gen := &MockQuizGenerator{topic: "General Knowledge"}
		gen.On("GenerateQuiz", ctx).Return(sampleQuestions(t, "Q1?"), nil).Once()

		svc := NewQuizService(fixedFactory(gen, nil), nil, nil, nil)

		resp, err := svc.GenerateQuiz(ctx, &dto.GenerateQuizRequest{Topic: "", NumQuestions: 1})
		require.NoError(t, err)
		assert.Equal(t, "General Knowledge", resp.Topic)
	})
}

func TestQuizService_GetQuizByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		quiz := &domain.GeneratedQuiz{
			ID:           "01HV3",
			Topic:        "Photosynthesis",
			NumRequested: 1,
			Questions:    sampleQuestions(t, "Q1?"),
			CreatedAt:    time.Now().UTC(),
		}

		archive := new(MockQuizArchive)
		archive.On("GetByID", ctx, "01HV3").Return(quiz, nil).Once()

		svc := NewQuizService(nil, archive, nil, nil)

		resp, err := svc.GetQuizByID(ctx, "01HV3")
		require.NoError(t, err)
		assert.Equal(t, "01HV3", resp.ID)
		assert.Equal(t, 1, resp.NumGenerated)
		archive.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		archive := new(MockQuizArchive)
		archive.On("GetByID", ctx, "missing").Return(nil, nil).Once()

		svc := NewQuizService(nil, archive, nil, nil)

		resp, err := svc.GetQuizByID(ctx, "missing")
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrQuizNotFound))
	})

	t.Run("ArchiveError", func(t *testing.T) {
		archive := new(MockQuizArchive)
		archive.On("GetByID", ctx, "boom").Return(nil, errors.New("database locked")).Once()

		svc := NewQuizService(nil, archive, nil, nil)

		resp, err := svc.GetQuizByID(ctx, "boom")
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrInternal))
	})

	t.Run("NoArchiveConfigured", func(t *testing.T) {
		svc := NewQuizService(nil, nil, nil, nil)

		resp, err := svc.GetQuizByID(ctx, "01HV3")
		assert.Nil(t, resp)
		assert.True(t, domain.HasCode(err, domain.ErrInternal))
	})
}
