package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	"quizify/internal/cache"
	"quizify/internal/config"
	"quizify/internal/domain"
	"quizify/internal/dto"
	"quizify/internal/logger"
	"quizify/internal/util"

	"go.uber.org/zap"
)

const defaultQuizTTL = 1 * time.Hour

// GeneratorFactory builds a quiz generator for one (topic, count)
// configuration. Invalid parameters surface as a configuration error
// from the factory, before any generation happens.
type GeneratorFactory func(topic string, numQuestions int) (domain.QuizGenerator, error)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	newGenerator GeneratorFactory
	archive      domain.QuizArchive
	cache        domain.Cache
	cfg          *config.Config
}

// NewQuizService creates a new instance of quizService. The cache and
// archive may be nil; generation then runs uncached and unpersisted.
func NewQuizService(
	newGenerator GeneratorFactory,
	archive domain.QuizArchive,
	cache domain.Cache,
	cfg *config.Config,
) QuizService {
	return &quizService{
		newGenerator: newGenerator,
		archive:      archive,
		cache:        cache,
		cfg:          cfg,
	}
}

// GenerateQuiz implements QuizService. The cache key is built from the
// effective topic (an empty request topic resolves to the generator's
// default first), so equivalent runs share one cache entry. A cached
// quiz is returned as-is; otherwise a fresh generation run is executed,
// archived and cached.
func (s *quizService) GenerateQuiz(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	l := logger.Get()

	generator, err := s.newGenerator(req.Topic, req.NumQuestions)
	if err != nil {
		return nil, err
	}

	topic := topicOf(generator, req.Topic)
	cacheKey := s.quizCacheKey(topic, req.NumQuestions)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			var resp dto.QuizResponse
			if errUnmarshal := json.Unmarshal([]byte(cached), &resp); errUnmarshal == nil {
				l.Info("Quiz cache hit",
					zap.String("topic", topic),
					zap.Int("num_questions", req.NumQuestions))
				return &resp, nil
			}
			l.Warn("Failed to unmarshal cached quiz, regenerating", zap.String("cacheKey", cacheKey))
		} else if err != domain.ErrCacheMiss {
			l.Error("Failed to read quiz cache", zap.Error(err), zap.String("cacheKey", cacheKey))
		}
	}

	questions, err := generator.GenerateQuiz(ctx)
	if err != nil {
		return nil, err
	}

	quiz := &domain.GeneratedQuiz{
		ID:           util.NewULID(),
		Topic:        topic,
		NumRequested: req.NumQuestions,
		Questions:    questions,
		CreatedAt:    time.Now().UTC(),
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, quiz); err != nil {
			return nil, domain.NewInternalError("Failed to archive generated quiz", err)
		}
	}

	resp := dto.FromGeneratedQuiz(quiz)

	if s.cache != nil {
		if data, errMarshal := json.Marshal(resp); errMarshal == nil {
			ttl := defaultQuizTTL
			if s.cfg != nil {
				ttl = s.cfg.ParseTTLStringOrDefault(s.cfg.CacheTTLs.Quiz, defaultQuizTTL)
			}
			if errSet := s.cache.Set(ctx, cacheKey, string(data), ttl); errSet != nil {
				l.Error("Failed to cache quiz", zap.Error(errSet), zap.String("cacheKey", cacheKey))
			}
		}
	}

	return resp, nil
}

// GetQuizByID implements QuizService
func (s *quizService) GetQuizByID(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if s.archive == nil {
		return nil, domain.NewInternalError("Quiz archive is not configured", nil)
	}

	quiz, err := s.archive.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz from archive", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(id)
	}
	return dto.FromGeneratedQuiz(quiz), nil
}

func (s *quizService) quizCacheKey(topic string, numQuestions int) string {
	sum := sha256.Sum256([]byte(topic))
	return cache.GenerateCacheKey("quiz", "topic", hex.EncodeToString(sum[:]), strconv.Itoa(numQuestions))
}

// topicOf recovers the effective topic when the request left it empty
// and the generator substituted its default.
func topicOf(generator domain.QuizGenerator, requested string) string {
	type topicer interface{ Topic() string }
	if t, ok := generator.(topicer); ok {
		return t.Topic()
	}
	return requested
}
