package quizgen

import (
	"context"
	"sync"

	"quizify/internal/domain"
	"quizify/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ModelFactory creates the language model client. The chain calls it on
// first use so that credentials and network setup are deferred until a
// question is actually requested.
type ModelFactory func(ctx context.Context) (llms.Model, error)

// Chain composes the context retriever, the prompt template, the
// language model and the output parser into one request/response
// pipeline producing a single Question per invocation.
type Chain struct {
	retriever   domain.ContextRetriever
	prompt      prompts.PromptTemplate
	factory     ModelFactory
	temperature float64
	maxTokens   int

	initMu sync.Mutex
	model  llms.Model
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) ChainOption {
	return func(c *Chain) { c.temperature = t }
}

// WithMaxTokens overrides the output-length cap.
func WithMaxTokens(n int) ChainOption {
	return func(c *Chain) { c.maxTokens = n }
}

// NewChain creates a retrieval-augmented question chain. The model is
// not created here; the factory runs on the first GenerateQuestion call.
// Temperature defaults to 0.8 (kept high so repeated invocations for
// one quiz diverge) and output is capped at 500 tokens.
func NewChain(retriever domain.ContextRetriever, factory ModelFactory, opts ...ChainOption) (*Chain, error) {
	if retriever == nil {
		return nil, domain.NewInvalidConfigError("context retriever cannot be nil")
	}
	if factory == nil {
		return nil, domain.NewInvalidConfigError("model factory cannot be nil")
	}

	c := &Chain{
		retriever:   retriever,
		prompt:      NewQuestionPrompt(),
		factory:     factory,
		temperature: 0.8,
		maxTokens:   500,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateQuestion runs the pipeline once: retrieve context for the
// topic and pass the topic through (the two are independent and run
// concurrently, joining before prompt rendering), render the prompt,
// call the model, parse the response.
func (c *Chain) GenerateQuestion(ctx context.Context, topic string) (*domain.Question, error) {
	var contextBlock, topicInput string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		block, err := c.retriever.Retrieve(gctx, topic)
		if err != nil {
			return domain.NewRetrievalError(err)
		}
		contextBlock = block
		return nil
	})
	g.Go(func() error {
		topicInput = topic
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rendered, err := c.prompt.Format(map[string]any{
		"topic":   topicInput,
		"context": contextBlock,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render prompt", err)
	}

	model, err := c.initModel(ctx)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, model, rendered,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	logger.Get().Debug("Raw model response received",
		zap.String("topic", topic),
		zap.Int("response_len", len(response)))

	return ParseQuestion(response)
}

// initModel lazily creates the model client on first use. One Chain is
// shared across concurrent requests, so the check-and-set is guarded;
// a failed factory call leaves the model unset and the next request
// tries again.
func (c *Chain) initModel(ctx context.Context) (llms.Model, error) {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.model != nil {
		return c.model, nil
	}
	model, err := c.factory(ctx)
	if err != nil {
		return nil, err
	}
	c.model = model
	return c.model, nil
}

var _ domain.QuestionSource = (*Chain)(nil)
