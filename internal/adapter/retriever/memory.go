package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"quizify/internal/domain"
	"quizify/internal/logger"
	"quizify/internal/util"

	"go.uber.org/zap"
)

const defaultTopK = 4

// entry is one embedded document chunk in the collection.
type entry struct {
	text   string
	vector []float32
}

// MemoryCollection is an in-process vector collection over document
// chunks. AddDocuments embeds and stores chunks; Retrieve embeds the
// topic and returns the most similar chunks joined into one context
// block. It satisfies domain.ContextRetriever.
type MemoryCollection struct {
	embedder domain.EmbeddingService
	topK     int

	mu      sync.RWMutex
	entries []entry
}

// NewMemoryCollection creates an empty collection. topK values below 1
// fall back to the default.
func NewMemoryCollection(embedder domain.EmbeddingService, topK int) (*MemoryCollection, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding service cannot be nil")
	}
	if topK < 1 {
		topK = defaultTopK
	}
	return &MemoryCollection{
		embedder: embedder,
		topK:     topK,
	}, nil
}

// AddDocuments embeds the given chunks and adds them to the collection.
func (c *MemoryCollection) AddDocuments(ctx context.Context, texts []string) error {
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		vector, err := c.embedder.Generate(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed document chunk: %w", err)
		}
		c.mu.Lock()
		c.entries = append(c.entries, entry{text: text, vector: vector})
		c.mu.Unlock()
	}

	logger.Get().Info("Documents added to collection",
		zap.Int("added", len(texts)),
		zap.Int("total", c.Size()))
	return nil
}

// Size returns the number of chunks in the collection.
func (c *MemoryCollection) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Retrieve embeds the topic, ranks all chunks by cosine similarity and
// returns the top-k chunks joined by blank lines.
func (c *MemoryCollection) Retrieve(ctx context.Context, topic string) (string, error) {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	if len(entries) == 0 {
		return "", fmt.Errorf("document collection is empty")
	}

	topicVector, err := c.embedder.Generate(ctx, topic)
	if err != nil {
		return "", fmt.Errorf("failed to embed topic: %w", err)
	}

	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(entries))
	for _, e := range entries {
		score, err := util.CosineSimilarity(topicVector, e.vector)
		if err != nil {
			return "", fmt.Errorf("failed to score document chunk: %w", err)
		}
		ranked = append(ranked, scored{text: e.text, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	k := c.topK
	if k > len(ranked) {
		k = len(ranked)
	}

	fragments := make([]string, 0, k)
	for _, s := range ranked[:k] {
		fragments = append(fragments, s.text)
	}

	logger.Get().Debug("Context retrieved",
		zap.String("topic", topic),
		zap.Int("fragments", len(fragments)),
		zap.Float64("best_score", ranked[0].score))

	return strings.Join(fragments, "\n\n"), nil
}

var _ domain.ContextRetriever = (*MemoryCollection)(nil)
