package domain

import (
	"context"
)

// ContextRetriever returns a context block relevant to the given topic,
// assembled from an external document collection. It must support being
// queried repeatedly and independently per question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, topic string) (string, error)
}
