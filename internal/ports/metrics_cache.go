package ports

import (
	"context"
	"fleet-analytics-service/internal/domain"
)

// Optional read-through cache for computed metric summaries.
// Computation is deterministic over an unchanged record store, so a
// cached summary is safe to serve until the underlying records change;
// implementations bound staleness with a TTL.
type MetricsCache interface {
	// Return the cached summary for key, or nil on a miss.
	GetSummary(ctx context.Context, key string) (*domain.Metrics, error)
	// Store a computed summary under key.
	PutSummary(ctx context.Context, key string, m domain.Metrics) error
}
