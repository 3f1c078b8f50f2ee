package tools

import (
	"context"
	"fmt"

	"github.com/halentin/FMI-Viewer/internal/cache"
)

// StatsSource reports result cache statistics
type StatsSource interface {
	Stats() (cache.Stats, error)
}

// CacheStatsResource exposes the result cache statistics as a readable resource
type CacheStatsResource struct {
	source StatsSource
}

// NewCacheStatsResource creates a new CacheStatsResource
func NewCacheStatsResource(source StatsSource) *CacheStatsResource {
	return &CacheStatsResource{source: source}
}

// Read returns the current cache statistics
func (r *CacheStatsResource) Read(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats, err := r.source.Stats()
	if err != nil {
		return nil, fmt.Errorf("read cache stats: %w", err)
	}
	return stats, nil
}
