package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"planner/internal/domain"
)

// PathCache is a CandidateRouter-facing cache of per-edge shortest-path
// results, keyed by the cost surface version they were computed against so
// that loading a new raster invalidates every previously routed edge
// without an explicit Clear (spec.md §4.9).
type PathCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// cachedPath is the JSON wire shape for a cached domain.CandidatePath.
type cachedPath struct {
	Cells        []domain.Cell `json:"cells"`
	Length       float64       `json:"length"`
	Weight       float64       `json:"weight"`
	WeightedCost float64       `json:"weighted_cost"`
	Metric       domain.Metric `json:"metric"`
}

// NewPathCache wraps cache for shortest-path result lookups.
func NewPathCache(cache Cache, defaultTTL time.Duration) *PathCache {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &PathCache{cache: cache, defaultTTL: defaultTTL}
}

// BuildPathKey builds the cache key for a routed edge. costSurfaceVersion
// distinguishes results computed against different loaded rasters.
func BuildPathKey(costSurfaceVersion string, from, to domain.Cell, metric domain.Metric) string {
	return fmt.Sprintf("path:%s:%d:%d:%d", costSurfaceVersion, from, to, metric)
}

// Get returns the cached path for the given edge, if present.
func (pc *PathCache) Get(ctx context.Context, costSurfaceVersion string, from, to domain.Cell, metric domain.Metric) (domain.CandidatePath, bool, error) {
	key := BuildPathKey(costSurfaceVersion, from, to, metric)

	data, err := pc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return domain.CandidatePath{}, false, nil
		}
		return domain.CandidatePath{}, false, err
	}

	var cp cachedPath
	if err := json.Unmarshal(data, &cp); err != nil {
		// Corrupt entry; evict it and report a miss rather than fail the route.
		_ = pc.cache.Delete(ctx, key)
		return domain.CandidatePath{}, false, nil
	}

	return domain.CandidatePath{
		Cells: cp.Cells, Length: cp.Length, Weight: cp.Weight,
		WeightedCost: cp.WeightedCost, Metric: cp.Metric,
	}, true, nil
}

// Set stores a routed path for the given edge.
func (pc *PathCache) Set(ctx context.Context, costSurfaceVersion string, from, to domain.Cell, metric domain.Metric, path domain.CandidatePath, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = pc.defaultTTL
	}

	key := BuildPathKey(costSurfaceVersion, from, to, metric)
	data, err := json.Marshal(cachedPath{
		Cells: path.Cells, Length: path.Length, Weight: path.Weight,
		WeightedCost: path.WeightedCost, Metric: path.Metric,
	})
	if err != nil {
		return err
	}

	return pc.cache.Set(ctx, key, data, ttl)
}

// InvalidateSurface drops every cached path computed against a given cost
// surface version, used when a raster reload changes routing costs.
func (pc *PathCache) InvalidateSurface(ctx context.Context, costSurfaceVersion string) (int64, error) {
	pattern := fmt.Sprintf("path:%s:*", costSurfaceVersion)
	return pc.cache.DeleteByPattern(ctx, pattern)
}
