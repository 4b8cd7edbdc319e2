// Package corridor implements PipelineCorridors: importing an existing
// pipeline polyline as a free (zero-cost) path on the cost surface, tie-point
// enforcement, and diagonal-crossover prevention (spec.md §4.4).
package corridor

import (
	"context"

	"planner/internal/costsurface"
	"planner/internal/domain"
)

// Store tracks every imported pipeline corridor by name, mirroring the
// original's existingPath/existingPathVertices/existingPathBounds maps.
type Store struct {
	surface   *costsurface.Surface
	corridors map[string]domain.Corridor
	order     []string // insertion order, for deterministic iteration
}

// New constructs a Store bound to the given cost surface; Import mutates
// surface edge weights in place as corridors are admitted.
func New(surface *costsurface.Surface) *Store {
	return &Store{
		surface:   surface,
		corridors: make(map[string]domain.Corridor),
	}
}

// Get returns a previously imported corridor by name.
func (s *Store) Get(name string) (domain.Corridor, bool) {
	c, ok := s.corridors[name]
	return c, ok
}

// Names returns corridor names in import order.
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Import converts a polyline's vertices into adjacent cell pairs, expanding
// any non-8-adjacent consecutive vertices via shortest path on the current
// surface, then zeros the forward direction (and, for bidirectional
// corridors, the reverse) or blocks the reverse (for unidirectional
// corridors) (spec.md §4.4 step 1-2).
func (s *Store) Import(ctx context.Context, name string, vertices []domain.Cell, flowType domain.FlowType, lowerBound, upperBound float64) error {
	cells, err := expandToAdjacent(ctx, s.surface, vertices)
	if err != nil {
		return err
	}

	c := domain.Corridor{
		Name:       name,
		Cells:      cells,
		FlowType:   flowType,
		LowerBound: lowerBound,
		UpperBound: upperBound,
	}

	for _, pair := range c.AdjacentPairs() {
		s.surface.SetWeight(pair.From, pair.To, 0)
		if !edgeExists(s.surface, pair.From, pair.To) {
			s.surface.AddEdge(pair.From, pair.To, 0)
		}

		switch flowType {
		case domain.FlowBidirectional:
			setOrAddWeight(s.surface, pair.To, pair.From, 0)
		case domain.FlowUnidirectional:
			setOrAddWeight(s.surface, pair.To, pair.From, domain.Blocked)
		}
	}

	if _, exists := s.corridors[name]; !exists {
		s.order = append(s.order, name)
	}
	s.corridors[name] = c

	return nil
}

func edgeExists(s *costsurface.Surface, u, v domain.Cell) bool {
	_, ok := s.EdgeWeight(u, v)
	return ok
}

func setOrAddWeight(s *costsurface.Surface, u, v domain.Cell, weight float64) {
	if edgeExists(s, u, v) {
		s.SetWeight(u, v, weight)
		return
	}
	s.AddEdge(u, v, weight)
}

// expandToAdjacent walks consecutive vertex pairs, splicing in a shortest
// path whenever a pair is not 8-adjacent on the raster (|diff| not in
// {1, W-1, W, W+1}).
func expandToAdjacent(ctx context.Context, s *costsurface.Surface, vertices []domain.Cell) ([]domain.Cell, error) {
	if len(vertices) == 0 {
		return nil, nil
	}

	cells := []domain.Cell{vertices[0]}
	for i := 0; i+1 < len(vertices); i++ {
		u, v := vertices[i], vertices[i+1]
		if isAdjacent(s, u, v) {
			cells = append(cells, v)
			continue
		}

		path, err := s.ShortestPath(ctx, u, v, domain.MetricWeight)
		if err != nil {
			return nil, err
		}
		cells = append(cells, path.Cells[1:]...)
	}

	return cells, nil
}

// isAdjacent reports whether u and v are 8-adjacent cells on the raster,
// independent of whether an edge is actually present between them.
func isAdjacent(s *costsurface.Surface, u, v domain.Cell) bool {
	diff := int64(u) - int64(v)
	if diff < 0 {
		diff = -diff
	}
	w := int64(s.Width())
	return diff == 1 || diff == w-1 || diff == w || diff == w+1
}
