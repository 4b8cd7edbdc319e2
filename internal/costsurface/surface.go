// Package costsurface implements the sparse 8-neighbor weighted edge store
// over a subsetted geo-raster grid, plus the Dijkstra shortest-path queries
// run against it (spec.md §4.2).
package costsurface

import (
	"planner/internal/domain"
)

// Surface is a sparse directed weighted graph over raster cells. Edges are
// asymmetric: (u, v) and (v, u) are stored independently so PipelineCorridors
// can override one direction without touching the other.
type Surface struct {
	width int

	edges     map[domain.Cell]map[domain.Cell]*domain.Edge
	edgeLists map[domain.Cell][]*domain.Edge // deterministic iteration order
}

// New constructs an empty Surface over a grid of the given column width (used
// to derive edge length from |u-v|).
func New(width int) *Surface {
	return &Surface{
		width:     width,
		edges:     make(map[domain.Cell]map[domain.Cell]*domain.Edge),
		edgeLists: make(map[domain.Cell][]*domain.Edge),
	}
}

// Width returns the grid's column width, used to classify cell adjacency.
func (s *Surface) Width() int {
	return s.width
}

// AddEdge inserts a new (u, v) edge with the given weight, deriving its
// length from the column distance between u and v. If the edge already
// exists its weight is overwritten in place.
func (s *Surface) AddEdge(u, v domain.Cell, weight float64) {
	if existing := s.edge(u, v); existing != nil {
		existing.Weight = weight
		return
	}

	e := &domain.Edge{From: u, To: v, Weight: weight, Length: s.deriveLength(u, v)}
	if s.edges[u] == nil {
		s.edges[u] = make(map[domain.Cell]*domain.Edge)
	}
	s.edges[u][v] = e
	s.edgeLists[u] = append(s.edgeLists[u], e)
}

// SetWeight updates the weight of an existing edge in place, leaving its
// length untouched. It is a no-op if the edge is absent.
func (s *Surface) SetWeight(u, v domain.Cell, weight float64) {
	if e := s.edge(u, v); e != nil {
		e.Weight = weight
	}
}

// EdgeWeight returns the weight of (u, v) and whether the edge exists.
func (s *Surface) EdgeWeight(u, v domain.Cell) (float64, bool) {
	e := s.edge(u, v)
	if e == nil {
		return 0, false
	}
	return e.Weight, true
}

// EdgeLength returns the geometric length of (u, v): 1 for an orthogonal
// move, √2 for a diagonal one.
func (s *Surface) EdgeLength(u, v domain.Cell) (float64, bool) {
	e := s.edge(u, v)
	if e == nil {
		return 0, false
	}
	return e.Length, true
}

// deriveLength classifies |u-v| against the grid width: a difference of
// exactly 1 or width is an orthogonal step (length 1); a difference of
// width-1 or width+1 is a diagonal step (length √2).
func (s *Surface) deriveLength(u, v domain.Cell) float64 {
	diff := int64(u) - int64(v)
	if diff < 0 {
		diff = -diff
	}
	w := int64(s.width)
	if diff == w-1 || diff == w+1 {
		return domain.Sqrt2
	}
	return 1
}

func (s *Surface) edge(u, v domain.Cell) *domain.Edge {
	row := s.edges[u]
	if row == nil {
		return nil
	}
	return row[v]
}

// Neighbors returns the outgoing edges from u in deterministic (insertion)
// order.
func (s *Surface) Neighbors(u domain.Cell) []*domain.Edge {
	return s.edgeLists[u]
}

// Cells returns every cell that has at least one outgoing edge, in
// ascending order.
func (s *Surface) Cells() []domain.Cell {
	cells := make([]domain.Cell, 0, len(s.edgeLists))
	for c := range s.edgeLists {
		cells = append(cells, c)
	}
	sortCells(cells)
	return cells
}

// ErrUnreachable reports that no finite-cost path connects two cells.
type ErrUnreachable struct {
	From, To domain.Cell
}

func (e *ErrUnreachable) Error() string {
	return "costsurface: no finite-cost path from " + e.From.String() + " to " + e.To.String()
}
