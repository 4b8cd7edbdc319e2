package corridor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/costsurface"
	"planner/internal/domain"
)

// buildLineSurface builds a 5x1 row of cells (width=5) fully connected
// orthogonally, with weight 10 everywhere, for corridor-import tests.
func buildLineSurface() *costsurface.Surface {
	s := costsurface.New(5)
	for i := domain.Cell(1); i < 5; i++ {
		s.AddEdge(i, i+1, 10)
		s.AddEdge(i+1, i, 10)
	}
	return s
}

func TestImportBidirectionalZeroesBothDirections(t *testing.T) {
	s := buildLineSurface()
	store := New(s)

	err := store.Import(context.Background(), "P1", []domain.Cell{1, 2, 3}, domain.FlowBidirectional, 0, 100)
	require.NoError(t, err)

	w, ok := s.EdgeWeight(1, 2)
	require.True(t, ok)
	assert.Equal(t, 0.0, w)

	w, ok = s.EdgeWeight(2, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, w)
}

func TestImportUnidirectionalBlocksReverse(t *testing.T) {
	s := buildLineSurface()
	store := New(s)

	err := store.Import(context.Background(), "P1", []domain.Cell{1, 2, 3}, domain.FlowUnidirectional, 0, 100)
	require.NoError(t, err)

	w, ok := s.EdgeWeight(1, 2)
	require.True(t, ok)
	assert.Equal(t, 0.0, w)

	w, ok = s.EdgeWeight(2, 1)
	require.True(t, ok)
	assert.True(t, domain.IsBlocked(w))
}

func TestImportExpandsNonAdjacentVertices(t *testing.T) {
	s := buildLineSurface()
	store := New(s)

	err := store.Import(context.Background(), "P1", []domain.Cell{1, 3}, domain.FlowBidirectional, 0, 100)
	require.NoError(t, err)

	c, ok := store.Get("P1")
	require.True(t, ok)
	assert.Equal(t, []domain.Cell{1, 2, 3}, c.Cells)
}

func TestEnforceNoDiagonalCrossoverBlocksOpposingDiagonal(t *testing.T) {
	// 3x3 grid:
	//   1 2 3
	//   4 5 6
	//   7 8 9
	// Diagonal 1->5 (diff=width+1=4) crosses the opposing diagonal 2<->4 of
	// the same 2x2 sub-square.
	s := costsurface.New(3)
	s.AddEdge(1, 5, 2)
	s.AddEdge(2, 4, 2)
	s.AddEdge(4, 2, 2)
	store := New(s)

	path := domain.CandidatePath{Cells: []domain.Cell{1, 5}}
	store.EnforceNoDiagonalCrossover(path, 3)

	w, ok := s.EdgeWeight(2, 4)
	require.True(t, ok)
	assert.True(t, domain.IsBlocked(w))

	w, ok = s.EdgeWeight(4, 2)
	require.True(t, ok)
	assert.True(t, domain.IsBlocked(w))
}
