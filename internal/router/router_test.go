package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/cache"
	"planner/internal/corridor"
	"planner/internal/costsurface"
	"planner/internal/domain"
)

func TestRouteAndDiscoverPathJunctionsSplitsSharedSegment(t *testing.T) {
	// Path A: 1-2-3-4-5. Path B: 6-2-3-7. They share cells 2 and 3, so
	// routing both and discovering junctions should split BOTH A and B at
	// (2,3): every ordered pair (P, Q) is evaluated, so A's turn as Q
	// against B-as-P must split A just as B's turn as Q against A-as-P
	// splits B.
	s := costsurface.New(1000)
	biEdge := func(u, v domain.Cell) {
		s.AddEdge(u, v, 1)
		s.AddEdge(v, u, 1)
	}
	biEdge(1, 2)
	biEdge(2, 3)
	biEdge(3, 4)
	biEdge(4, 5)
	biEdge(6, 2)
	biEdge(3, 7)

	corridors := corridor.New(s)
	rt := New(s, corridors, domain.MetricWeight)

	ctx := context.Background()
	require.NoError(t, rt.RouteDelaunayEdges(ctx, []domain.EdgeKey{{From: 1, To: 5}, {From: 6, To: 7}}))
	require.NoError(t, rt.Discover(ctx))

	paths := rt.Paths()
	assert.NotContains(t, paths, domain.EdgeKey{From: 1, To: 5})
	assert.NotContains(t, paths, domain.EdgeKey{From: 6, To: 7})

	require.Contains(t, paths, domain.EdgeKey{From: 1, To: 2})
	assert.Equal(t, []domain.Cell{1, 2}, paths[domain.EdgeKey{From: 1, To: 2}].Cells)
	assert.Equal(t, 1.0, paths[domain.EdgeKey{From: 1, To: 2}].Weight)

	require.Contains(t, paths, domain.EdgeKey{From: 3, To: 5})
	assert.Equal(t, []domain.Cell{3, 4, 5}, paths[domain.EdgeKey{From: 3, To: 5}].Cells)
	assert.Equal(t, 2.0, paths[domain.EdgeKey{From: 3, To: 5}].Weight)

	require.Contains(t, paths, domain.EdgeKey{From: 6, To: 2})
	require.Contains(t, paths, domain.EdgeKey{From: 2, To: 3})
	require.Contains(t, paths, domain.EdgeKey{From: 3, To: 7})
	assert.Equal(t, 1.0, paths[domain.EdgeKey{From: 2, To: 3}].Weight)

	junctions := rt.Junctions()
	require.Len(t, junctions, 2)
	assert.Equal(t, domain.Cell(2), junctions[0].Cell)
	assert.Equal(t, domain.Cell(3), junctions[1].Cell)
	assert.Empty(t, junctions[0].JunctionOf.Carrier)
	assert.Empty(t, junctions[1].JunctionOf.Carrier)
}

func TestDiscoverPipelineJunctionsForcesZeroMiddleCost(t *testing.T) {
	// Line 1-2-3-4-5, weight 10 per hop. Importing the pipeline over
	// 2-3-4 zeroes that stretch; routing 1->5 then should split into
	// (1,2), (2,4) at zero cost, (4,5).
	s := costsurface.New(1000)
	biEdge := func(u, v domain.Cell) {
		s.AddEdge(u, v, 10)
		s.AddEdge(v, u, 10)
	}
	biEdge(1, 2)
	biEdge(2, 3)
	biEdge(3, 4)
	biEdge(4, 5)

	corridors := corridor.New(s)
	ctx := context.Background()
	require.NoError(t, corridors.Import(ctx, "Pipeline1", []domain.Cell{2, 3, 4}, domain.FlowBidirectional, 0, 100))

	rt := New(s, corridors, domain.MetricWeight)
	require.NoError(t, rt.RouteDelaunayEdges(ctx, []domain.EdgeKey{{From: 1, To: 5}}))
	require.NoError(t, rt.Discover(ctx))

	paths := rt.Paths()
	require.Contains(t, paths, domain.EdgeKey{From: 1, To: 2})
	assert.Equal(t, 10.0, paths[domain.EdgeKey{From: 1, To: 2}].Weight)

	require.Contains(t, paths, domain.EdgeKey{From: 2, To: 4})
	assert.Equal(t, 0.0, paths[domain.EdgeKey{From: 2, To: 4}].Weight)
	assert.Equal(t, []domain.Cell{2, 3, 4}, paths[domain.EdgeKey{From: 2, To: 4}].Cells)

	require.Contains(t, paths, domain.EdgeKey{From: 4, To: 5})
	assert.Equal(t, 10.0, paths[domain.EdgeKey{From: 4, To: 5}].Weight)

	junctions := rt.Junctions()
	require.Len(t, junctions, 2)
	assert.Equal(t, "Pipeline1", junctions[0].JunctionOf.Carrier)
	assert.Equal(t, 1, junctions[0].JunctionOf.Seq)
	assert.Equal(t, domain.Cell(2), junctions[0].Cell)
	assert.Equal(t, "Pipeline1", junctions[1].JunctionOf.Carrier)
	assert.Equal(t, 2, junctions[1].JunctionOf.Seq)
	assert.Equal(t, domain.Cell(4), junctions[1].Cell)
}

func TestRouteDelaunayEdgesCachedReusesStoredPath(t *testing.T) {
	s := costsurface.New(1000)
	s.AddEdge(1, 2, 3)
	s.AddEdge(2, 1, 3)

	corridors := corridor.New(s)
	ctx := context.Background()

	backing := cache.NewMemoryCache(cache.DefaultOptions())
	pc := cache.NewPathCache(backing, 0)

	rt := New(s, corridors, domain.MetricWeight)
	edges := []domain.EdgeKey{{From: 1, To: 2}}
	require.NoError(t, rt.RouteDelaunayEdgesCached(ctx, edges, pc, "v1"))
	first := rt.Paths()[domain.EdgeKey{From: 1, To: 2}]
	assert.Equal(t, 3.0, first.Weight)

	// Change the live surface weight; a second run against the same cached
	// version must still return the originally cached path rather than
	// re-routing against the now-different surface.
	s.SetWeight(1, 2, 99)
	rt2 := New(s, corridors, domain.MetricWeight)
	require.NoError(t, rt2.RouteDelaunayEdgesCached(ctx, edges, pc, "v1"))
	second := rt2.Paths()[domain.EdgeKey{From: 1, To: 2}]
	assert.Equal(t, 3.0, second.Weight)
}

func TestDedupSymmetricPairsKeepsLexicographicallyFirst(t *testing.T) {
	s := costsurface.New(1000)
	s.AddEdge(1, 2, 5)
	s.AddEdge(2, 1, 5)

	corridors := corridor.New(s)
	rt := New(s, corridors, domain.MetricWeight)
	rt.spaths[domain.EdgeKey{From: 1, To: 2}] = domain.CandidatePath{Cells: []domain.Cell{1, 2}}
	rt.spaths[domain.EdgeKey{From: 2, To: 1}] = domain.CandidatePath{Cells: []domain.Cell{2, 1}}

	rt.dedupSymmetricPairs()

	paths := rt.Paths()
	assert.Len(t, paths, 1)
	assert.Contains(t, paths, domain.EdgeKey{From: 1, To: 2})
}

func TestContiguousOverlapFindsFirstMaximalRun(t *testing.T) {
	onP := map[domain.Cell]bool{2: true, 3: true, 4: true}
	n1, n2, found := contiguousOverlap([]domain.Cell{1, 2, 3, 4, 5}, onP)
	require.True(t, found)
	assert.Equal(t, domain.Cell(2), n1)
	assert.Equal(t, domain.Cell(4), n2)

	_, _, found = contiguousOverlap([]domain.Cell{1, 5, 9}, onP)
	assert.False(t, found)
}
