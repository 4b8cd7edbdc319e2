package netexport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/corridor"
	"planner/internal/costsurface"
	"planner/internal/domain"
	"planner/internal/geogrid"
)

func testGrid() *geogrid.Grid {
	return geogrid.NewGrid(geogrid.Header{
		NCols: 10, NRows: 10, XLLCorner: -100, YLLCorner: 30, CellSize: 0.1,
	})
}

func TestExportEmitsBothDirectionsWithDefaultBounds(t *testing.T) {
	grid := testGrid()
	surface := costsurface.New(10)
	corridors := corridor.New(surface)

	source := domain.Asset{ID: "source_1", Kind: domain.AssetKindSource, Cell: 1, Capacity: 5}
	sink := domain.Asset{ID: "sink_1", Kind: domain.AssetKindSink, Cell: 2, Capacity: 20}

	paths := map[domain.EdgeKey]domain.CandidatePath{
		{From: 1, To: 2}: {Cells: []domain.Cell{1, 2}, Weight: 7, Length: 1, WeightedCost: 7},
	}

	net, err := Export(grid, []domain.Asset{source, sink}, nil, paths, corridors)
	require.NoError(t, err)

	require.Len(t, net.Arcs, 2)
	forward, reverse := net.Arcs[0], net.Arcs[1]
	if forward.From != "source_1" {
		forward, reverse = reverse, forward
	}
	assert.Equal(t, "source_1", forward.From)
	assert.Equal(t, "sink_1", forward.To)
	assert.Equal(t, []domain.Cell{1, 2}, forward.PathCells)
	assert.Equal(t, domain.DefaultArcLowerBound, forward.LowerBound)
	assert.Equal(t, domain.DefaultArcUpperBound, forward.UpperBound)

	assert.Equal(t, "sink_1", reverse.From)
	assert.Equal(t, "source_1", reverse.To)
	assert.Equal(t, []domain.Cell{2, 1}, reverse.PathCells)

	assert.Equal(t, 5.0, net.Balance["source_1"])
	assert.Equal(t, -20.0, net.Balance["sink_1"])
}

func TestExportUsesCorridorBoundsBetweenSameCarrierJunctions(t *testing.T) {
	grid := testGrid()
	surface := costsurface.New(10)
	corridors := corridor.New(surface)
	surface.AddEdge(2, 3, 0)
	surface.AddEdge(3, 2, 0)
	require.NoError(t, corridors.Import(context.Background(), "Pipeline1", []domain.Cell{2, 3}, domain.FlowBidirectional, 1, 50))

	j1 := domain.Asset{ID: "Pipeline1_TS1", Kind: domain.AssetKindJunction, Cell: 2, JunctionOf: domain.JunctionID{Carrier: "Pipeline1", Seq: 1}}
	j2 := domain.Asset{ID: "Pipeline1_TS2", Kind: domain.AssetKindJunction, Cell: 3, JunctionOf: domain.JunctionID{Carrier: "Pipeline1", Seq: 2}}

	paths := map[domain.EdgeKey]domain.CandidatePath{
		{From: 2, To: 3}: {Cells: []domain.Cell{2, 3}, Weight: 0, Length: 1},
	}

	net, err := Export(grid, nil, []domain.Asset{j1, j2}, paths, corridors)
	require.NoError(t, err)

	require.Len(t, net.Arcs, 2)
	assert.Equal(t, 1.0, net.Arcs[0].LowerBound)
	assert.Equal(t, 50.0, net.Arcs[0].UpperBound)
	assert.Equal(t, 1.0, net.Arcs[1].LowerBound)
	assert.Equal(t, 50.0, net.Arcs[1].UpperBound)

	for _, j := range net.Assets {
		assert.NotZero(t, j.Lat)
	}
}

func TestExportFailsOnUnknownCell(t *testing.T) {
	grid := testGrid()
	corridors := corridor.New(costsurface.New(10))
	paths := map[domain.EdgeKey]domain.CandidatePath{
		{From: 99, To: 100}: {Cells: []domain.Cell{99, 100}},
	}

	_, err := Export(grid, nil, nil, paths, corridors)
	require.Error(t, err)
}
