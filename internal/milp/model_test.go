package milp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/domain"
	"planner/internal/netexport"
)

func testNetwork() netexport.Network {
	source := domain.Asset{
		ID: "source_1", Kind: domain.AssetKindSource, Capacity: 4,
		FixedCost: 1.2, VariableCost: 30, TotalUnitCost: 35,
	}
	sink := domain.Asset{
		ID: "sink_1", Kind: domain.AssetKindSink, Capacity: 50,
		FixedCost: 0.8, VariableCost: 10, TotalUnitCost: 12,
	}
	junction := domain.Asset{ID: "TS1", Kind: domain.AssetKindJunction}

	arcs := []domain.Arc{
		{From: "source_1", To: "TS1", WeightedCost: 2.5, LowerBound: 0, UpperBound: 10},
		{From: "TS1", To: "source_1", WeightedCost: 2.5, LowerBound: 0, UpperBound: 10},
		{From: "TS1", To: "sink_1", WeightedCost: 3.0, LowerBound: 0, UpperBound: 10},
		{From: "sink_1", To: "TS1", WeightedCost: 3.0, LowerBound: 0, UpperBound: 10},
	}

	return netexport.Network{
		Assets: []domain.Asset{source, sink, junction},
		Arcs:   arcs,
	}
}

func TestNewModelClampsTargetToLimitingFlow(t *testing.T) {
	net := testNetwork()
	cfg := Config{Duration: 10, CRF: 0.1, TargetCapture: 100}

	m := NewModel(net, cfg)

	clamped, requested, applied := m.ClampedTarget()
	require.True(t, clamped)
	assert.Equal(t, 100.0, requested)
	assert.Equal(t, 4.0, applied) // limited by source_1's 4 MtCO2/yr capacity
}

func TestNewModelDoesNotClampFeasibleTarget(t *testing.T) {
	net := testNetwork()
	cfg := Config{Duration: 10, CRF: 0.1, TargetCapture: 2}

	m := NewModel(net, cfg)

	clamped, _, applied := m.ClampedTarget()
	assert.False(t, clamped)
	assert.Equal(t, 2.0, applied)
}

func TestWriteLPEmitsObjectiveConstraintsAndBinaries(t *testing.T) {
	net := testNetwork()
	m := NewModel(net, Config{Duration: 10, CRF: 0.1, TargetCapture: 2})

	var buf strings.Builder
	require.NoError(t, m.WriteLP(&buf))
	lp := buf.String()

	assert.Contains(t, lp, "Minimize")
	assert.Contains(t, lp, "Subject To")
	assert.Contains(t, lp, "capture_target_")
	assert.Contains(t, lp, "node_balance_")
	assert.Contains(t, lp, "Binaries")
	assert.Contains(t, lp, m.srcOpenVar["source_1"])
	assert.Contains(t, lp, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: "source_1", To: "TS1"}, Segment: 0}])
	assert.Contains(t, lp, "End")
}

func TestWriteMPSEmitsRowsColumnsAndBounds(t *testing.T) {
	net := testNetwork()
	m := NewModel(net, Config{Duration: 10, CRF: 0.1, TargetCapture: 2})

	var buf strings.Builder
	require.NoError(t, m.WriteMPS(&buf))
	mps := buf.String()

	assert.Contains(t, mps, "ROWS")
	assert.Contains(t, mps, "COLUMNS")
	assert.Contains(t, mps, "RHS")
	assert.Contains(t, mps, "BOUNDS")
	assert.Contains(t, mps, "ENDATA")
}
