package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeBlockedAndZeroCost(t *testing.T) {
	blocked := Edge{From: 1, To: 2, Weight: Blocked, Length: 1}
	assert.True(t, blocked.IsBlocked())
	assert.False(t, blocked.IsZeroCost())

	zero := Edge{From: 1, To: 2, Weight: 0, Length: Sqrt2}
	assert.False(t, zero.IsBlocked())
	assert.True(t, zero.IsZeroCost())
}

func TestEdgeClone(t *testing.T) {
	e := Edge{From: 1, To: 2, Weight: 3.5, Length: 1}
	c := e.Clone()
	assert.Equal(t, e, c)
}

func TestJunctionIDString(t *testing.T) {
	assert.Equal(t, "TS3", JunctionID{Seq: 3}.String())
	assert.Equal(t, "NGPipeline_TS1", JunctionID{Carrier: "NGPipeline", Seq: 1}.String())
}

func TestBalanceFor(t *testing.T) {
	source := Asset{Kind: AssetKindSource, Capacity: 5}
	sink := Asset{Kind: AssetKindSink, Capacity: 20}
	junction := Asset{Kind: AssetKindJunction}

	assert.Equal(t, 5.0, BalanceFor(source))
	assert.Equal(t, -20.0, BalanceFor(sink))
	assert.Equal(t, 0.0, BalanceFor(junction))
}

func TestCorridorAdjacentPairs(t *testing.T) {
	c := Corridor{Cells: []Cell{10, 11, 12}}
	pairs := c.AdjacentPairs()
	assert.Equal(t, []EdgeKey{{From: 10, To: 11}, {From: 11, To: 12}}, pairs)
}

func TestCorridorIndexOf(t *testing.T) {
	c := Corridor{Cells: []Cell{10, 11, 12}}
	assert.Equal(t, 1, c.IndexOf(11))
	assert.Equal(t, -1, c.IndexOf(99))
}

func TestCandidatePathSub(t *testing.T) {
	p := CandidatePath{Cells: []Cell{1, 2, 3, 4, 5}, Metric: MetricWeight}
	sub := p.Sub(1, 3)
	assert.Equal(t, []Cell{2, 3, 4}, sub.Cells)
}

func TestCandidatePathReversed(t *testing.T) {
	p := CandidatePath{Cells: []Cell{1, 2, 3}, Weight: 9, Length: 2}
	r := p.Reversed()
	assert.Equal(t, []Cell{3, 2, 1}, r.Cells)
	assert.Equal(t, 9.0, r.Weight)
}

func TestCandidatePathFromTo(t *testing.T) {
	p := CandidatePath{Cells: []Cell{7, 8, 9}}
	assert.Equal(t, Cell(7), p.From())
	assert.Equal(t, Cell(9), p.To())

	empty := CandidatePath{}
	assert.Equal(t, Cell(0), empty.From())
	assert.Equal(t, Cell(0), empty.To())
}

func TestArcKeyReverse(t *testing.T) {
	a := Arc{From: "source_1", To: "TS1"}
	assert.Equal(t, ArcKey{From: "TS1", To: "source_1"}, a.Key().Reverse())
}
