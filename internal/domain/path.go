package domain

// CandidatePath is an ordered list of cells from one endpoint to another,
// produced by CostSurface.ShortestPath (spec.md §3 "Candidate path").
type CandidatePath struct {
	Cells        []Cell
	Length       float64 // sum of per-edge lengths
	Weight       float64 // sum of per-edge weights
	WeightedCost float64 // the metric Dijkstra minimized (MetricWeight or MetricWeightLength)
	Metric       Metric
}

// From returns the path's start cell, or 0 if empty.
func (p CandidatePath) From() Cell {
	if len(p.Cells) == 0 {
		return 0
	}
	return p.Cells[0]
}

// To returns the path's end cell, or 0 if empty.
func (p CandidatePath) To() Cell {
	if len(p.Cells) == 0 {
		return 0
	}
	return p.Cells[len(p.Cells)-1]
}

// IndexOf returns the position of cell within the path, or -1 if absent.
func (p CandidatePath) IndexOf(cell Cell) int {
	for i, c := range p.Cells {
		if c == cell {
			return i
		}
	}
	return -1
}

// Sub returns the sub-path spanning [from, to] inclusive (by index), with
// Length/Weight/WeightedCost left zeroed — callers recompute these from the
// live cost surface, per DESIGN.md's open-question decision on sub-path
// costs diverging from pre-split totals.
func (p CandidatePath) Sub(fromIdx, toIdx int) CandidatePath {
	if fromIdx > toIdx {
		fromIdx, toIdx = toIdx, fromIdx
	}
	cells := make([]Cell, toIdx-fromIdx+1)
	copy(cells, p.Cells[fromIdx:toIdx+1])
	return CandidatePath{Cells: cells, Metric: p.Metric}
}

// Reversed returns the path with its cell order reversed, used when
// exporting the reverse direction of an undirected candidate edge.
func (p CandidatePath) Reversed() CandidatePath {
	cells := make([]Cell, len(p.Cells))
	for i, c := range p.Cells {
		cells[len(p.Cells)-1-i] = c
	}
	return CandidatePath{
		Cells: cells, Length: p.Length, Weight: p.Weight,
		WeightedCost: p.WeightedCost, Metric: p.Metric,
	}
}

// Arc is a directed pair of named network nodes produced by
// NetworkExporter (spec.md §3 "Arc (MILP)").
type Arc struct {
	From         string
	To           string
	PathCells    []Cell
	Length       float64
	Weight       float64
	WeightedCost float64
	LowerBound   float64
	UpperBound   float64
}

// ArcKey identifies a directed arc by its named endpoints.
type ArcKey struct {
	From string
	To   string
}

// Key returns the arc's node-id lookup key.
func (a Arc) Key() ArcKey {
	return ArcKey{From: a.From, To: a.To}
}

// Reverse returns the arc's key with endpoints swapped.
func (k ArcKey) Reverse() ArcKey {
	return ArcKey{From: k.To, To: k.From}
}
