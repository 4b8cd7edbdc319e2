package costsurface

import (
	"planner/internal/geogrid"
	"planner/internal/ingest"
)

// Load builds a Surface from raw (source, neighbor, weight) triples,
// translating legacy cell ids through grid and admitting only pairs where
// both endpoints satisfy grid.InBoundingBox (spec.md §4.2).
func Load(grid *geogrid.Grid, raw []ingest.RawEdge) *Surface {
	s := New(grid.Width)

	for _, e := range raw {
		from := grid.TranslateCell(e.From)
		to := grid.TranslateCell(e.To)

		if !grid.InBoundingBox(from, to) {
			continue
		}

		s.AddEdge(from, to, e.Weight)
	}

	return s
}
