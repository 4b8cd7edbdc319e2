// Package netexport assembles the routed, junction-split candidate network
// into the named-node form the MILP formulation consumes: every cell-keyed
// path becomes a pair of directed arcs between stable node ids
// (spec.md §4.6).
package netexport

import (
	"sort"

	"planner/internal/corridor"
	"planner/internal/domain"
	"planner/internal/geogrid"
	"planner/pkg/apperror"
)

// Network is the fully named candidate network ready for MILP extraction.
type Network struct {
	Assets  []domain.Asset
	Arcs    []domain.Arc
	Balance domain.NodeBalance
}

// Export resolves every cell in paths to a named asset (source, sink, or
// junction), emits both directions of each undirected candidate edge, and
// assigns each arc its flow bounds: a pipeline corridor's own bounds when
// both endpoints belong to that corridor, DefaultArc{Lower,Upper}Bound
// otherwise (spec.md §4.6, ported from candidateNetwork.py's
// export_network).
func Export(
	grid *geogrid.Grid,
	assets []domain.Asset,
	junctions []domain.Asset,
	paths map[domain.EdgeKey]domain.CandidatePath,
	corridors *corridor.Store,
) (Network, error) {
	cellName := make(map[domain.Cell]string, len(assets)+len(junctions))
	nodeCarrier := make(map[string]string, len(junctions))
	allAssets := make([]domain.Asset, 0, len(assets)+len(junctions))

	for _, a := range assets {
		cellName[a.Cell] = a.ID
		allAssets = append(allAssets, a)
	}
	for _, j := range junctions {
		lat, lon := grid.CellToLatLon(j.Cell)
		j.Lat, j.Lon = lat, lon
		cellName[j.Cell] = j.ID
		nodeCarrier[j.ID] = j.JunctionOf.Carrier
		allAssets = append(allAssets, j)
	}

	arcs := make([]domain.Arc, 0, len(paths)*2)
	for key, path := range paths {
		fromName, ok := cellName[key.From]
		if !ok {
			return Network{}, apperror.NewWithField(apperror.CodeInvalidGraph,
				"candidate path endpoint is not a known asset or junction cell", "from").
				WithDetails("cell", key.From)
		}
		toName, ok := cellName[key.To]
		if !ok {
			return Network{}, apperror.NewWithField(apperror.CodeInvalidGraph,
				"candidate path endpoint is not a known asset or junction cell", "to").
				WithDetails("cell", key.To)
		}

		lower, upper := domain.DefaultArcLowerBound, domain.DefaultArcUpperBound
		if carrier := nodeCarrier[fromName]; carrier != "" && carrier == nodeCarrier[toName] {
			if c, ok := corridors.Get(carrier); ok {
				lower, upper = c.LowerBound, c.UpperBound
			}
		}

		arcs = append(arcs,
			domain.Arc{
				From: fromName, To: toName, PathCells: path.Cells,
				Length: path.Length, Weight: path.Weight, WeightedCost: path.WeightedCost,
				LowerBound: lower, UpperBound: upper,
			},
			domain.Arc{
				From: toName, To: fromName, PathCells: path.Reversed().Cells,
				Length: path.Length, Weight: path.Weight, WeightedCost: path.WeightedCost,
				LowerBound: lower, UpperBound: upper,
			},
		)
	}

	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].From != arcs[j].From {
			return arcs[i].From < arcs[j].From
		}
		return arcs[i].To < arcs[j].To
	})

	balance := make(domain.NodeBalance, len(allAssets))
	for _, a := range allAssets {
		balance[a.ID] = domain.BalanceFor(a)
	}

	sort.Slice(allAssets, func(i, j int) bool { return allAssets[i].ID < allAssets[j].ID })

	return Network{Assets: allAssets, Arcs: arcs, Balance: balance}, nil
}
