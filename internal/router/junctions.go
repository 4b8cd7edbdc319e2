package router

import (
	"context"
	"sort"

	"planner/internal/domain"
)

// discoverPipelineJunctions splits every candidate path that runs alongside
// an imported pipeline corridor for part of its length, so the overlapping
// segment can be re-priced at zero cost (it reuses already-built pipeline
// capacity) and the two ends wired through the junction instead of a
// straight edge (spec.md §4.5 step 3, ported from getPipeTransNodes).
func (r *Router) discoverPipelineJunctions(ctx context.Context) error {
	for _, name := range r.corridors.Names() {
		c, ok := r.corridors.Get(name)
		if !ok {
			continue
		}
		onCorridor := cellSet(c.Cells)

		for _, qKey := range sortedKeys(r.spaths) {
			if err := ctx.Err(); err != nil {
				return err
			}
			qPath, ok := r.spaths[qKey]
			if !ok {
				continue
			}
			n1, n2, found := contiguousOverlap(qPath.Cells, onCorridor)
			if !found {
				continue
			}
			r.splitAtJunction(qKey, qPath, n1, n2, name)
		}

		if err := r.pipelinePostProcess(ctx, name, c); err != nil {
			return err
		}
	}
	return nil
}

// discoverPathJunctions splits every pair of distinct candidate paths that
// share a contiguous run of cells, promoting the run's endpoints to free
// (non-pipeline) junctions and recomputing all three resulting segments'
// costs directly from the live surface (spec.md §4.5 step 4, ported from
// getTransNodes). Self-pairs are skipped: comparing a path against itself
// always finds total overlap and carries no information.
//
// Every ordered pair (P, Q) is evaluated against a snapshot of path data
// taken once up front, not against r.spaths as splitAtJunction mutates it.
// splitAtJunction deletes the entry at whatever key it's given and replaces
// it with its split sub-paths; reading pPath/qPath back from r.spaths mid-loop
// would silently skip a path's own turn as P (or as Q against a later P) once
// an earlier ordered pair's split has deleted its original key, missing
// overlaps the full O(n^2) pair scan is supposed to catch. original_source's
// get_trans_nodes takes the same spaths.copy() up front for this reason.
func (r *Router) discoverPathJunctions(ctx context.Context) error {
	keys := sortedKeys(r.spaths)
	snapshot := make(map[domain.EdgeKey]domain.CandidatePath, len(r.spaths))
	for k, v := range r.spaths {
		snapshot[k] = v
	}

	for _, pKey := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		pPath, ok := snapshot[pKey]
		if !ok {
			continue
		}
		onP := cellSet(pPath.Cells)

		for _, qKey := range keys {
			if qKey == pKey {
				continue
			}
			qPath, ok := snapshot[qKey]
			if !ok {
				continue
			}
			n1, n2, found := contiguousOverlap(qPath.Cells, onP)
			if !found || n1 == n2 {
				continue
			}
			r.splitAtJunction(qKey, qPath, n1, n2, "")
		}
	}
	return nil
}

// splitAtJunction replaces the entry at key with up to three sub-paths
// split at n1 and n2 (in path order), each re-priced from the live surface.
// When carrier is non-empty the shared middle segment's cost is forced to
// zero instead of recomputed, since it rides free pipeline capacity. A
// degenerate overlap (n1 == n2) still promotes the single junction cell but
// writes no middle segment, since a from==to arc carries no information.
func (r *Router) splitAtJunction(key domain.EdgeKey, path domain.CandidatePath, n1, n2 domain.Cell, carrier string) {
	i1, i2 := path.IndexOf(n1), path.IndexOf(n2)
	if i1 > i2 {
		i1, i2 = i2, i1
		n1, n2 = n2, n1
	}
	start, end := path.From(), path.To()

	delete(r.spaths, key)

	if start != n1 {
		sub := path.Sub(0, i1)
		r.spaths[domain.EdgeKey{From: start, To: n1}] = r.surface.PathCost(sub.Cells, path.Metric)
	}

	if n1 != n2 {
		sub := path.Sub(i1, i2)
		priced := r.surface.PathCost(sub.Cells, path.Metric)
		if carrier != "" {
			priced.Weight = 0
			priced.WeightedCost = 0
		}
		r.spaths[domain.EdgeKey{From: n1, To: n2}] = priced
	}

	if n2 != end {
		sub := path.Sub(i2, len(path.Cells)-1)
		r.spaths[domain.EdgeKey{From: n2, To: end}] = r.surface.PathCost(sub.Cells, path.Metric)
	}

	r.promoteJunction(n1, carrier)
	r.promoteJunction(n2, carrier)
}

// pipelinePostProcess keeps only the edges between consecutive junctions on
// corridor name (dropping any non-adjacent combination splitAtJunction may
// have left behind from an earlier overlap), then re-routes each
// consecutive pair fresh against the live surface — since the corridor
// itself is zero-cost, the fresh route naturally rides it when that is
// still cheapest (spec.md §4.5 step 3, ported from pipe_post_process).
func (r *Router) pipelinePostProcess(ctx context.Context, name string, c domain.Corridor) error {
	type posCell struct {
		cell domain.Cell
		pos  int
	}
	var nodes []posCell
	for cell, jid := range r.junctionCells {
		if jid.Carrier != name {
			continue
		}
		if pos := c.IndexOf(cell); pos >= 0 {
			nodes = append(nodes, posCell{cell: cell, pos: pos})
		}
	}
	if len(nodes) < 2 {
		return nil
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].pos < nodes[j].pos })

	joints := make(map[domain.EdgeKey]bool, len(nodes)-1)
	for i := 0; i+1 < len(nodes); i++ {
		joints[domain.EdgeKey{From: nodes[i].cell, To: nodes[i+1].cell}] = true
	}

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			key := domain.EdgeKey{From: nodes[i].cell, To: nodes[j].cell}
			if joints[key] {
				continue
			}
			delete(r.spaths, key)
			delete(r.spaths, domain.EdgeKey{From: key.To, To: key.From})
		}
	}

	for edge := range joints {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := r.surface.ShortestPath(ctx, edge.From, edge.To, r.metric)
		if err != nil {
			return err
		}
		r.spaths[edge] = path
	}
	return nil
}

// dedupSymmetricPairs drops the reverse of every undirected pair that
// appears in both directions, keeping whichever direction sorts first by
// (From, To), then re-prices every surviving entry from the live surface so
// Weight/Length/WeightedCost reflect the final, fully-split network
// (spec.md §4.5 step 5, ported from shortest_paths_post_process).
func (r *Router) dedupSymmetricPairs() {
	seen := make(map[domain.EdgeKey]bool, len(r.spaths))
	for _, k := range sortedKeys(r.spaths) {
		rev := domain.EdgeKey{From: k.To, To: k.From}
		if seen[rev] {
			delete(r.spaths, k)
			continue
		}
		seen[k] = true
	}

	for k, path := range r.spaths {
		r.spaths[k] = r.surface.PathCost(path.Cells, path.Metric)
	}
}
