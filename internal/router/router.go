// Package router implements CandidateRouter: routing every Delaunay edge
// over the live cost surface, preventing diagonal crossovers as paths are
// added, and discovering junction (transshipment) points where candidate
// paths meet each other or an existing pipeline corridor (spec.md §4.5).
package router

import (
	"context"
	"sort"

	"planner/internal/cache"
	"planner/internal/corridor"
	"planner/internal/costsurface"
	"planner/internal/domain"
	"planner/pkg/metrics"
)

// Router routes Delaunay edges and discovers junctions against the live
// cost surface and imported pipeline corridors.
type Router struct {
	surface   *costsurface.Surface
	corridors *corridor.Store
	width     int
	metric    domain.Metric

	spaths map[domain.EdgeKey]domain.CandidatePath

	junctionCells map[domain.Cell]domain.JunctionID
	freeSeq       int
	carrierSeq    map[string]int
}

// New constructs a Router bound to surface and corridors. metric selects
// which cost Dijkstra minimizes when routing each Delaunay edge.
func New(surface *costsurface.Surface, corridors *corridor.Store, metric domain.Metric) *Router {
	return &Router{
		surface:       surface,
		corridors:     corridors,
		width:         surface.Width(),
		metric:        metric,
		spaths:        make(map[domain.EdgeKey]domain.CandidatePath),
		junctionCells: make(map[domain.Cell]domain.JunctionID),
		carrierSeq:    make(map[string]int),
	}
}

// RouteDelaunayEdges routes each edge in turn and immediately applies
// diagonal-crossover prevention for the path just added. The routing order
// matters: enforcing crossover prevention for an earlier edge can block a
// diagonal a later edge would otherwise have used, so edges are routed
// sequentially rather than fanned out in parallel (spec.md §4.5 step 1-2).
func (r *Router) RouteDelaunayEdges(ctx context.Context, edges []domain.EdgeKey) error {
	for _, key := range edges {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, err := r.surface.ShortestPath(ctx, key.From, key.To, r.metric)
		if err != nil {
			return err
		}

		r.spaths[key] = path
		r.corridors.EnforceNoDiagonalCrossover(path, r.width)
	}
	return nil
}

// RouteDelaunayEdgesCached behaves like RouteDelaunayEdges but consults pc
// for each edge's shortest path before invoking Dijkstra, keyed by
// costSurfaceVersion (a caller-chosen identifier for the loaded cost
// raster, e.g. a hash of the cost file's contents), and populates pc with
// freshly computed paths. Crossover enforcement still runs for every edge
// in order regardless of cache hit, since it must see every path in
// Delaunay order to keep later routing decisions consistent (spec.md
// §4.5, §4.9).
func (r *Router) RouteDelaunayEdgesCached(ctx context.Context, edges []domain.EdgeKey, pc *cache.PathCache, costSurfaceVersion string) error {
	for _, key := range edges {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, hit, err := pc.Get(ctx, costSurfaceVersion, key.From, key.To, r.metric)
		if err != nil {
			return err
		}
		metrics.Get().RecordCacheLookup(hit)

		if !hit {
			path, err = r.surface.ShortestPath(ctx, key.From, key.To, r.metric)
			if err != nil {
				return err
			}
			if err := pc.Set(ctx, costSurfaceVersion, key.From, key.To, r.metric, path, 0); err != nil {
				return err
			}
		}

		r.spaths[key] = path
		r.corridors.EnforceNoDiagonalCrossover(path, r.width)
	}
	return nil
}

// Paths returns the current candidate-path set, keyed by endpoint pair.
// Safe to call at any point in the pipeline; the map reflects whatever
// splitting has happened so far.
func (r *Router) Paths() map[domain.EdgeKey]domain.CandidatePath {
	out := make(map[domain.EdgeKey]domain.CandidatePath, len(r.spaths))
	for k, v := range r.spaths {
		out[k] = v
	}
	return out
}

// Junctions returns every promoted junction cell and its synthesized id, in
// deterministic (ascending cell) order.
func (r *Router) Junctions() []domain.Asset {
	cells := make([]domain.Cell, 0, len(r.junctionCells))
	for c := range r.junctionCells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	assets := make([]domain.Asset, 0, len(cells))
	for _, c := range cells {
		assets = append(assets, domain.Asset{
			ID:         r.junctionCells[c].String(),
			Kind:       domain.AssetKindJunction,
			Cell:       c,
			JunctionOf: r.junctionCells[c],
		})
	}
	return assets
}

// Discover runs the full junction-discovery sequence: path-vs-pipeline
// junctions first (so candidate paths that ride along a corridor are split
// and re-priced at zero cost for their shared segment), then path-vs-path
// junctions among whatever paths remain, and finally a dedup pass that
// drops the symmetric twin of every undirected pair (spec.md §4.5 steps
// 3-5).
func (r *Router) Discover(ctx context.Context) error {
	if err := r.discoverPipelineJunctions(ctx); err != nil {
		return err
	}
	if err := r.discoverPathJunctions(ctx); err != nil {
		return err
	}
	r.dedupSymmetricPairs()
	return nil
}

func (r *Router) nextJunctionID(carrier string) domain.JunctionID {
	if carrier == "" {
		r.freeSeq++
		return domain.JunctionID{Seq: r.freeSeq}
	}
	r.carrierSeq[carrier]++
	return domain.JunctionID{Carrier: carrier, Seq: r.carrierSeq[carrier]}
}

func (r *Router) promoteJunction(cell domain.Cell, carrier string) {
	if _, ok := r.junctionCells[cell]; ok {
		return
	}
	r.junctionCells[cell] = r.nextJunctionID(carrier)
}

func cellSet(cells []domain.Cell) map[domain.Cell]bool {
	set := make(map[domain.Cell]bool, len(cells))
	for _, c := range cells {
		set[c] = true
	}
	return set
}

// contiguousOverlap scans q for the first maximal contiguous run of cells
// that also belong to onP, returning its first and last cell. This is the
// shared core of getTransNodes and getPipeTransNodes.
func contiguousOverlap(q []domain.Cell, onP map[domain.Cell]bool) (n1, n2 domain.Cell, found bool) {
	entered := false
	for i, cell := range q {
		if !entered && onP[cell] {
			entered = true
			n1 = cell
		}
		if entered && !onP[cell] {
			n2 = q[i-1]
			return n1, n2, true
		}
	}
	if entered {
		return n1, q[len(q)-1], true
	}
	return 0, 0, false
}

func sortedKeys(m map[domain.EdgeKey]domain.CandidatePath) []domain.EdgeKey {
	keys := make([]domain.EdgeKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	return keys
}
