package costsurface

import (
	"container/heap"
	"context"
	"sort"

	"planner/internal/domain"
)

// pqItem is an element of the shortest-path priority queue.
type pqItem struct {
	cell     domain.Cell
	distance float64
	index    int
}

// priorityQueue is a min-heap over distance, with ties broken by preferring
// the lower neighbor-cell id (spec.md §4.2).
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if !domain.FloatEquals(pq[i].distance, pq[j].distance) {
		return pq[i].distance < pq[j].distance
	}
	return pq[i].cell < pq[j].cell
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from src to dst over the live surface using ctx
// only for periodic cancellation checks (the surface itself carries no
// negative weights, so no Bellman-Ford fallback is needed). metric selects
// between MetricWeight (construction cost) and MetricWeightLength (cost
// times geometric length, the legacy variant).
func (s *Surface) ShortestPath(ctx context.Context, src, dst domain.Cell, metric domain.Metric) (domain.CandidatePath, error) {
	dist := map[domain.Cell]float64{src: 0}
	parent := make(map[domain.Cell]domain.Cell)
	visited := make(map[domain.Cell]bool)

	pq := make(priorityQueue, 0, 64)
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{cell: src, distance: 0})

	const checkInterval = 256
	iterations := 0

	for pq.Len() > 0 {
		if iterations%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return domain.CandidatePath{}, ctx.Err()
			default:
			}
		}
		iterations++

		cur := heap.Pop(&pq).(*pqItem)
		u := cur.cell

		if visited[u] {
			continue
		}
		if cur.distance > dist[u]+domain.Epsilon {
			continue
		}
		visited[u] = true

		if u == dst {
			break
		}

		for _, e := range s.Neighbors(u) {
			if e.IsBlocked() {
				continue
			}

			step := edgeCost(e, metric)
			next := dist[u] + step

			known, seen := dist[e.To]
			if !seen || next < known-domain.Epsilon {
				dist[e.To] = next
				parent[e.To] = u
				heap.Push(&pq, &pqItem{cell: e.To, distance: next})
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		return domain.CandidatePath{}, &ErrUnreachable{From: src, To: dst}
	}

	cells := reconstructPath(parent, src, dst)
	weight, length := sumPath(s, cells)

	return domain.CandidatePath{
		Cells:        cells,
		Length:       length,
		Weight:       weight,
		WeightedCost: dist[dst],
		Metric:       metric,
	}, nil
}

// PathCost recomputes weight, length, and weighted cost for an arbitrary
// cell sequence by summing live edge values, rather than trusting a
// previously computed total. Used when a candidate path is split at a
// junction: the resulting sub-paths must be re-priced from the surface
// because Sub leaves those fields zeroed (spec.md §4.5).
func (s *Surface) PathCost(cells []domain.Cell, metric domain.Metric) domain.CandidatePath {
	weight, length := sumPath(s, cells)
	wc := 0.0
	for i := 0; i+1 < len(cells); i++ {
		if e := s.edge(cells[i], cells[i+1]); e != nil {
			wc += edgeCost(e, metric)
		}
	}
	return domain.CandidatePath{Cells: cells, Length: length, Weight: weight, WeightedCost: wc, Metric: metric}
}

func edgeCost(e *domain.Edge, metric domain.Metric) float64 {
	if metric == domain.MetricWeightLength {
		return e.Weight * e.Length
	}
	return e.Weight
}

func reconstructPath(parent map[domain.Cell]domain.Cell, src, dst domain.Cell) []domain.Cell {
	if src == dst {
		return []domain.Cell{src}
	}
	var rev []domain.Cell
	cur := dst
	for {
		rev = append(rev, cur)
		if cur == src {
			break
		}
		prev, ok := parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	cells := make([]domain.Cell, len(rev))
	for i, c := range rev {
		cells[len(rev)-1-i] = c
	}
	return cells
}

func sumPath(s *Surface, cells []domain.Cell) (weight, length float64) {
	for i := 0; i+1 < len(cells); i++ {
		w, _ := s.EdgeWeight(cells[i], cells[i+1])
		l, _ := s.EdgeLength(cells[i], cells[i+1])
		weight += w
		length += l
	}
	return weight, length
}

func sortCells(cells []domain.Cell) {
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
}
