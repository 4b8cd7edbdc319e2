package corridor

import (
	"planner/internal/domain"
)

// TiePointMode selects which of the four enforceTiePoints cases applies
// (spec.md §4.4).
type TiePointMode int

const (
	// TwoPointsNoExclusion blocks all non-tie ingress/egress on the corridor.
	TwoPointsNoExclusion TiePointMode = iota
	// TwoPointsExclusion blocks vertices outside [p1, p2].
	TwoPointsExclusion
	// OnePointFullExclusion blocks all other ingress/egress but the one point.
	OnePointFullExclusion
	// OnePointPartialExclusion blocks vertices strictly before or after the
	// tie-in point, per Side.
	OnePointPartialExclusion
)

// Side selects which portion of a corridor is excluded under
// OnePointPartialExclusion.
type Side int

const (
	SideBefore Side = iota
	SideAfter
)

// EnforceTiePoints blocks ingress/egress edges on corridor name that do not
// pass through the designated tie-in point(s), implementing the four cases
// of spec.md §4.4's enforceTiePoints.
func (s *Store) EnforceTiePoints(name string, mode TiePointMode, p1, p2 domain.Cell, side Side) {
	corridor, ok := s.corridors[name]
	if !ok {
		return
	}
	onPath := indexSet(corridor.Cells)

	switch mode {
	case TwoPointsNoExclusion:
		s.blockIngressEgress(onPath, onPath, exclude(p1, p2))
	case TwoPointsExclusion:
		notExcluded := betweenInclusive(corridor.Cells, p1, p2)
		exclusionList := setMinus(corridor.Cells, notExcluded)
		s.blockIngressEgress(indexSet(exclusionList), onPath, exclude(p1, p2))
	case OnePointFullExclusion:
		point := firstNonZero(p1, p2)
		ordered := leftToRight(corridor.Cells)
		var exclusionList []domain.Cell
		if side == SideBefore {
			exclusionList = ordered[:len(ordered)-1]
		} else {
			exclusionList = ordered[1:]
		}
		s.blockIngressEgress(indexSet(exclusionList), onPath, exclude(point, 0))
	case OnePointPartialExclusion:
		point := firstNonZero(p1, p2)
		ordered := leftToRight(corridor.Cells)
		idx := indexOf(ordered, point)
		var exclusionList []domain.Cell
		if side == SideBefore {
			exclusionList = ordered[:idx]
		} else {
			exclusionList = ordered[idx+1:]
		}
		s.blockIngressEgress(indexSet(exclusionList), onPath, exclude(point, 0))
	}
}

// blockIngressEgress sets BLOCKED on every edge whose endpoint touching the
// corridor lies in exclusionSet while the other endpoint lies off the
// corridor (onPath), unless that corridor endpoint is a protected tie point.
func (s *Store) blockIngressEgress(exclusionSet map[domain.Cell]bool, onPath map[domain.Cell]bool, protected map[domain.Cell]bool) {
	for _, u := range s.surface.Cells() {
		for _, e := range s.surface.Neighbors(u) {
			v := e.To

			// ingress: v on corridor, u off corridor
			if exclusionSet[v] && !onPath[u] && !protected[v] {
				s.surface.SetWeight(u, v, domain.Blocked)
			}
			// egress: u on corridor, v off corridor
			if exclusionSet[u] && !onPath[v] && !protected[u] {
				s.surface.SetWeight(u, v, domain.Blocked)
			}
		}
	}
}

func indexSet(cells []domain.Cell) map[domain.Cell]bool {
	m := make(map[domain.Cell]bool, len(cells))
	for _, c := range cells {
		m[c] = true
	}
	return m
}

func exclude(a, b domain.Cell) map[domain.Cell]bool {
	m := map[domain.Cell]bool{a: true}
	if b != 0 {
		m[b] = true
	}
	return m
}

func firstNonZero(a, b domain.Cell) domain.Cell {
	if a != 0 {
		return a
	}
	return b
}

func leftToRight(cells []domain.Cell) []domain.Cell {
	out := append([]domain.Cell(nil), cells...)
	if len(out) > 0 && out[0] > out[len(out)-1] {
		reverse(out)
	}
	return out
}

func reverse(cells []domain.Cell) {
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
}

func indexOf(cells []domain.Cell, target domain.Cell) int {
	for i, c := range cells {
		if c == target {
			return i
		}
	}
	return -1
}

func betweenInclusive(cells []domain.Cell, p1, p2 domain.Cell) []domain.Cell {
	i1, i2 := indexOf(cells, p1), indexOf(cells, p2)
	if i1 < 0 || i2 < 0 {
		return nil
	}
	if i1 > i2 {
		i1, i2 = i2, i1
	}
	return append([]domain.Cell(nil), cells[i1:i2+1]...)
}

func setMinus(all, subset []domain.Cell) []domain.Cell {
	excludeSet := indexSet(subset)
	var out []domain.Cell
	for _, c := range all {
		if !excludeSet[c] {
			out = append(out, c)
		}
	}
	return out
}
