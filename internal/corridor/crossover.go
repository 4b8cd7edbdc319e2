package corridor

import (
	"planner/internal/domain"
)

// EnforceNoPipelineDiagonalXover blocks the opposing diagonal of every
// diagonal segment on every imported corridor, so no candidate path can
// later cross a pipeline diagonally (spec.md §4.4).
func (s *Store) EnforceNoPipelineDiagonalXover(width int) {
	for _, name := range s.order {
		corridor := s.corridors[name]
		s.enforceNoDiagonalCrossover(corridor.AdjacentPairs(), width)
	}
}

// EnforceNoDiagonalCrossover blocks the opposing diagonal of every diagonal
// segment on path, used by the router after routing each Delaunay edge
// (spec.md §4.5 step 2).
func (s *Store) EnforceNoDiagonalCrossover(path domain.CandidatePath, width int) {
	pairs := make([]domain.EdgeKey, 0, len(path.Cells)-1)
	for i := 0; i+1 < len(path.Cells); i++ {
		pairs = append(pairs, domain.EdgeKey{From: path.Cells[i], To: path.Cells[i+1]})
	}
	s.enforceNoDiagonalCrossover(pairs, width)
}

func (s *Store) enforceNoDiagonalCrossover(pairs []domain.EdgeKey, width int) {
	w := int64(width)
	for _, pair := range pairs {
		diff := int64(pair.From) - int64(pair.To)
		if diff < 0 {
			diff = -diff
		}

		var lower, upper domain.Cell
		switch diff {
		case w + 1:
			lower = minCell(pair.From, pair.To) + 1
			upper = maxCell(pair.From, pair.To) - 1
		case w - 1:
			lower = minCell(pair.From, pair.To) - 1
			upper = maxCell(pair.From, pair.To) + 1
		default:
			continue
		}

		setOrAddWeight(s.surface, lower, upper, domain.Blocked)
		setOrAddWeight(s.surface, upper, lower, domain.Blocked)
	}
}

func minCell(a, b domain.Cell) domain.Cell {
	if a < b {
		return a
	}
	return b
}

func maxCell(a, b domain.Cell) domain.Cell {
	if a > b {
		return a
	}
	return b
}
