package ingest

import (
	"strconv"
	"strings"

	"planner/pkg/apperror"
)

// indexColumns maps each wanted header name to its column position in
// header, failing fast when a workbook is missing an expected column
// instead of letting a later row read silently shift.
func indexColumns(header []string, wanted ...string) (map[string]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(h)] = i
	}

	result := make(map[string]int, len(wanted))
	for _, w := range wanted {
		idx, ok := byName[w]
		if !ok {
			return nil, apperror.NewWithField(apperror.CodeInvalidFormat, "workbook missing expected column", w)
		}
		result[w] = idx
	}
	return result, nil
}

func cellString(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// cellFloat parses a numeric cell, treating a blank cell as 0 — mirroring
// pandas's fillna(0) preprocessing of the same workbooks (spec.md §6).
func cellFloat(row []string, idx int) float64 {
	s := cellString(row, idx)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func cellInt(row []string, idx int) (int, bool) {
	s := cellString(row, idx)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
