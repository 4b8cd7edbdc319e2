// Package ingest reads the construction-cost raster and asset workbook
// inputs described in spec.md §6 and feeds them into the geogrid and
// costsurface packages.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"

	"planner/internal/domain"
	"planner/internal/geogrid"
	"planner/pkg/apperror"
)

// RawEdge is a single (source, neighbor, weight) triple as it appears in the
// cost file, prior to grid translation or bounding-box admission.
type RawEdge struct {
	From, To domain.Cell
	Weight   float64
}

// CostFile is the parsed result of a cost raster: its header (consumed by
// geogrid.NewGrid) and the flat list of raw edges (consumed by
// costsurface.Load).
type CostFile struct {
	Header geogrid.Header
	Edges  []RawEdge
}

// ReadCostFile parses a cost raster in the block-structured CSV format:
// six header rows (ncols, nrows, xllcorner, yllcorner, cellsize, nodata_value,
// each "label,value"), preceded by two free rows, followed by a sequence of
// (neighbor-id row, weight row) pairs read until EOF; blank rows are skipped.
func ReadCostFile(r io.Reader) (*CostFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	for i := 0; i < 2; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file missing leading rows")
		}
	}

	header, err := readHeader(reader)
	if err != nil {
		return nil, err
	}

	edges, err := readEdgeBlocks(reader)
	if err != nil {
		return nil, err
	}

	return &CostFile{Header: header, Edges: edges}, nil
}

func readHeader(reader *csv.Reader) (geogrid.Header, error) {
	var h geogrid.Header

	ncols, err := readLabeledInt(reader)
	if err != nil {
		return h, err
	}
	nrows, err := readLabeledInt(reader)
	if err != nil {
		return h, err
	}
	xll, err := readLabeledFloat(reader)
	if err != nil {
		return h, err
	}
	yll, err := readLabeledFloat(reader)
	if err != nil {
		return h, err
	}
	cellSize, err := readLabeledFloat(reader)
	if err != nil {
		return h, err
	}
	noData, err := reader.Read()
	if err != nil {
		return h, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file missing nodata_value row")
	}

	h.NCols = ncols
	h.NRows = nrows
	h.XLLCorner = xll
	h.YLLCorner = yll
	h.CellSize = cellSize
	if len(noData) > 1 {
		h.NoData = noData[1]
	}
	return h, nil
}

func readLabeledInt(reader *csv.Reader) (int, error) {
	row, err := reader.Read()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file header row missing")
	}
	if len(row) < 2 {
		return 0, apperror.New(apperror.CodeInvalidFormat, "cost file header row malformed")
	}
	v, err := strconv.Atoi(row[1])
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file header value not an integer")
	}
	return v, nil
}

func readLabeledFloat(reader *csv.Reader) (float64, error) {
	row, err := reader.Read()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file header row missing")
	}
	if len(row) < 2 {
		return 0, apperror.New(apperror.CodeInvalidFormat, "cost file header row malformed")
	}
	v, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file header value not a number")
	}
	return v, nil
}

// readEdgeBlocks consumes alternating (neighbor-ids, weights) row pairs
// until EOF, mirroring the original's `while edgeConn != ['']` loop — Go's
// csv.Reader already skips blank lines, so EOF is the only terminator here.
func readEdgeBlocks(reader *csv.Reader) ([]RawEdge, error) {
	var edges []RawEdge

	for {
		conn, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file edge block malformed")
		}

		weights, err := reader.Read()
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file missing weight row for edge block")
		}

		from, err := strconv.ParseInt(conn[0], 10, 64)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "cost file edge source id not an integer")
		}

		neighbors := conn[1:]
		n := len(weights)
		if len(neighbors) < n {
			n = len(neighbors)
		}

		for i := 0; i < n; i++ {
			to, err := strconv.ParseInt(neighbors[i], 10, 64)
			if err != nil {
				continue
			}
			w, err := strconv.ParseFloat(weights[i], 64)
			if err != nil {
				continue
			}
			edges = append(edges, RawEdge{From: domain.Cell(from), To: domain.Cell(to), Weight: w})
		}
	}

	return edges, nil
}
