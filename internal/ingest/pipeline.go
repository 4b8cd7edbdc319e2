package ingest

import (
	"github.com/xuri/excelize/v2"

	"planner/internal/domain"
	"planner/pkg/apperror"
)

// PipelineImport is a parsed existing-pipeline workbook, ready to pass to
// corridor.Store.Import (spec.md §6 "Pipeline corridor ingestion", ported
// from candidateNetwork.py's import_pipeline).
type PipelineImport struct {
	Cells      []domain.Cell
	FlowType   domain.FlowType
	LowerBound float64
	UpperBound float64
}

var pipelineColumns = struct {
	start, end, lower, upper string
}{start: "Start", end: "End", lower: "Lower Cap", upper: "Upper Cap"}

// ReadPipelineWorkbook parses a single-sheet pipeline workbook whose "Start"
// and "End" columns describe a contiguous chain of grid cells, and whose
// "Lower Cap"/"Upper Cap" columns (read once, from the first row, since the
// original treats a pipeline's capacity bounds as a single pathname-wide
// value rather than per-segment) bound the corridor's flow.
func ReadPipelineWorkbook(path string, flowType domain.FlowType) (*PipelineImport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "failed opening pipeline workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.New(apperror.CodeInvalidFormat, "pipeline workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "failed reading pipeline sheet")
	}
	if len(rows) < 2 {
		return nil, apperror.New(apperror.CodeInvalidFormat, "pipeline workbook has no data rows")
	}

	col, err := indexColumns(rows[0], pipelineColumns.start, pipelineColumns.end,
		pipelineColumns.lower, pipelineColumns.upper)
	if err != nil {
		return nil, err
	}

	var cells []domain.Cell
	for i, row := range rows[1:] {
		start, ok := cellInt(row, col[pipelineColumns.start])
		if !ok {
			continue
		}
		end, ok := cellInt(row, col[pipelineColumns.end])
		if !ok {
			return nil, apperror.NewWithField(apperror.CodeInvalidFormat, "pipeline row missing End cell", "End").
				WithDetails("row", i+2)
		}
		if len(cells) == 0 {
			cells = append(cells, domain.Cell(start))
		} else if cells[len(cells)-1] != domain.Cell(start) {
			return nil, apperror.New(apperror.CodeInvalidGraph, "pipeline rows are not a contiguous chain").
				WithDetails("row", i+2)
		}
		cells = append(cells, domain.Cell(end))
	}
	if len(cells) < 2 {
		return nil, apperror.New(apperror.CodeInvalidGraph, "pipeline workbook yielded fewer than two cells")
	}

	return &PipelineImport{
		Cells:      cells,
		FlowType:   flowType,
		LowerBound: cellFloat(rows[1], col[pipelineColumns.lower]),
		UpperBound: cellFloat(rows[1], col[pipelineColumns.upper]),
	}, nil
}
