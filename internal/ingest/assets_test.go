package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"planner/internal/domain"
	"planner/internal/geogrid"
)

func writeAssetWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sourceIdx, err := f.NewSheet(sourceSheet)
	require.NoError(t, err)
	headers := []string{"ID", "UNIQUE NAME", sourceCapColumn, "Total Unit Cost ($/tCO2)", "Fixed Cost ($M)", "Operating Cost ($/tCO2)", "X loc", "Y loc", "Lat", "Lon"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sourceSheet, cell, h)
	}
	row := []any{"1", "Plant A", 2.5, 35.0, 1.2, 30.0, 1, 1, 30.05, -99.95}
	for i, v := range row {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sourceSheet, cell, v)
	}

	sinkIdx, err := f.NewSheet(sinkSheet)
	require.NoError(t, err)
	sinkHeaders := []string{"ID", "UNIQUE NAME", sinkCapColumn, "Total Unit Cost ($/tCO2)", "Fixed Cost ($M)", "Operating Cost ($/tCO2)", "X loc", "Y loc", "Lat", "Lon"}
	for i, h := range sinkHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sinkSheet, cell, h)
	}
	sinkRow := []any{"1", "Reservoir A", 50.0, 12.0, 0.8, 10.0, 5, 5, 30.45, -99.55}
	for i, v := range sinkRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sinkSheet, cell, v)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(sourceIdx)
	_ = sinkIdx

	path := filepath.Join(t.TempDir(), "assets.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testAssetGrid() *geogrid.Grid {
	return geogrid.NewGrid(geogrid.Header{NCols: 20, NRows: 20, XLLCorner: -100, YLLCorner: 30, CellSize: 0.1})
}

func TestReadAssetWorkbookParsesSourcesAndSinks(t *testing.T) {
	path := writeAssetWorkbook(t)
	grid := testAssetGrid()

	assets, err := ReadAssetWorkbook(path, grid)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	var source, sink domain.Asset
	for _, a := range assets {
		switch a.Kind {
		case domain.AssetKindSource:
			source = a
		case domain.AssetKindSink:
			sink = a
		}
	}

	assert.Equal(t, "source_1", source.ID)
	assert.Equal(t, 2.5, source.Capacity)
	assert.Equal(t, 1.2, source.FixedCost)
	assert.Equal(t, 30.0, source.VariableCost)
	assert.Equal(t, 35.0, source.TotalUnitCost)
	assert.NotZero(t, source.Cell)

	assert.Equal(t, "sink_1", sink.ID)
	assert.Equal(t, 50.0, sink.Capacity)
}

func TestReadAssetWorkbookFailsOnMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(sourceSheet)
	require.NoError(t, err)
	f.SetCellValue(sourceSheet, "A1", "ID")
	_, err = f.NewSheet(sinkSheet)
	require.NoError(t, err)
	f.SetCellValue(sinkSheet, "A1", "ID")
	f.DeleteSheet("Sheet1")

	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err = ReadAssetWorkbook(path, testAssetGrid())
	assert.Error(t, err)
}
