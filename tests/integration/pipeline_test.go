// Package integration drives internal/pipeline.Run end-to-end, including
// the external-solver subprocess step, standing in a "cp"-based fake
// solver command for a real MILP solver binary.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"planner/internal/domain"
	"planner/internal/milp"
	"planner/internal/pipeline"
	"planner/pkg/config"
)

const costFileFixture = `note,ignored
note,ignored
ncols,3
nrows,1
xllcorner,-100
yllcorner,30
cellsize,1
nodata_value,-9999
1,2
5
2,1,3
5,5
3,2
5
`

// solutionFixture is a hand-built plain "name value" solution, matching
// internal/milp's flow_/built_/captured_/injected_/srcopen_/sinkopen_
// naming for the single source_1 -> sink_1 arc this fixture's two-asset
// network produces.
const solutionFixture = `# Objective value: 12.34
captured_source_1 1
injected_sink_1 1
flow_source_1_sink_1_0 1
built_source_1_sink_1_0 1
srcopen_source_1 1
sinkopen_sink_1 1
`

func writeCostFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cost.csv")
	require.NoError(t, os.WriteFile(path, []byte(costFileFixture), 0o644))
	return path
}

func writeAssetWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sourceIdx, err := f.NewSheet("sources")
	require.NoError(t, err)
	headers := []string{"ID", "UNIQUE NAME", "Capture Capacity (MTCO2/yr)", "Total Unit Cost ($/tCO2)", "Fixed Cost ($M)", "Operating Cost ($/tCO2)", "Lat", "Lon"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("sources", cell, h)
	}
	sourceRow := []any{"1", "Plant A", 2.5, 35.0, 1.2, 30.0, 30.5, -99.5}
	for i, v := range sourceRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue("sources", cell, v)
	}

	sinkIdx, err := f.NewSheet("sinks")
	require.NoError(t, err)
	sinkHeaders := []string{"ID", "UNIQUE NAME", "Storage Capacity (MTCO2)", "Total Unit Cost ($/tCO2)", "Fixed Cost ($M)", "Operating Cost ($/tCO2)", "Lat", "Lon"}
	for i, h := range sinkHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("sinks", cell, h)
	}
	sinkRow := []any{"1", "Reservoir A", 50.0, 12.0, 0.8, 10.0, 30.5, -97.5}
	for i, v := range sinkRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue("sinks", cell, v)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(sourceIdx)
	_ = sinkIdx

	path := filepath.Join(t.TempDir(), "assets.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// TestSingleSourceSingleSinkNoCorridorSolves exercises spec.md §8 scenario
// 1 (single source, single sink, no pipeline corridor): ingest through
// MILP solve and report assembly, with a fake solver command that copies a
// pre-built solution file into place instead of invoking a real MILP
// solver binary.
func TestSingleSourceSingleSinkNoCorridorSolves(t *testing.T) {
	workDir := t.TempDir()
	solFixture := filepath.Join(workDir, "fixture.sol")
	require.NoError(t, os.WriteFile(solFixture, []byte(solutionFixture), 0o644))

	in := pipeline.Inputs{
		CostFilePath:  writeCostFile(t),
		AssetWorkbook: writeAssetWorkbook(t),
		Metric:        domain.MetricWeight,
		Milp:          milp.Config{Duration: 10, TargetCapture: 1, CRF: 0.1},
	}
	solverCfg := config.SolverConfig{
		Command: "cp",
		Args:    []string{solFixture, "{sol}"},
		WorkDir: filepath.Join(workDir, "solve"),
	}

	result, err := pipeline.Run(context.Background(), in, solverCfg, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Solution)
	assert.Equal(t, 12.34, result.Solution.ObjectiveValue)
	assert.Equal(t, 1.0, result.Solution.CapturedAtSource["source_1"])
	assert.Equal(t, 1.0, result.Solution.InjectedAtSink["sink_1"])
	assert.True(t, result.Solution.SourcesOpened["source_1"])
	assert.True(t, result.Solution.SinksOpened["sink_1"])

	require.Len(t, result.Network.Assets, 2)
	assert.Equal(t, 1.0, result.Report.Summary.ActualCaptureAnnual)
	assert.False(t, result.Report.Summary.TargetClamped)
}
