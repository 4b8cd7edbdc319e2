package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() Result {
	return Result{
		Summary: Summary{
			DurationYears:       10,
			CRFPercent:          9.5,
			TargetCaptureAnnual: 5,
			ActualCaptureAnnual: 5,
			StorageAnnual:       4.8,
			TotalCostAnnual:     12.3,
			CaptureCostAnnual:   5.1,
			TransportCostAnnual: 3.2,
			StorageCostAnnual:   4.0,
		},
		Sources: []SourceRow{{SourceID: "source_1", CaptureAnnual: 5, CaptureCostAnnual: 5.1}},
		Sinks:   []SinkRow{{SinkID: "sink_1", StorageAnnual: 4.8, StorageCostAnnual: 4.0}},
		Arcs: []ArcRow{
			{From: "source_1", To: "TS1", LengthKm: 12.5, TransportedAnnual: 5, TransportCostAnnual: 3.2},
		},
	}
}

func TestWriteCSVProducesSummaryThenThreeBreakdownBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testResult()))

	// encoding/csv writes each blank separator row as an empty line and its
	// Reader skips empty lines, so separators are checked on the raw text.
	raw := buf.String()
	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(rows), 19)

	assert.Equal(t, []string{"SEQUESTRATION NETWORK OPTIMIZATION SOLUTION"}, rows[0])
	assert.Equal(t, "Project Duration (yrs)", rows[1][0])
	assert.Equal(t, "10", rows[1][1])
	assert.Equal(t, "Annual Target Capture (MTCO2/yr)", rows[3][0])

	var sourcesHeaderIdx, sinksHeaderIdx, arcsHeaderIdx int = -1, -1, -1
	for i, row := range rows {
		switch row[0] {
		case "CO2 CAPTURE SOURCES SOLUTION BREAKDOWN":
			sourcesHeaderIdx = i
		case "CO2 STORAGE SINKS SOLUTION BREAKDOWN":
			sinksHeaderIdx = i
		case "CO2 TRANSPORT PIPELINES SOLUTION BREAKDOWN":
			arcsHeaderIdx = i
		}
	}
	require.NotEqual(t, -1, sourcesHeaderIdx)
	require.NotEqual(t, -1, sinksHeaderIdx)
	require.NotEqual(t, -1, arcsHeaderIdx)
	assert.Less(t, sourcesHeaderIdx, sinksHeaderIdx)
	assert.Less(t, sinksHeaderIdx, arcsHeaderIdx)

	assert.Equal(t, []string{"CO2 Source", "Capture Amount (MTCO2/yr)", "Capture Cost ($M/yr)"}, rows[sourcesHeaderIdx+1])
	assert.Equal(t, []string{"source_1", "5", "5.1"}, rows[sourcesHeaderIdx+2])
	assert.Contains(t, raw, "source_1,5,5.1\n\nCO2 STORAGE SINKS SOLUTION BREAKDOWN\n")

	assert.Equal(t, []string{"Start Point", "End Point", "Length (km)", "CO2 Transported (MTCO2/yr)", "Transport Cost ($M/yr)"}, rows[arcsHeaderIdx+1])
	assert.Equal(t, []string{"source_1", "TS1", "12.5", "5", "3.2"}, rows[arcsHeaderIdx+2])
}

func TestWriteCSVAppendsLimitingConstraintNoteWhenClamped(t *testing.T) {
	result := testResult()
	result.Summary.TargetClamped = true

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows[4], 3)
	assert.Contains(t, rows[4][2], "limiting constraint")
}
