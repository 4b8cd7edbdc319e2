package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvWriter wraps encoding/csv.Writer so a single Error() check at the end
// covers every row, mirroring report-svc's generator.csvWriter.
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

// WriteCSV renders the §6 "Solution file": a summary block followed by the
// three named breakdown blocks, each preceded by a column-header row and
// terminated by a blank row, matching original_source's writeSoln layout
// column-for-column.
func WriteCSV(w io.Writer, r Result) error {
	cw := &csvWriter{w: csv.NewWriter(w)}

	cw.Write([]string{"SEQUESTRATION NETWORK OPTIMIZATION SOLUTION"})
	cw.Write([]string{"Project Duration (yrs)", formatFloat(r.Summary.DurationYears)})
	cw.Write([]string{"Capital Recovery Factor (%)", formatFloat(round2(r.Summary.CRFPercent))})
	cw.Write([]string{"Annual Target Capture (MTCO2/yr)", formatFloat(r.Summary.TargetCaptureAnnual)})
	actualCaptureRow := []string{"Annual Actual Capture (MTCO2/yr)", formatFloat(r.Summary.ActualCaptureAnnual)}
	if r.Summary.TargetClamped {
		actualCaptureRow = append(actualCaptureRow, "If different from Target, there is a limiting constraint - see logs for details")
	}
	cw.Write(actualCaptureRow)
	cw.Write([]string{"Annual Storage Amount (MTCO2/yr)", formatFloat(r.Summary.StorageAnnual)})
	cw.Write([]string{"Total Cost ($M/yr)", formatFloat(r.Summary.TotalCostAnnual)})
	cw.Write([]string{"Capture Cost ($M/yr)", formatFloat(r.Summary.CaptureCostAnnual)})
	cw.Write([]string{"Transport Cost ($M/yr)", formatFloat(r.Summary.TransportCostAnnual)})
	cw.Write([]string{"Storage Cost ($M/yr)", formatFloat(r.Summary.StorageCostAnnual)})
	cw.Write([]string{""})

	cw.Write([]string{"CO2 CAPTURE SOURCES SOLUTION BREAKDOWN"})
	cw.Write([]string{"CO2 Source", "Capture Amount (MTCO2/yr)", "Capture Cost ($M/yr)"})
	for _, src := range r.Sources {
		cw.Write([]string{src.SourceID, formatFloat(src.CaptureAnnual), formatFloat(src.CaptureCostAnnual)})
	}
	cw.Write([]string{""})

	cw.Write([]string{"CO2 STORAGE SINKS SOLUTION BREAKDOWN"})
	cw.Write([]string{"CO2 Sink", "Storage Amount (MTCO2/yr)", "Storage Cost ($M/yr)"})
	for _, sink := range r.Sinks {
		cw.Write([]string{sink.SinkID, formatFloat(sink.StorageAnnual), formatFloat(sink.StorageCostAnnual)})
	}
	cw.Write([]string{""})

	cw.Write([]string{"CO2 TRANSPORT PIPELINES SOLUTION BREAKDOWN"})
	cw.Write([]string{"Start Point", "End Point", "Length (km)", "CO2 Transported (MTCO2/yr)", "Transport Cost ($M/yr)"})
	for _, arc := range r.Arcs {
		cw.Write([]string{
			arc.From, arc.To,
			formatFloat(arc.LengthKm),
			formatFloat(arc.TransportedAnnual),
			formatFloat(arc.TransportCostAnnual),
		})
	}
	cw.Write([]string{""})

	cw.Flush()
	if cw.err != nil {
		return fmt.Errorf("writing solution csv: %w", cw.err)
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
