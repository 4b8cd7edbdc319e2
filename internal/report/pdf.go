package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}
	warningColor   = &props.Color{Red: 243, Green: 156, Blue: 18}
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241}
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141}

	titleStyle = props.Text{Size: 22, Style: fontstyle.Bold, Align: align.Center, Color: headerBgColor}
	h2Style    = props.Text{Size: 14, Style: fontstyle.Bold, Color: headerBgColor, Top: 5}
	smallStyle = props.Text{Size: 8, Color: darkGrayColor}

	metricValueStyle = props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center, Color: primaryColor}
	metricLabelStyle = props.Text{Size: 9, Align: align.Center, Color: darkGrayColor}

	tableHeaderStyle     = &props.Cell{BackgroundColor: primaryColor}
	tableHeaderTextStyle = props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}, Align: align.Center}
	tableCellStyle       = &props.Cell{BorderType: border.Bottom, BorderColor: lightGrayColor}
	tableCellTextStyle   = props.Text{Size: 9, Align: align.Center}
)

// WritePDF renders a one-page executive summary of r: the headline capture
// target/actual/cost metrics, then the three breakdown tables, each cut
// off after its first maxPDFTableRows rows in the order given, with an
// "... and N more" row for the rest (grounded on services/report-svc/internal/generator/pdf.go's
// metric-card/section/table component layout; this report has only one
// content shape, so the teacher's per-ReportType switch collapses to a
// single rendering path).
func WritePDF(r Result) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	addHeader(m)
	addSummary(m, r.Summary)
	addSourcesTable(m, r.Sources)
	addSinksTable(m, r.Sinks)
	addArcsTable(m, r.Arcs)
	addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate solution pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto) {
	m.AddRow(15, text.NewCol(12, "Sequestration Network Solution", titleStyle))
	m.AddRow(5, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(12, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)
	m.AddRow(8)
}

func addSection(m core.Maroto, title string) {
	m.AddRow(10, text.NewCol(12, title, h2Style))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))
	m.AddRow(5)
}

type metricCard struct {
	Label string
	Value string
}

func addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}
	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}
	cols := make([]core.Col, 0, len(cards))
	for _, card := range cards {
		cols = append(cols, col.New(colSize).Add(
			text.New(card.Value, metricValueStyle),
			text.New(card.Label, metricLabelStyle),
		))
	}
	m.AddRow(20, cols...)
}

func addSummary(m core.Maroto, s Summary) {
	addSection(m, "Summary")

	addMetricCards(m, []metricCard{
		{Label: "Target Capture (MtCO2/yr)", Value: formatFloat(s.TargetCaptureAnnual)},
		{Label: "Actual Capture (MtCO2/yr)", Value: formatFloat(s.ActualCaptureAnnual)},
		{Label: "Storage (MtCO2/yr)", Value: formatFloat(s.StorageAnnual)},
	})

	m.AddRow(5)
	addMetricCards(m, []metricCard{
		{Label: "Total Cost ($M/yr)", Value: formatFloat(s.TotalCostAnnual)},
		{Label: "Capture Cost ($M/yr)", Value: formatFloat(s.CaptureCostAnnual)},
		{Label: "Transport Cost ($M/yr)", Value: formatFloat(s.TransportCostAnnual)},
		{Label: "Storage Cost ($M/yr)", Value: formatFloat(s.StorageCostAnnual)},
	})

	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Project duration: %s yrs", formatFloat(s.DurationYears)), smallStyle),
		text.NewCol(6, fmt.Sprintf("Capital recovery factor: %s%%", formatFloat(round2(s.CRFPercent))),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	if s.TargetClamped {
		m.AddRow(6, text.NewCol(12,
			"Target capture exceeded the network's limiting flow; actual capture was clamped.",
			props.Text{Size: 9, Style: fontstyle.Bold, Color: warningColor}))
	}
}

const maxPDFTableRows = 20

func addSourcesTable(m core.Maroto, rows []SourceRow) {
	if len(rows) == 0 {
		return
	}
	addSection(m, "Capture Sources")
	m.AddRow(8,
		text.NewCol(5, "Source", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Capture (MtCO2/yr)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Cost ($M/yr)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)
	for i, row := range rows {
		if i >= maxPDFTableRows {
			m.AddRow(6, text.NewCol(12, fmt.Sprintf("... and %d more", len(rows)-maxPDFTableRows), smallStyle))
			break
		}
		m.AddRow(6,
			text.NewCol(5, row.SourceID, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, formatFloat(row.CaptureAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, formatFloat(row.CaptureCostAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func addSinksTable(m core.Maroto, rows []SinkRow) {
	if len(rows) == 0 {
		return
	}
	addSection(m, "Storage Sinks")
	m.AddRow(8,
		text.NewCol(5, "Sink", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Storage (MtCO2/yr)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "Cost ($M/yr)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)
	for i, row := range rows {
		if i >= maxPDFTableRows {
			m.AddRow(6, text.NewCol(12, fmt.Sprintf("... and %d more", len(rows)-maxPDFTableRows), smallStyle))
			break
		}
		m.AddRow(6,
			text.NewCol(5, row.SinkID, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, formatFloat(row.StorageAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, formatFloat(row.StorageCostAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func addArcsTable(m core.Maroto, rows []ArcRow) {
	if len(rows) == 0 {
		return
	}
	addSection(m, "Transport Pipelines")
	m.AddRow(8,
		text.NewCol(3, "From", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(3, "To", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Length (km)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "MtCO2/yr", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Cost ($M/yr)", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)
	for i, row := range rows {
		if i >= maxPDFTableRows {
			m.AddRow(6, text.NewCol(12, fmt.Sprintf("... and %d more", len(rows)-maxPDFTableRows), smallStyle))
			break
		}
		m.AddRow(6,
			text.NewCol(3, row.From, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(3, row.To, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, formatFloat(row.LengthKm), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, formatFloat(row.TransportedAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, formatFloat(row.TransportCostAnnual), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func addFooter(m core.Maroto) {
	m.AddRow(10)
	m.AddRow(2, line.NewCol(12, props.Line{Color: lightGrayColor}))
	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("Generated by the capture-transport-storage network planner | %s", time.Now().Format("2006-01-02 15:04:05")),
		props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
	))
}
