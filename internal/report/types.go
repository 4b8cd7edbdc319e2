// Package report renders a solved network plan into the §6 "Solution
// file" CSV (a summary block followed by three named breakdown blocks)
// and an optional one-page PDF executive summary, grounded on
// services/report-svc/internal/generator (teacher) and the exact summary
// field layout of original_source's writeSoln.
package report

import (
	"sort"

	"planner/internal/domain"
	"planner/internal/milp"
	"planner/internal/netexport"
)

// Summary is the solution file's leading block: project-level totals.
type Summary struct {
	DurationYears       float64
	CRFPercent          float64
	TargetCaptureAnnual float64 // MtCO2/yr
	ActualCaptureAnnual float64 // MtCO2/yr
	TargetClamped       bool
	StorageAnnual       float64 // MtCO2/yr
	TotalCostAnnual     float64 // $M/yr
	CaptureCostAnnual   float64 // $M/yr
	TransportCostAnnual float64 // $M/yr
	StorageCostAnnual   float64 // $M/yr
}

// SourceRow is one row of the "CO2 CAPTURE SOURCES" breakdown.
type SourceRow struct {
	SourceID          string
	CaptureAnnual     float64 // MtCO2/yr
	CaptureCostAnnual float64 // $M/yr
}

// SinkRow is one row of the "CO2 STORAGE SINKS" breakdown.
type SinkRow struct {
	SinkID            string
	StorageAnnual     float64 // MtCO2/yr
	StorageCostAnnual float64 // $M/yr
}

// ArcRow is one row of the "CO2 TRANSPORT PIPELINES" breakdown.
type ArcRow struct {
	From, To            string
	LengthKm            float64
	TransportedAnnual   float64 // MtCO2/yr
	TransportCostAnnual float64 // $M/yr
}

// Result is everything the CSV and PDF writers need to render a solved
// plan: the summary block plus the three ordered breakdown tables.
type Result struct {
	Summary Summary
	Sources []SourceRow
	Sinks   []SinkRow
	Arcs    []ArcRow
}

// FromSolution converts a solved Model's Solution into report rows, mapping
// arc keys back onto the exported network's arc lengths and annualizing the
// sink-side totals (sol.InjectedAtSink is bounded by the sink's lifetime
// storage capacity, not an annual rate) exactly as original_source's
// writeSoln divides soln_sinks by dur.
func FromSolution(model *milp.Model, net netexport.Network, sol *milp.Solution) Result {
	cfg := model.Config()
	dur := cfg.Duration
	if dur == 0 {
		dur = 1
	}

	arcLength := make(map[domain.ArcKey]float64, len(net.Arcs))
	for _, arc := range net.Arcs {
		arcLength[arc.Key()] = arc.Length
	}

	var totalCaptured, totalStoredLifetime, totalCaptureCost, totalStorageCost, totalTransportCost float64

	sources := make([]SourceRow, 0, len(sol.CapturedAtSource))
	for src, captured := range sol.CapturedAtSource {
		cost := sol.CaptureCost[src]
		sources = append(sources, SourceRow{
			SourceID:          src,
			CaptureAnnual:     captured,
			CaptureCostAnnual: cost / dur,
		})
		totalCaptured += captured
		totalCaptureCost += cost
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].SourceID < sources[j].SourceID })

	sinks := make([]SinkRow, 0, len(sol.InjectedAtSink))
	for sink, injected := range sol.InjectedAtSink {
		cost := sol.StorageCost[sink]
		sinks = append(sinks, SinkRow{
			SinkID:            sink,
			StorageAnnual:     injected / dur,
			StorageCostAnnual: cost / dur,
		})
		totalStoredLifetime += injected
		totalStorageCost += cost
	}
	sort.Slice(sinks, func(i, j int) bool { return sinks[i].SinkID < sinks[j].SinkID })

	arcs := make([]ArcRow, 0, len(sol.ArcFlow))
	for key, flow := range sol.ArcFlow {
		cost := sol.TransportCost[key]
		arcs = append(arcs, ArcRow{
			From:                key.From,
			To:                  key.To,
			LengthKm:            arcLength[key],
			TransportedAnnual:   flow,
			TransportCostAnnual: cost / dur,
		})
		totalTransportCost += cost
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i].From != arcs[j].From {
			return arcs[i].From < arcs[j].From
		}
		return arcs[i].To < arcs[j].To
	})

	clamped, requested, _ := model.ClampedTarget()

	return Result{
		Summary: Summary{
			DurationYears:       cfg.Duration,
			CRFPercent:          cfg.CRF * 100,
			TargetCaptureAnnual: requested,
			ActualCaptureAnnual: totalCaptured,
			TargetClamped:       clamped,
			StorageAnnual:       totalStoredLifetime / dur,
			TotalCostAnnual:     (totalCaptureCost + totalStorageCost + totalTransportCost) / dur,
			CaptureCostAnnual:   totalCaptureCost / dur,
			TransportCostAnnual: totalTransportCost / dur,
			StorageCostAnnual:   totalStorageCost / dur,
		},
		Sources: sources,
		Sinks:   sinks,
		Arcs:    arcs,
	}
}
