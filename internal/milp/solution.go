package milp

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"planner/internal/domain"
	"planner/pkg/apperror"
)

// Solution is the solver's result translated back from LP variable names
// onto network node/arc ids (spec.md §4.7, ported from
// extract_soln_arcs/extract_activated_source(s)/extract_costs).
type Solution struct {
	ObjectiveValue float64

	// ArcFlow holds the flow assigned to each built arc, in MtCO2/yr;
	// arcs with zero flow are omitted, matching the original's
	// X > 0 filter.
	ArcFlow map[domain.ArcKey]float64
	// ArcSegment holds which cost-trend segment was built for an arc
	// present in ArcFlow.
	ArcSegment map[domain.ArcKey]int

	CapturedAtSource map[string]float64
	InjectedAtSink   map[string]float64
	SourcesOpened    map[string]bool
	SinksOpened      map[string]bool

	// Populated by Model.ExtractCosts.
	CaptureCost   map[string]float64      // $M, per source
	StorageCost   map[string]float64      // $M, per sink
	TransportCost map[domain.ArcKey]float64 // $M, per built arc
}

var objectiveLinePattern = regexp.MustCompile(`(?i)objective\s*(?:value)?\s*[:=]?\s*(-?[0-9.eE+-]+)\s*$`)

// ParseSolution reads a solver's .sol output and resolves every variable
// record back onto this model's node/arc ids. It accepts both the
// "index name value [reduced-cost]" layout CBC's default solution printer
// emits and the plain "name value" layout Gurobi/SCIP write, since
// pkg/config.SolverConfig.Command is swappable (spec.md §4.7).
func (m *Model) ParseSolution(r io.Reader) (*Solution, error) {
	sol := &Solution{
		ArcFlow:          map[domain.ArcKey]float64{},
		ArcSegment:       map[domain.ArcKey]int{},
		CapturedAtSource: map[string]float64{},
		InjectedAtSink:   map[string]float64{},
		SourcesOpened:    map[string]bool{},
		SinksOpened:      map[string]bool{},
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "\\") || strings.HasPrefix(line, "Optimal") {
			if match := objectiveLinePattern.FindStringSubmatch(line); match != nil {
				if v, err := strconv.ParseFloat(match[1], 64); err == nil {
					sol.ObjectiveValue = v
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		name, valueStr := fields[0], fields[1]
		if _, err := strconv.Atoi(fields[0]); err == nil && len(fields) >= 3 {
			name, valueStr = fields[1], fields[2]
		}

		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			continue
		}
		m.applySolutionValue(sol, name, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "failed reading solver solution file")
	}

	return sol, nil
}

func (m *Model) applySolutionValue(sol *Solution, name string, value float64) {
	switch {
	case isSet(m.arcFlowByName, name):
		ask := m.arcFlowByName[name]
		if value > domain.Epsilon {
			sol.ArcFlow[ask.ArcKey] += value
		}
	case isSet(m.arcBuiltByName, name):
		ask := m.arcBuiltByName[name]
		if value > 0.5 {
			sol.ArcSegment[ask.ArcKey] = ask.Segment
		}
	case isSetStr(m.capturedByName, name):
		src := m.capturedByName[name]
		if value > domain.Epsilon {
			sol.CapturedAtSource[src] = value
		}
	case isSetStr(m.injectedByName, name):
		sink := m.injectedByName[name]
		if value > domain.Epsilon {
			sol.InjectedAtSink[sink] = value
		}
	case isSetStr(m.srcOpenByName, name):
		if value > 0.5 {
			sol.SourcesOpened[m.srcOpenByName[name]] = true
		}
	case isSetStr(m.sinkOpenByName, name):
		if value > 0.5 {
			sol.SinksOpened[m.sinkOpenByName[name]] = true
		}
	}
}

func isSet(m map[string]arcSegKey, key string) bool {
	_, ok := m[key]
	return ok
}

func isSetStr(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}

// ExtractCosts computes the per-source capture cost, per-sink storage cost,
// and per-arc transport cost (flow cost plus pipeline build cost) implied
// by sol, mirroring extract_costs (spec.md §4.7).
func (m *Model) ExtractCosts(sol *Solution) {
	sol.CaptureCost = make(map[string]float64, len(sol.CapturedAtSource))
	sol.StorageCost = make(map[string]float64, len(sol.InjectedAtSink))
	sol.TransportCost = make(map[domain.ArcKey]float64, len(sol.ArcFlow))

	for src, captured := range sol.CapturedAtSource {
		sol.CaptureCost[src] = m.captureFixedCost[src] + m.captureVarCost[src]*captured*m.cfg.Duration
	}
	for sink, injected := range sol.InjectedAtSink {
		sol.StorageCost[sink] = m.storageFixedCost[sink] + m.storageVarCost[sink]*injected
	}
	for key, flow := range sol.ArcFlow {
		seg, built := sol.ArcSegment[key]
		trend := m.cfg.CostTrend[seg]
		cost := m.arcCost[key]
		transfer := trend.Slope * flow * cost * m.cfg.CRF * m.cfg.Duration
		var buildFlag float64
		if built {
			buildFlag = 1
		}
		build := trend.Intercept * buildFlag * cost * m.cfg.CRF * m.cfg.Duration
		sol.TransportCost[key] = transfer + build
	}
}
