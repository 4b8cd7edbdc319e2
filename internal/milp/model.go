// Package milp builds the mixed-integer flow model over the exported
// candidate network, writes it in LP/MPS format for an external solver, and
// parses the solver's solution back into network-shaped results (spec.md
// §4.7, ported from original_source/src/math_model.py's Math_model class).
//
// The actual solve is delegated to a subprocess (cbc, gurobi_cl, scip, ...)
// configured by pkg/config.SolverConfig — this package never links a solver
// library, it only speaks the LP/MPS/.sol file formats those solvers share.
package milp

import (
	"sort"

	"planner/internal/domain"
	"planner/internal/netexport"
	"planner/pkg/logger"
)

// CostSegment is one piece of the piecewise-linear pipeline-cost trend:
// build/transport cost grows as Slope*flow + Intercept per MtCO2/yr of
// arc capacity (spec.md §4.7, ported from costTrend).
type CostSegment struct {
	Slope     float64
	Intercept float64
}

// DefaultCostTrend returns the two-segment pipeline cost trend the original
// formulation was calibrated against.
func DefaultCostTrend() []CostSegment {
	return []CostSegment{
		{Slope: 0.1157192, Intercept: 0.4316551},
		{Slope: 0.0783067, Intercept: 0.770037},
	}
}

// Config parameterizes the model independent of the network it is built
// over.
type Config struct {
	Duration      float64 // project duration, years
	TargetCapture float64 // desired annual capture, MtCO2/yr
	CRF           float64 // capital recovery factor
	CostTrend     []CostSegment
}

// arcSegKey indexes a per-segment arc variable, mirroring the Python
// model's (node1, node2, c) tuple index.
type arcSegKey struct {
	domain.ArcKey
	Segment int
}

// Model holds every set, parameter, and LP-variable-name binding needed to
// emit the MILP formulation and later map a parsed solution back onto
// network node/arc ids.
type Model struct {
	cfg Config

	assets map[string]domain.Asset
	src    []string
	sink   []string
	node   []string

	arcKeys []domain.ArcKey
	outArcs map[string][]string
	inArcs  map[string][]string

	sourceAnnualCap  map[string]float64
	captureFixedCost map[string]float64
	captureVarCost   map[string]float64

	sinkCap          map[string]float64
	storageFixedCost map[string]float64
	storageVarCost   map[string]float64

	maxArcCap map[arcSegKey]float64
	minArcCap map[arcSegKey]float64
	arcCost   map[domain.ArcKey]float64

	maxCap float64
	midCap float64

	targetCapture  float64
	clampedTarget  bool
	limitingFlow   float64
	originalTarget float64

	segments int

	arcFlowVar  map[arcSegKey]string
	arcBuiltVar map[arcSegKey]string
	capturedVar map[string]string
	injectedVar map[string]string
	srcOpenVar  map[string]string
	sinkOpenVar map[string]string

	arcFlowByName  map[string]arcSegKey
	arcBuiltByName map[string]arcSegKey
	capturedByName map[string]string
	injectedByName map[string]string
	srcOpenByName  map[string]string
	sinkOpenByName map[string]string
}

// NewModel builds the sets, parameters, and LP variable registry for net
// under cfg, clamping the capture target to the network's limiting flow
// when it is infeasibly high (spec.md §4.7 "capture target", ported from
// _generate_sets/_generate_parameters/_validation_checks).
func NewModel(net netexport.Network, cfg Config) *Model {
	if len(cfg.CostTrend) == 0 {
		cfg.CostTrend = DefaultCostTrend()
	}

	m := &Model{
		cfg:              cfg,
		assets:           make(map[string]domain.Asset, len(net.Assets)),
		outArcs:          make(map[string][]string),
		inArcs:           make(map[string][]string),
		sourceAnnualCap:  map[string]float64{},
		captureFixedCost: map[string]float64{},
		captureVarCost:   map[string]float64{},
		sinkCap:          map[string]float64{},
		storageFixedCost: map[string]float64{},
		storageVarCost:   map[string]float64{},
		maxArcCap:        map[arcSegKey]float64{},
		minArcCap:        map[arcSegKey]float64{},
		arcCost:          map[domain.ArcKey]float64{},
		segments:         len(cfg.CostTrend),
		arcFlowVar:       map[arcSegKey]string{},
		arcBuiltVar:      map[arcSegKey]string{},
		capturedVar:      map[string]string{},
		injectedVar:      map[string]string{},
		srcOpenVar:       map[string]string{},
		sinkOpenVar:      map[string]string{},
	}

	for _, a := range net.Assets {
		m.assets[a.ID] = a
		switch a.Kind {
		case domain.AssetKindSource:
			m.src = append(m.src, a.ID)
			m.sourceAnnualCap[a.ID] = a.Capacity
			m.captureFixedCost[a.ID] = a.FixedCost
			m.captureVarCost[a.ID] = effectiveUnitCost(a.TotalUnitCost, a.FixedCost, a.VariableCost)
		case domain.AssetKindSink:
			m.sink = append(m.sink, a.ID)
			m.sinkCap[a.ID] = a.Capacity
			m.storageFixedCost[a.ID] = a.FixedCost
			m.storageVarCost[a.ID] = effectiveUnitCost(a.TotalUnitCost, a.FixedCost, a.VariableCost)
		default:
			m.node = append(m.node, a.ID)
		}
	}
	sort.Strings(m.src)
	sort.Strings(m.sink)
	sort.Strings(m.node)

	seen := map[domain.ArcKey]bool{}
	for _, arc := range net.Arcs {
		key := arc.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		m.arcKeys = append(m.arcKeys, key)
		m.arcCost[key] = arc.WeightedCost
		m.outArcs[arc.From] = append(m.outArcs[arc.From], arc.To)
		m.inArcs[arc.To] = append(m.inArcs[arc.To], arc.From)

		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			lower := arc.LowerBound
			if lower <= 0 {
				lower = 0
			}
			m.minArcCap[ask] = lower
		}
	}
	sort.Slice(m.arcKeys, func(i, j int) bool {
		if m.arcKeys[i].From != m.arcKeys[j].From {
			return m.arcKeys[i].From < m.arcKeys[j].From
		}
		return m.arcKeys[i].To < m.arcKeys[j].To
	})
	for _, neighbors := range m.outArcs {
		sort.Strings(neighbors)
	}
	for _, neighbors := range m.inArcs {
		sort.Strings(neighbors)
	}

	for _, s := range m.src {
		m.maxCap += m.sourceAnnualCap[s]
	}
	if m.segments == 2 && m.cfg.CostTrend[0].Slope != m.cfg.CostTrend[1].Slope {
		m.midCap = (m.cfg.CostTrend[1].Intercept - m.cfg.CostTrend[0].Intercept) /
			(m.cfg.CostTrend[0].Slope - m.cfg.CostTrend[1].Slope)
	}

	for _, arc := range net.Arcs {
		key := arc.Key()
		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			if _, ok := m.maxArcCap[ask]; ok {
				continue
			}
			upper := arc.UpperBound
			switch {
			case upper < m.midCap:
				m.maxArcCap[ask] = upper
			case c == 0:
				m.maxArcCap[ask] = m.midCap
			default:
				m.maxArcCap[ask] = m.maxCap
			}
		}
	}

	m.bindVariableNames()
	m.validateTarget(cfg.TargetCapture)

	return m
}

// effectiveUnitCost mirrors capture_v_cost/storage_v_cost: when a node
// carries neither a variable nor a fixed cost, its flat total unit cost
// stands in for the variable term.
func effectiveUnitCost(total, fixed, variable float64) float64 {
	if variable == 0 && fixed == 0 {
		return total
	}
	return variable
}

// validateTarget clamps the requested capture target to the network's
// limiting flow (the minimum of total source capacity, total sink
// capacity annualized over the project duration, and total arc capacity),
// logging a warning when it does (spec.md §4.7 "capture target", ported
// from _validation_checks).
func (m *Model) validateTarget(target float64) {
	var totalSource, totalSink, totalArc float64
	for _, v := range m.sourceAnnualCap {
		totalSource += v
	}
	for _, v := range m.sinkCap {
		totalSink += v
	}
	if m.cfg.Duration > 0 {
		totalSink /= m.cfg.Duration
	}
	for _, v := range m.maxArcCap {
		totalArc += v
	}

	limiting := totalSource
	if totalSink < limiting {
		limiting = totalSink
	}
	if totalArc < limiting {
		limiting = totalArc
	}

	m.originalTarget = target
	m.limitingFlow = limiting
	m.targetCapture = target
	if target > limiting {
		m.clampedTarget = true
		m.targetCapture = limiting
		logger.Warn("capture target exceeds limiting flow, clamping to limiting flow",
			"requested_mtco2_yr", target, "limiting_flow_mtco2_yr", limiting)
	}
}

// ClampedTarget reports whether the configured capture target was reduced
// to the network's limiting flow, and the two values involved.
func (m *Model) ClampedTarget() (clamped bool, requested, applied float64) {
	return m.clampedTarget, m.originalTarget, m.targetCapture
}

// Config returns the parameters this model was built with, for callers
// (internal/report) that need Duration/CRF alongside a parsed Solution.
func (m *Model) Config() Config {
	return m.cfg
}
