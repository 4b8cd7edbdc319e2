package milp

import (
	"bufio"
	"fmt"
	"io"

	"planner/internal/domain"
)

// term is one coefficient*variable pair in a linear expression.
type term struct {
	coef float64
	name string
}

// linExpr accumulates the terms of a linear expression in insertion order,
// so the emitted LP text is deterministic across runs of the same model.
type linExpr struct {
	terms []term
}

func (e *linExpr) add(coef float64, name string) {
	if coef == 0 {
		return
	}
	e.terms = append(e.terms, term{coef, name})
}

func (e *linExpr) writeTo(w *bufio.Writer) {
	if len(e.terms) == 0 {
		w.WriteString(" 0")
		return
	}
	for _, t := range e.terms {
		sign, coef := "+", t.coef
		if coef < 0 {
			sign, coef = "-", -coef
		}
		fmt.Fprintf(w, " %s %s %s", sign, formatCoef(coef), t.name)
	}
}

func formatCoef(v float64) string {
	return fmt.Sprintf("%.10g", v)
}

// WriteLP emits the model in CPLEX LP format, the format understood by
// every solver pkg/config.SolverConfig.Command is expected to name (cbc,
// gurobi_cl, scip) (spec.md §4.7, ported from Math_model's Gurobi variable
// groups/constraint methods).
func (m *Model) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("\\ CO2 network capture-transport-storage MILP\n")
	bw.WriteString("Minimize\n obj:")
	m.objective().writeTo(bw)
	bw.WriteString("\n")

	bw.WriteString("Subject To\n")
	for i, c := range m.constraints() {
		fmt.Fprintf(bw, " %s_%d:", c.name, i)
		c.expr.writeTo(bw)
		fmt.Fprintf(bw, " %s %s\n", c.op, formatCoef(c.rhs))
	}

	bw.WriteString("Binaries\n")
	for _, key := range m.arcKeys {
		for c := 0; c < m.segments; c++ {
			fmt.Fprintf(bw, " %s\n", m.arcBuiltVar[arcSegKey{ArcKey: key, Segment: c}])
		}
	}
	for _, s := range m.src {
		fmt.Fprintf(bw, " %s\n", m.srcOpenVar[s])
	}
	for _, d := range m.sink {
		fmt.Fprintf(bw, " %s\n", m.sinkOpenVar[d])
	}

	bw.WriteString("End\n")
	return bw.Flush()
}

// objective builds "capture cost + storage cost + transport flow cost +
// pipeline build cost" (spec.md §4.7, ported from create_objective).
func (m *Model) objective() *linExpr {
	e := &linExpr{}
	for _, s := range m.src {
		e.add(m.captureFixedCost[s], m.srcOpenVar[s])
		e.add(m.captureVarCost[s]*m.cfg.Duration, m.capturedVar[s])
	}
	for _, d := range m.sink {
		e.add(m.storageFixedCost[d], m.sinkOpenVar[d])
		e.add(m.storageVarCost[d], m.injectedVar[d])
	}
	for _, key := range m.arcKeys {
		cost := m.arcCost[key]
		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			seg := m.cfg.CostTrend[c]
			e.add(seg.Slope*cost*m.cfg.CRF*m.cfg.Duration, m.arcFlowVar[ask])
			e.add(seg.Intercept*cost*m.cfg.CRF*m.cfg.Duration, m.arcBuiltVar[ask])
		}
	}
	return e
}

type namedConstraint struct {
	name string
	expr *linExpr
	op   string // "<=", ">=", "="
	rhs  float64
}

// constraints builds every row of the formulation in the same order
// create_constraints imposes them, for readable LP/solver logs (spec.md
// §4.7).
func (m *Model) constraints() []namedConstraint {
	var cons []namedConstraint

	for _, key := range m.arcKeys {
		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			flow, built := m.arcFlowVar[ask], m.arcBuiltVar[ask]

			lower := &linExpr{}
			lower.add(m.minArcCap[ask], built)
			lower.add(-1, flow)
			cons = append(cons, namedConstraint{"arc_lower_bound", lower, "<=", 0})

			upper := &linExpr{}
			upper.add(m.maxArcCap[ask], built)
			upper.add(-1, flow)
			cons = append(cons, namedConstraint{"arc_upper_bound", upper, ">=", 0})
		}
	}

	for _, key := range m.arcKeys {
		single := &linExpr{}
		for c := 0; c < m.segments; c++ {
			single.add(1, m.arcBuiltVar[arcSegKey{ArcKey: key, Segment: c}])
		}
		cons = append(cons, namedConstraint{"arc_single_dir_flow", single, "<=", 1})
	}

	for _, n := range m.node {
		balance := &linExpr{}
		for _, from := range m.inArcs[n] {
			for c := 0; c < m.segments; c++ {
				balance.add(1, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: from, To: n}, Segment: c}])
			}
		}
		for _, to := range m.outArcs[n] {
			for c := 0; c < m.segments; c++ {
				balance.add(-1, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: n, To: to}, Segment: c}])
			}
		}
		cons = append(cons, namedConstraint{"node_balance", balance, "=", 0})
	}

	for _, d := range m.sink {
		demand := &linExpr{}
		for _, from := range m.inArcs[d] {
			for c := 0; c < m.segments; c++ {
				demand.add(m.cfg.Duration, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: from, To: d}, Segment: c}])
			}
		}
		for _, to := range m.outArcs[d] {
			for c := 0; c < m.segments; c++ {
				demand.add(-m.cfg.Duration, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: d, To: to}, Segment: c}])
			}
		}
		demand.add(-1, m.injectedVar[d])
		cons = append(cons, namedConstraint{"demand_balance", demand, "=", 0})
	}

	for _, s := range m.src {
		supply := &linExpr{}
		for _, from := range m.inArcs[s] {
			for c := 0; c < m.segments; c++ {
				supply.add(1, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: from, To: s}, Segment: c}])
			}
		}
		for _, to := range m.outArcs[s] {
			for c := 0; c < m.segments; c++ {
				supply.add(-1, m.arcFlowVar[arcSegKey{ArcKey: domain.ArcKey{From: s, To: to}, Segment: c}])
			}
		}
		supply.add(1, m.capturedVar[s])
		cons = append(cons, namedConstraint{"supply_balance", supply, "=", 0})
	}

	for _, s := range m.src {
		limit := &linExpr{}
		limit.add(1, m.capturedVar[s])
		limit.add(-m.sourceAnnualCap[s], m.srcOpenVar[s])
		cons = append(cons, namedConstraint{"capture_limit", limit, "<=", 0})
	}

	for _, d := range m.sink {
		limit := &linExpr{}
		limit.add(1, m.injectedVar[d])
		limit.add(-m.sinkCap[d], m.sinkOpenVar[d])
		cons = append(cons, namedConstraint{"storage_limit", limit, "<=", 0})
	}

	target := &linExpr{}
	for _, s := range m.src {
		target.add(1, m.capturedVar[s])
	}
	cons = append(cons, namedConstraint{"capture_target", target, ">=", m.targetCapture})

	return cons
}
