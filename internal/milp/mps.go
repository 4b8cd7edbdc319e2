package milp

import (
	"bufio"
	"fmt"
	"io"
)

// WriteMPS emits the model in free-format MPS, the fallback format written
// when pkg/config.SolverConfig.FallbackFormat is "mps" and the configured
// solver command is unavailable, or whenever a record of the formulation is
// wanted alongside the LP file a solver actually consumes (spec.md §4.7).
func (m *Model) WriteMPS(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "NAME          CO2_NETWORK_OPTIMIZATION")
	bw.WriteString("ROWS\n")
	bw.WriteString(" N  obj\n")
	cons := m.constraints()
	for i, c := range cons {
		fmt.Fprintf(bw, " %s  %s_%d\n", mpsRowType(c.op), c.name, i)
	}

	bw.WriteString("COLUMNS\n")
	colRows := m.columnRows(cons)
	for _, name := range m.allVarNames() {
		obj := m.objective()
		objCoef := coefFor(obj, name)
		if objCoef != 0 {
			fmt.Fprintf(bw, "    %-10s  %-10s  %s\n", name, "obj", formatCoef(objCoef))
		}
		for _, row := range colRows[name] {
			fmt.Fprintf(bw, "    %-10s  %-10s  %s\n", name, row.name, formatCoef(row.coef))
		}
	}

	bw.WriteString("RHS\n")
	for i, c := range cons {
		if c.rhs == 0 {
			continue
		}
		fmt.Fprintf(bw, "    RHS       %s_%d  %s\n", c.name, i, formatCoef(c.rhs))
	}

	bw.WriteString("BOUNDS\n")
	for _, key := range m.arcKeys {
		for c := 0; c < m.segments; c++ {
			fmt.Fprintf(bw, " BV BND       %s\n", m.arcBuiltVar[arcSegKey{ArcKey: key, Segment: c}])
		}
	}
	for _, s := range m.src {
		fmt.Fprintf(bw, " BV BND       %s\n", m.srcOpenVar[s])
	}
	for _, d := range m.sink {
		fmt.Fprintf(bw, " BV BND       %s\n", m.sinkOpenVar[d])
	}

	bw.WriteString("ENDATA\n")
	return bw.Flush()
}

func mpsRowType(op string) string {
	switch op {
	case "<=":
		return "L"
	case ">=":
		return "G"
	default:
		return "E"
	}
}

type rowTerm struct {
	name string
	coef float64
}

// columnRows inverts the constraint rows into a per-variable-name list so
// COLUMNS entries can be emitted grouped by variable, as MPS requires.
func (m *Model) columnRows(cons []namedConstraint) map[string][]rowTerm {
	out := map[string][]rowTerm{}
	for i, c := range cons {
		rowName := fmt.Sprintf("%s_%d", c.name, i)
		for _, t := range c.expr.terms {
			out[t.name] = append(out[t.name], rowTerm{name: rowName, coef: t.coef})
		}
	}
	return out
}

func coefFor(e *linExpr, name string) float64 {
	total := 0.0
	for _, t := range e.terms {
		if t.name == name {
			total += t.coef
		}
	}
	return total
}

// allVarNames returns every decision variable name in declaration order.
func (m *Model) allVarNames() []string {
	var names []string
	for _, key := range m.arcKeys {
		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			names = append(names, m.arcFlowVar[ask], m.arcBuiltVar[ask])
		}
	}
	for _, s := range m.src {
		names = append(names, m.capturedVar[s], m.srcOpenVar[s])
	}
	for _, d := range m.sink {
		names = append(names, m.injectedVar[d], m.sinkOpenVar[d])
	}
	return names
}
