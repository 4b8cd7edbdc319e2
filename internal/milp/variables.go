package milp

import (
	"fmt"
	"strings"
)

// bindVariableNames assigns every decision variable an LP/MPS-safe name and
// records it for later lookup, both when writing the formulation and when
// parsing the solver's solution back. Using an explicit registry instead of
// parsing structure back out of the name (the original's `v.name.split("_")`
// convention) means a node id containing an underscore — e.g. a
// pipeline-carrier junction "Pipeline1_TS2" — can never be misread.
func (m *Model) bindVariableNames() {
	m.arcFlowByName = map[string]arcSegKey{}
	m.arcBuiltByName = map[string]arcSegKey{}
	m.capturedByName = map[string]string{}
	m.injectedByName = map[string]string{}
	m.srcOpenByName = map[string]string{}
	m.sinkOpenByName = map[string]string{}

	for _, key := range m.arcKeys {
		for c := 0; c < m.segments; c++ {
			ask := arcSegKey{ArcKey: key, Segment: c}
			flowName := fmt.Sprintf("flow_%s_%s_%d", sanitizeName(key.From), sanitizeName(key.To), c)
			builtName := fmt.Sprintf("built_%s_%s_%d", sanitizeName(key.From), sanitizeName(key.To), c)
			m.arcFlowVar[ask] = flowName
			m.arcBuiltVar[ask] = builtName
			m.arcFlowByName[flowName] = ask
			m.arcBuiltByName[builtName] = ask
		}
	}
	for _, s := range m.src {
		capturedName := fmt.Sprintf("captured_%s", sanitizeName(s))
		openName := fmt.Sprintf("srcopen_%s", sanitizeName(s))
		m.capturedVar[s] = capturedName
		m.srcOpenVar[s] = openName
		m.capturedByName[capturedName] = s
		m.srcOpenByName[openName] = s
	}
	for _, d := range m.sink {
		injectedName := fmt.Sprintf("injected_%s", sanitizeName(d))
		openName := fmt.Sprintf("sinkopen_%s", sanitizeName(d))
		m.injectedVar[d] = injectedName
		m.sinkOpenVar[d] = openName
		m.injectedByName[injectedName] = d
		m.sinkOpenByName[openName] = d
	}
}

// sanitizeName replaces every character an LP/MPS identifier can't carry
// with an underscore so a node id of any shape survives as a variable name.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
