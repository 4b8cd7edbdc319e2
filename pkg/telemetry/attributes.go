package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф
	AttrGridCells     = "grid.cells"
	AttrGraphNodes    = "graph.nodes"
	AttrGraphEdges    = "graph.edges"

	// Этап пайплайна
	AttrStageName = "stage.name"

	// Маршрутизация
	AttrAssetCount    = "router.assets"
	AttrPathsFound    = "router.paths_found"
	AttrJunctionCount = "router.junctions_found"

	// MILP
	AttrSolverCommand = "milp.solver_command"
	AttrSolverStatus  = "milp.solver_status"
	AttrObjective     = "milp.objective_value"
	AttrArcCount      = "milp.arcs"

	// Валидация
	AttrValidationLevel  = "validation.level"
	AttrValidationErrors = "validation.errors"
	AttrValidationPassed = "validation.passed"
)

// GridAttributes returns attributes describing a loaded geo-raster grid.
func GridAttributes(cells int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGridCells, cells),
	}
}

// GraphAttributes returns attributes describing a cost-surface graph.
func GraphAttributes(nodes, edges int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
	}
}

// RouterAttributes returns attributes describing a candidate-router pass.
func RouterAttributes(assets, pathsFound, junctions int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrAssetCount, assets),
		attribute.Int(AttrPathsFound, pathsFound),
		attribute.Int(AttrJunctionCount, junctions),
	}
}

// MilpAttributes returns attributes describing a solver invocation.
func MilpAttributes(command, status string, objective float64, arcs int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSolverCommand, command),
		attribute.String(AttrSolverStatus, status),
		attribute.Float64(AttrObjective, objective),
		attribute.Int(AttrArcCount, arcs),
	}
}

// ValidationAttributes returns attributes describing a validation pass.
func ValidationAttributes(level string, errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrValidationLevel, level),
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
