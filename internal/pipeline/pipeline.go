// Package pipeline orchestrates one end-to-end planning run: cost-raster
// and asset ingestion, geo-raster and cost-surface construction, pipeline
// corridor import, Delaunay triangulation, candidate routing and junction
// discovery, network export, and MILP build/solve/report (spec.md §5,
// grounded on services/solver-svc/cmd/main.go's stage-sequencing style,
// retargeted from a single gRPC call onto this module's own eight-stage
// pipeline). Stage order is fixed; spec.md §5 forbids reordering it.
package pipeline

import (
	"context"
	"os"
	"time"

	"planner/internal/cache"
	"planner/internal/corridor"
	"planner/internal/costsurface"
	"planner/internal/delaunay"
	"planner/internal/domain"
	"planner/internal/geogrid"
	"planner/internal/ingest"
	"planner/internal/milp"
	"planner/internal/netexport"
	"planner/internal/report"
	"planner/internal/router"
	"planner/pkg/apperror"
	"planner/pkg/config"
	"planner/pkg/logger"
	"planner/pkg/metrics"
	"planner/pkg/telemetry"
)

// BoundingBox restricts the loaded grid to a (south, west, north, east)
// subset, per geogrid.Grid.SubsetByBoundingBox.
type BoundingBox struct {
	South, West, North, East float64
}

// CorridorInput names one existing-pipeline workbook to import as a
// PipelineCorridors corridor.
type CorridorInput struct {
	Path     string
	Name     string
	FlowType domain.FlowType
}

// Inputs names every file and parameter one planning run needs.
type Inputs struct {
	CostFilePath  string
	AssetWorkbook string
	Corridors     []CorridorInput
	BoundingBox   *BoundingBox
	Metric        domain.Metric

	Milp milp.Config

	// CostSurfaceVersion namespaces cached shortest-path results; callers
	// typically derive it from the cost file's modification time or a
	// content hash so a changed raster invalidates stale cache entries.
	CostSurfaceVersion string
}

// Result is everything a caller needs after a successful run.
type Result struct {
	Network  netexport.Network
	Model    *milp.Model
	Solution *milp.Solution
	Report   report.Result
}

// stageFunc runs one pipeline stage under ctx, returning an error that
// aborts the whole run (spec.md §7: abort on first fatal error).
type stageFunc func(ctx context.Context) error

// runStage wraps fn with a trace span, a stage-scoped logger, and a
// stage-duration/outcome metric, matching the teacher's per-call
// telemetry.StartSpan + logger + metrics.RecordStage pattern in
// services/solver-svc.
func runStage(ctx context.Context, name string, fn stageFunc) error {
	ctx, span := telemetry.StartSpan(ctx, "pipeline."+name)
	defer span.End()

	log := logger.WithStage(name)
	start := time.Now()
	log.Info("stage started")

	err := fn(ctx)
	dur := time.Since(start)
	metrics.Get().RecordStage(name, err == nil, dur)

	if err != nil {
		telemetry.SetError(ctx, err)
		log.Error("stage failed", "error", err, "duration_ms", dur.Milliseconds())
		return err
	}
	log.Info("stage complete", "duration_ms", dur.Milliseconds())
	return nil
}

// Run executes the full pipeline: ingest → geogrid → costsurface → corridor
// import → delaunay → routing → junction discovery → export → MILP
// build/solve → report. pathCache may be nil to disable shortest-path
// caching; solverCfg configures the external solver subprocess.
func Run(ctx context.Context, in Inputs, solverCfg config.SolverConfig, pathCache *cache.PathCache) (Result, error) {
	var (
		grid      *geogrid.Grid
		surface   *costsurface.Surface
		corridors *corridor.Store
		assets    []domain.Asset
		rt        *router.Router
		net       netexport.Network
		model     *milp.Model
		sol       *milp.Solution
	)

	if err := runStage(ctx, "geogrid", func(ctx context.Context) error {
		f, err := os.Open(in.CostFilePath)
		if err != nil {
			return apperror.Wrap(err, apperror.CodeBadInput, "failed opening cost file")
		}
		defer f.Close()

		costFile, err := ingest.ReadCostFile(f)
		if err != nil {
			return err
		}

		grid = geogrid.NewGrid(costFile.Header)
		if in.BoundingBox != nil {
			bb := in.BoundingBox
			if err := grid.SubsetByBoundingBox(bb.South, bb.West, bb.North, bb.East); err != nil {
				return err
			}
		}

		surface = costsurface.Load(grid, costFile.Edges)
		return nil
	}); err != nil {
		return Result{}, err
	}

	if err := runStage(ctx, "ingest_assets", func(ctx context.Context) error {
		var err error
		assets, err = ingest.ReadAssetWorkbook(in.AssetWorkbook, grid)
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			return apperror.New(apperror.CodeEmptyGraph, "asset workbook produced no sources or sinks")
		}
		return nil
	}); err != nil {
		return Result{}, err
	}

	if err := runStage(ctx, "corridor", func(ctx context.Context) error {
		corridors = corridor.New(surface)
		for _, c := range in.Corridors {
			imp, err := ingest.ReadPipelineWorkbook(c.Path, c.FlowType)
			if err != nil {
				return err
			}
			if err := corridors.Import(ctx, c.Name, imp.Cells, imp.FlowType, imp.LowerBound, imp.UpperBound); err != nil {
				return err
			}
		}
		corridors.EnforceNoPipelineDiagonalXover(grid.Width)
		metrics.Get().RecordCandidateEdges("pipeline", len(in.Corridors))
		return nil
	}); err != nil {
		return Result{}, err
	}

	var delaunayEdges []domain.EdgeKey
	if err := runStage(ctx, "delaunay", func(ctx context.Context) error {
		points := delaunay.AssetPoints(assets)
		edges, err := delaunay.Triangulate(points)
		if err != nil {
			return err
		}
		delaunayEdges = make([]domain.EdgeKey, len(edges))
		for i, e := range edges {
			delaunayEdges[i] = domain.EdgeKey{From: assets[e.From].Cell, To: assets[e.To].Cell}
		}
		metrics.Get().RecordCandidateEdges("delaunay", len(delaunayEdges))
		return nil
	}); err != nil {
		return Result{}, err
	}

	if err := runStage(ctx, "router", func(ctx context.Context) error {
		rt = router.New(surface, corridors, in.Metric)

		var err error
		if pathCache != nil {
			err = rt.RouteDelaunayEdgesCached(ctx, delaunayEdges, pathCache, in.CostSurfaceVersion)
		} else {
			err = rt.RouteDelaunayEdges(ctx, delaunayEdges)
		}
		if err != nil {
			return err
		}

		if err := rt.Discover(ctx); err != nil {
			return err
		}

		var pathJunctions, pipeJunctions int
		for _, j := range rt.Junctions() {
			if j.JunctionOf.Carrier == "" {
				pathJunctions++
			} else {
				pipeJunctions++
			}
		}
		metrics.Get().RecordJunctions("path", pathJunctions)
		metrics.Get().RecordJunctions("pipeline", pipeJunctions)
		metrics.Get().RecordCandidateEdges("routed", len(rt.Paths()))
		return nil
	}); err != nil {
		return Result{}, err
	}

	if err := runStage(ctx, "netexport", func(ctx context.Context) error {
		var err error
		net, err = netexport.Export(grid, assets, rt.Junctions(), rt.Paths(), corridors)
		return err
	}); err != nil {
		return Result{}, err
	}

	if err := runStage(ctx, "milp", func(ctx context.Context) error {
		model = milp.NewModel(net, in.Milp)

		var err error
		sol, err = model.Solve(ctx, solverCfg)
		status := "optimal"
		if err != nil {
			status = string(apperror.Code(err))
		}
		objective := 0.0
		if sol != nil {
			objective = sol.ObjectiveValue
		}
		metrics.Get().RecordMilpResult(status, objective)
		return err
	}); err != nil {
		return Result{}, err
	}

	var rep report.Result
	if err := runStage(ctx, "report", func(ctx context.Context) error {
		rep = report.FromSolution(model, net, sol)
		return nil
	}); err != nil {
		return Result{}, err
	}

	return Result{Network: net, Model: model, Solution: sol, Report: rep}, nil
}
