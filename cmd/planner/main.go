// Command planner is the entry point for the CO2 capture-transport-storage
// network planner: a "plan" subcommand that runs one end-to-end planning
// pipeline invocation and writes its solution report, and a "serve"
// subcommand that exposes a plain status/metrics HTTP surface for
// deployments that want the planner running as a long-lived process
// (spec.md §4.12). Wiring order (config -> logger -> telemetry -> metrics
// -> cache) follows services/solver-svc/cmd/main.go; gRPC server
// construction and service registration have no counterpart here, since
// this module has no RPC surface to serve.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"planner/internal/cache"
	"planner/internal/domain"
	"planner/internal/milp"
	"planner/internal/pipeline"
	"planner/internal/report"
	"planner/internal/store"
	"planner/migrations"
	"planner/pkg/apperror"
	"planner/pkg/config"
	"planner/pkg/database"
	"planner/pkg/logger"
	"planner/pkg/metrics"
	"planner/pkg/telemetry"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	switch os.Args[1] {
	case "plan":
		if err := runPlan(ctx, cfg, os.Args[2:]); err != nil {
			logger.Fatal("plan run failed", "error", err)
		}
	case "serve":
		if err := runServe(ctx, cfg); err != nil {
			logger.Fatal("serve failed", "error", err)
		}
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `planner — CO2 capture-transport-storage network planner

Usage:
  planner plan   --cost-file FILE --assets FILE [flags]
  planner serve  [flags]

Run "planner plan -h" for plan flags.`)
}

// corridorFlags accumulates repeated -corridor "name=path=flowtype" flag
// values, parsed once plan's flag set has finished parsing.
type corridorFlags []string

func (c *corridorFlags) String() string { return strings.Join(*c, ",") }
func (c *corridorFlags) Set(v string) error {
	*c = append(*c, v)
	return nil
}

func parseCorridorFlag(raw string) (pipeline.CorridorInput, error) {
	parts := strings.SplitN(raw, "=", 3)
	if len(parts) != 3 {
		return pipeline.CorridorInput{}, fmt.Errorf("corridor flag %q must be name=path=flowtype", raw)
	}
	var flowType domain.FlowType
	switch strings.ToLower(parts[2]) {
	case "bidirectional", "bi":
		flowType = domain.FlowBidirectional
	case "unidirectional", "uni":
		flowType = domain.FlowUnidirectional
	default:
		return pipeline.CorridorInput{}, fmt.Errorf("corridor flag %q: flowtype must be bidirectional or unidirectional", raw)
	}
	return pipeline.CorridorInput{Name: parts[0], Path: parts[1], FlowType: flowType}, nil
}

func runPlan(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	costFile := fs.String("cost-file", "", "path to the construction-cost raster file (required)")
	assetWorkbook := fs.String("assets", "", "path to the source/sink asset workbook (required)")
	bbox := fs.String("bbox", "", "optional south,west,north,east bounding box to subset the raster")
	metricFlag := fs.String("metric", "weight", "routing metric: weight or weightlength")
	duration := fs.Float64("duration", 20, "project duration, years")
	target := fs.Float64("target", 0, "desired annual capture, MtCO2/yr")
	crf := fs.Float64("crf", 0.1, "capital recovery factor")
	costSurfaceVersion := fs.String("cost-surface-version", "default", "cache namespace for this cost raster")
	var corridors corridorFlags
	fs.Var(&corridors, "corridor", "existing pipeline corridor as name=path=flowtype (bidirectional|unidirectional); repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *costFile == "" || *assetWorkbook == "" {
		fs.Usage()
		return fmt.Errorf("plan requires --cost-file and --assets")
	}

	in := pipeline.Inputs{
		CostFilePath:       *costFile,
		AssetWorkbook:      *assetWorkbook,
		CostSurfaceVersion: *costSurfaceVersion,
		Milp:               milp.Config{Duration: *duration, TargetCapture: *target, CRF: *crf},
	}

	switch strings.ToLower(*metricFlag) {
	case "weight":
		in.Metric = domain.MetricWeight
	case "weightlength":
		in.Metric = domain.MetricWeightLength
	default:
		return fmt.Errorf("--metric must be weight or weightlength, got %q", *metricFlag)
	}

	for _, raw := range corridors {
		c, err := parseCorridorFlag(raw)
		if err != nil {
			return err
		}
		in.Corridors = append(in.Corridors, c)
	}

	if *bbox != "" {
		b, err := parseBoundingBox(*bbox)
		if err != nil {
			return err
		}
		in.BoundingBox = b
	}

	var pathCache *cache.PathCache
	if cfg.Cache.Enabled {
		backing, err := cache.New(cache.FromConfig(cfg.Cache))
		if err != nil {
			logger.Warn("failed to create path cache, continuing uncached", "error", err)
		} else {
			pathCache = cache.NewPathCache(backing, cfg.Cache.DefaultTTL)
		}
	}

	start := time.Now()
	result, runErr := pipeline.Run(ctx, in, cfg.Solver, pathCache)
	elapsed := time.Since(start)

	if err := persistPlanRun(ctx, cfg, in, result, runErr, elapsed); err != nil {
		logger.Warn("failed to persist plan run", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	return writeReport(cfg, result.Report)
}

func parseBoundingBox(raw string) (*pipeline.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("--bbox must be south,west,north,east, got %q", raw)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("--bbox value %q is not a number", p)
		}
		vals[i] = v
	}
	return &pipeline.BoundingBox{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}

func writeReport(cfg *config.Config, rep report.Result) error {
	outDir := cfg.Report.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed creating report output dir: %w", err)
	}

	csvPath := filepath.Join(outDir, "solution.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed creating solution CSV: %w", err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, rep); err != nil {
		return fmt.Errorf("failed writing solution CSV: %w", err)
	}

	pdfBytes, err := report.WritePDF(rep)
	if err != nil {
		return fmt.Errorf("failed rendering PDF summary: %w", err)
	}
	pdfPath := filepath.Join(outDir, "summary.pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("failed writing PDF summary: %w", err)
	}

	logger.Info("report written", "csv", csvPath, "pdf", pdfPath)
	return nil
}

// persistPlanRun records one invocation's outcome in internal/store, when a
// database is configured. A missing/unreachable database never fails the
// plan itself — history is observability, not a load-bearing dependency.
func persistPlanRun(
	ctx context.Context, cfg *config.Config, in pipeline.Inputs, result pipeline.Result, runErr error, dur time.Duration,
) error {
	if cfg.Database.Driver == "" {
		return nil
	}

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed connecting to plan-run store: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database, migrations.PostgresMigrations, "postgres"); err != nil {
			return fmt.Errorf("failed applying migrations: %w", err)
		}
	}

	repo := store.NewPostgresRepository(db)

	run := &store.PlanRun{
		ID:                     uuid.New(),
		RequestedTargetMtCO2Yr: in.Milp.TargetCapture,
		AppliedTargetMtCO2Yr:   in.Milp.TargetCapture,
		SolverStatus:           "optimal",
	}
	if result.Model != nil {
		run.TargetClamped, run.RequestedTargetMtCO2Yr, run.AppliedTargetMtCO2Yr = result.Model.ClampedTarget()
	}
	if result.Solution != nil {
		run.ObjectiveValue = &result.Solution.ObjectiveValue
	}
	if runErr != nil {
		run.SolverStatus = string(apperror.Code(runErr))
		run.ErrorMessage = runErr.Error()
	}
	run.AssetCount = len(result.Network.Assets)
	run.ArcCount = len(result.Network.Arcs)
	run.DurationMs = float64(dur.Milliseconds())

	return repo.Create(ctx, run)
}

// runServe starts the status/metrics HTTP mux and blocks until SIGINT or
// SIGTERM, then drains in-flight requests before returning (spec.md
// §4.12: no RPC surface, just liveness and Prometheus scraping for
// deployments that run the planner as a service rather than a one-shot
// CLI invocation).
func runServe(ctx context.Context, cfg *config.Config) error {
	r := chi.NewRouter()
	if cfg.HTTP.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.HTTP.CORS.AllowedOrigins,
			AllowedMethods:   cfg.HTTP.CORS.AllowedMethods,
			AllowedHeaders:   cfg.HTTP.CORS.AllowedHeaders,
			AllowCredentials: cfg.HTTP.CORS.AllowCredentials,
			MaxAge:           cfg.HTTP.CORS.MaxAge,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle(cmpOr(cfg.Metrics.Path, "/metrics"), metrics.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("shutdown signal received")
	}

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cmpOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
