package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"planner/pkg/database"
	"planner/pkg/telemetry"
)

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	db database.DB
}

// NewPostgresRepository builds a Repository over an open database.DB.
func NewPostgresRepository(db database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, run *PlanRun) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.Create")
	defer span.End()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO plan_runs (
			id, inputs_hash, requested_target_mtco2_yr, applied_target_mtco2_yr,
			target_clamped, objective_value, solver_status, asset_count,
			arc_count, duration_ms, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.ID,
		run.InputsHash,
		run.RequestedTargetMtCO2Yr,
		run.AppliedTargetMtCO2Yr,
		run.TargetClamped,
		run.ObjectiveValue,
		run.SolverStatus,
		run.AssetCount,
		run.ArcCount,
		run.DurationMs,
		run.ErrorMessage,
	).Scan(&run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record plan run: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*PlanRun, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.GetByID")
	defer span.End()

	query := `
		SELECT
			id, created_at, inputs_hash, requested_target_mtco2_yr,
			applied_target_mtco2_yr, target_clamped, objective_value,
			solver_status, asset_count, arc_count, duration_ms, error_message
		FROM plan_runs
		WHERE id = $1
	`

	run := &PlanRun{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.CreatedAt, &run.InputsHash, &run.RequestedTargetMtCO2Yr,
		&run.AppliedTargetMtCO2Yr, &run.TargetClamped, &run.ObjectiveValue,
		&run.SolverStatus, &run.AssetCount, &run.ArcCount, &run.DurationMs, &run.ErrorMessage,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanRunNotFound
		}
		return nil, fmt.Errorf("failed to get plan run: %w", err)
	}

	return run, nil
}

func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]*PlanRun, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresRepository.List")
	defer span.End()

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plan_runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count plan runs: %w", err)
	}

	query := `
		SELECT
			id, created_at, inputs_hash, requested_target_mtco2_yr,
			applied_target_mtco2_yr, target_clamped, objective_value,
			solver_status, asset_count, arc_count, duration_ms, error_message
		FROM plan_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plan runs: %w", err)
	}
	defer rows.Close()

	var results []*PlanRun
	for rows.Next() {
		run := &PlanRun{}
		if err := rows.Scan(
			&run.ID, &run.CreatedAt, &run.InputsHash, &run.RequestedTargetMtCO2Yr,
			&run.AppliedTargetMtCO2Yr, &run.TargetClamped, &run.ObjectiveValue,
			&run.SolverStatus, &run.AssetCount, &run.ArcCount, &run.DurationMs, &run.ErrorMessage,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan plan run: %w", err)
		}
		results = append(results, run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return results, total, nil
}
