package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pgxMockAdapter struct {
	mock pgxmock.PgxPoolIface
}

func (a *pgxMockAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return a.mock.Exec(ctx, sql, args...)
}

func (a *pgxMockAdapter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return a.mock.Query(ctx, sql, args...)
}

func (a *pgxMockAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return a.mock.QueryRow(ctx, sql, args...)
}

func (a *pgxMockAdapter) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return a.mock.BeginTx(ctx, txOptions)
}

func (a *pgxMockAdapter) Close() {
	a.mock.Close()
}

func (a *pgxMockAdapter) Ping(ctx context.Context) error {
	return a.mock.Ping(ctx)
}

func setupMockDB(t *testing.T) (pgxmock.PgxPoolIface, *PostgresRepository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	repo := NewPostgresRepository(&pgxMockAdapter{mock: mock})
	return mock, repo
}

func TestPostgresRepositoryCreateSuccess(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	now := time.Now()
	objective := 1234.5

	run := &PlanRun{
		InputsHash:             "abc123",
		RequestedTargetMtCO2Yr: 5.0,
		AppliedTargetMtCO2Yr:   4.0,
		TargetClamped:          true,
		ObjectiveValue:         &objective,
		SolverStatus:           "optimal",
		AssetCount:             3,
		ArcCount:               6,
		DurationMs:             850.2,
	}

	rows := pgxmock.NewRows([]string{"created_at"}).AddRow(now)
	mock.ExpectQuery(`INSERT INTO plan_runs`).
		WithArgs(
			pgxmock.AnyArg(),
			run.InputsHash, run.RequestedTargetMtCO2Yr, run.AppliedTargetMtCO2Yr,
			run.TargetClamped, run.ObjectiveValue, run.SolverStatus,
			run.AssetCount, run.ArcCount, run.DurationMs, run.ErrorMessage,
		).
		WillReturnRows(rows)

	err := repo.Create(ctx, run)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, now, run.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryCreateError(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	run := &PlanRun{InputsHash: "abc", SolverStatus: "optimal"}

	mock.ExpectQuery(`INSERT INTO plan_runs`).
		WithArgs(
			pgxmock.AnyArg(),
			run.InputsHash, run.RequestedTargetMtCO2Yr, run.AppliedTargetMtCO2Yr,
			run.TargetClamped, run.ObjectiveValue, run.SolverStatus,
			run.AssetCount, run.ArcCount, run.DurationMs, run.ErrorMessage,
		).
		WillReturnError(errors.New("database error"))

	err := repo.Create(ctx, run)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record plan run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDSuccess(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	id := uuid.New()
	now := time.Now()
	objective := 42.0

	rows := pgxmock.NewRows([]string{
		"id", "created_at", "inputs_hash", "requested_target_mtco2_yr",
		"applied_target_mtco2_yr", "target_clamped", "objective_value",
		"solver_status", "asset_count", "arc_count", "duration_ms", "error_message",
	}).AddRow(
		id, now, "hash1", 5.0,
		4.0, true, &objective,
		"optimal", 3, 6, 850.2, "",
	)

	mock.ExpectQuery(`SELECT .* FROM plan_runs WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(rows)

	run, err := repo.GetByID(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "hash1", run.InputsHash)
	assert.True(t, run.TargetClamped)
	require.NotNil(t, run.ObjectiveValue)
	assert.Equal(t, 42.0, *run.ObjectiveValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM plan_runs WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	run, err := repo.GetByID(ctx, id)

	assert.Error(t, err)
	assert.Nil(t, run)
	assert.Equal(t, ErrPlanRunNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListSuccess(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	now := time.Now()
	id1, id2 := uuid.New(), uuid.New()

	countRows := pgxmock.NewRows([]string{"count"}).AddRow(int64(2))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM plan_runs`).WillReturnRows(countRows)

	selectRows := pgxmock.NewRows([]string{
		"id", "created_at", "inputs_hash", "requested_target_mtco2_yr",
		"applied_target_mtco2_yr", "target_clamped", "objective_value",
		"solver_status", "asset_count", "arc_count", "duration_ms", "error_message",
	}).
		AddRow(id1, now, "h1", 5.0, 4.0, false, nil, "optimal", 1, 2, 100.0, "").
		AddRow(id2, now, "h2", 5.0, 5.0, true, nil, "infeasible", 1, 2, 100.0, "")

	mock.ExpectQuery(`SELECT .* FROM plan_runs`).
		WithArgs(20, 0).
		WillReturnRows(selectRows)

	runs, total, err := repo.List(ctx, ListOptions{Limit: 20, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, runs, 2)
	assert.Equal(t, id1, runs[0].ID)
	assert.Equal(t, id2, runs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListLimitCapped(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()

	countRows := pgxmock.NewRows([]string{"count"}).AddRow(int64(0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM plan_runs`).WillReturnRows(countRows)

	selectRows := pgxmock.NewRows([]string{
		"id", "created_at", "inputs_hash", "requested_target_mtco2_yr",
		"applied_target_mtco2_yr", "target_clamped", "objective_value",
		"solver_status", "asset_count", "arc_count", "duration_ms", "error_message",
	})
	mock.ExpectQuery(`SELECT .* FROM plan_runs`).
		WithArgs(200, 0).
		WillReturnRows(selectRows)

	_, _, err := repo.List(ctx, ListOptions{Limit: 5000, Offset: 0})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListCountError(t *testing.T) {
	mock, repo := setupMockDB(t)
	defer mock.Close()

	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM plan_runs`).WillReturnError(errors.New("count error"))

	runs, total, err := repo.List(ctx, ListOptions{Limit: 20})

	assert.Error(t, err)
	assert.Nil(t, runs)
	assert.Equal(t, int64(0), total)
	assert.Contains(t, err.Error(), "failed to count plan runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}
