// Package store persists a record of each planning run — its input hash,
// clamped capture target, objective value, and solver status — so operators
// can review past invocations (spec.md §4.10, grounded on
// services/history-svc/internal/repository, trimmed from a multi-tenant
// calculation history down to a single plan_runs table).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPlanRunNotFound is returned when a requested plan run does not exist.
var ErrPlanRunNotFound = errors.New("plan run not found")

// PlanRun is one recorded invocation of the planning pipeline.
type PlanRun struct {
	ID                     uuid.UUID
	CreatedAt              time.Time
	InputsHash             string
	RequestedTargetMtCO2Yr float64
	AppliedTargetMtCO2Yr   float64
	TargetClamped          bool
	ObjectiveValue         *float64
	SolverStatus           string
	AssetCount             int
	ArcCount               int
	DurationMs             float64
	ErrorMessage           string
}

// ListOptions bounds and orders a plan-run listing.
type ListOptions struct {
	Limit  int
	Offset int
}

// Repository persists and retrieves plan runs.
type Repository interface {
	Create(ctx context.Context, run *PlanRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*PlanRun, error)
	List(ctx context.Context, opts ListOptions) ([]*PlanRun, int64, error)
}
