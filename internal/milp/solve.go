package milp

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"planner/pkg/apperror"
	"planner/pkg/config"
	"planner/pkg/logger"
)

const (
	lpFileName  = "co2_network.lp"
	mpsFileName = "co2_network.mps"
	solFileName = "co2_network.sol"
)

// Solve writes the model's LP (and, when cfg.FallbackFormat is "mps", MPS)
// file into cfg.WorkDir, invokes the configured external solver, and parses
// its solution file. The solver itself is always an opaque subprocess — this
// package never links a solver library (spec.md §1, §4.7).
func (m *Model) Solve(ctx context.Context, cfg config.SolverConfig) (*Solution, error) {
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed creating solver work directory")
	}

	lpPath := filepath.Join(workDir, lpFileName)
	solPath := filepath.Join(workDir, solFileName)

	lpFile, err := os.Create(lpPath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed creating LP file")
	}
	writeErr := m.WriteLP(lpFile)
	closeErr := lpFile.Close()
	if writeErr != nil {
		return nil, apperror.Wrap(writeErr, apperror.CodeInternal, "failed writing LP file")
	}
	if closeErr != nil {
		return nil, apperror.Wrap(closeErr, apperror.CodeInternal, "failed closing LP file")
	}

	if cfg.FallbackFormat == "mps" {
		mpsPath := filepath.Join(workDir, mpsFileName)
		mpsFile, err := os.Create(mpsPath)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternal, "failed creating MPS file")
		}
		writeErr := m.WriteMPS(mpsFile)
		closeErr := mpsFile.Close()
		if writeErr != nil {
			return nil, apperror.Wrap(writeErr, apperror.CodeInternal, "failed writing MPS file")
		}
		if closeErr != nil {
			return nil, apperror.Wrap(closeErr, apperror.CodeInternal, "failed closing MPS file")
		}
	}

	if cfg.Command == "" {
		return nil, apperror.New(apperror.CodeSolverUnavailable, "no solver command configured, wrote LP/MPS files only")
	}

	runCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	args := make([]string, len(cfg.Args))
	replacer := strings.NewReplacer("{lp}", lpPath, "{sol}", solPath, "{mps}", filepath.Join(workDir, mpsFileName))
	for i, a := range cfg.Args {
		args[i] = replacer.Replace(a)
	}

	logger.WithStage("milp").Info("invoking external solver", "command", cfg.Command, "args", args, "timeout", cfg.Timeout.String())

	cmd := exec.CommandContext(runCtx, cfg.Command, args...)
	cmd.Dir = workDir
	output, runErr := cmd.CombinedOutput()

	if runErr != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, apperror.Wrap(runErr, apperror.CodeTimeout, "solver timed out").
				WithDetails("output", string(output))
		}
		return nil, apperror.Wrap(runErr, apperror.CodeInfeasible, "solver exited with an error").
			WithDetails("output", string(output))
	}

	solFile, err := os.Open(solPath)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidFormat, "solver produced no solution file").
			WithDetails("output", string(output))
	}
	defer solFile.Close()

	sol, err := m.ParseSolution(solFile)
	if err != nil {
		return nil, err
	}
	m.ExtractCosts(sol)
	return sol, nil
}
