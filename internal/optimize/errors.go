package optimize

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsatisfiable is returned when one or more items have no
	// candidate offers and the abort policy is in force.
	ErrUnsatisfiable = errors.New("unsatisfiable item")

	// ErrInfeasible is returned when the engine reports that the
	// constraint set admits no assignment. This is a "no solution"
	// outcome, not a crash.
	ErrInfeasible = errors.New("program is infeasible")

	// ErrSolver is returned on an engine-level failure, distinct from
	// infeasibility.
	ErrSolver = errors.New("solver error")

	// ErrInvariant marks programming-error-class failures: the decoded
	// solution contradicts the model. The specific cross-check errors
	// below wrap it so callers can match either.
	ErrInvariant = errors.New("solution invariant violated")

	// ErrCostMismatch is returned when the recomputed total cost
	// disagrees with the engine-reported objective beyond tolerance.
	ErrCostMismatch = fmt.Errorf("recomputed cost does not match objective: %w", ErrInvariant)

	// ErrCoverageMismatch is returned when the decoded solution does not
	// select exactly one offer per covered item.
	ErrCoverageMismatch = fmt.Errorf("coverage mismatch: %w", ErrInvariant)
)
