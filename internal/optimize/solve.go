package optimize

import "context"

// Status is the outcome of a solve call.
type Status int

const (
	// StatusOptimal means the assignment is a proven optimum.
	StatusOptimal Status = iota
	// StatusInfeasible means the constraint set admits no assignment.
	StatusInfeasible
	// StatusError means the engine failed; the other fields are
	// meaningless.
	StatusError
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the raw output of an engine: a status and, when optimal, a
// value per variable handle plus the objective value. Values may be
// non-integral within solver tolerance; anything above 0.5 is treated
// as selected.
type Result struct {
	Status     Status
	Assignment []float64
	Objective  float64
}

// Engine is the external optimization contract: a single blocking,
// single-shot solve per program. No retries, no partial results. A
// context deadline maps to StatusError.
type Engine interface {
	Solve(ctx context.Context, p *Program) (Result, error)
}
