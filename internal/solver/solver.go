// internal/solver/solver.go
package solver

import (
	"context"
	"errors"
	"fmt"
)

// Status is the terminal outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{StatusOptimal, StatusInfeasible, StatusUnbounded} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown solver status %q", text)
}

// Result holds what a backend returned for one model. Values and
// Objective are only meaningful when Status is StatusOptimal.
type Result struct {
	Status    Status
	Values    []float64
	Objective float64
	Backend   string
}

func (r *Result) IsOptimal() bool {
	return r.Status == StatusOptimal
}

// Value returns the value of variable i, or 0 when out of range.
func (r *Result) Value(i int) float64 {
	if i < 0 || i >= len(r.Values) {
		return 0
	}
	return r.Values[i]
}

// Solver is an LP backend. Infeasible and unbounded models are reported
// through Result.Status; an error means the backend itself failed.
type Solver interface {
	Name() string
	// Available returns an *UnavailableError when the backend cannot run.
	Available() error
	Solve(ctx context.Context, m *Model) (*Result, error)
}

// ErrUnavailable matches every *UnavailableError.
var ErrUnavailable = errors.New("solver unavailable")

// UnavailableError reports a backend that could not be located or initialized.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("solver %q is unavailable", e.Backend)
	}
	return fmt.Sprintf("solver %q is unavailable: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
