// internal/solver/simplex.go
package solver

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	SimplexName      = "simplex"
	DefaultTolerance = 1e-10
)

// Simplex solves models in-process with gonum's dense simplex method.
type Simplex struct {
	tol float64
}

func NewSimplex(tol float64) *Simplex {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &Simplex{tol: tol}
}

func (s *Simplex) Name() string {
	return SimplexName
}

func (s *Simplex) Available() error {
	return nil
}

// Solve rewrites the model in standard form (A x = b, x >= 0) with one
// slack column per inequality and runs lp.Simplex on it.
func (s *Simplex) Solve(ctx context.Context, m *Model) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	n := len(m.Variables)
	c := m.ObjectiveCoefficients()
	result := &Result{Backend: SimplexName, Values: make([]float64, n)}

	// lp.Simplex rejects variables that appear in no constraint. Such a
	// variable is either pinned at its lower bound or makes the LP unbounded.
	used := make([]bool, n)
	for _, con := range m.Constraints {
		for _, t := range con.Terms {
			if t.Coef != 0 {
				used[t.Var] = true
			}
		}
	}
	cols := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if used[j] {
			cols = append(cols, j)
			continue
		}
		if c[j] < 0 {
			result.Status = StatusUnbounded
			return result, nil
		}
	}

	// Equality rows with no terms carry no column, which lp.Simplex rejects.
	var active []Constraint
	for _, con := range m.Constraints {
		if con.Sense == Equal && !hasTerms(con) {
			if con.RHS != 0 {
				result.Status = StatusInfeasible
				return result, nil
			}
			continue
		}
		active = append(active, con)
	}

	rows := len(active)
	if rows == 0 {
		result.Status = StatusOptimal
		return result, nil
	}

	colOf := make(map[int]int, len(cols))
	for k, j := range cols {
		colOf[j] = k
	}
	slacks := 0
	for _, con := range active {
		if con.Sense != Equal {
			slacks++
		}
	}

	width := len(cols) + slacks
	if width < rows {
		return nil, fmt.Errorf("model has %d constraint rows but only %d columns", rows, width)
	}

	A := mat.NewDense(rows, width, nil)
	b := make([]float64, rows)
	cStd := make([]float64, width)
	for k, j := range cols {
		cStd[k] = c[j]
	}

	slack := len(cols)
	for i, con := range active {
		for _, t := range con.Terms {
			if t.Coef == 0 {
				continue
			}
			k := colOf[t.Var]
			A.Set(i, k, A.At(i, k)+t.Coef)
		}
		switch con.Sense {
		case LessEqual:
			A.Set(i, slack, 1)
			slack++
		case GreaterEqual:
			A.Set(i, slack, -1)
			slack++
		}
		b[i] = con.RHS
	}

	_, x, err := lp.Simplex(cStd, A, b, s.tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		result.Status = StatusInfeasible
		return result, nil
	case errors.Is(err, lp.ErrUnbounded):
		result.Status = StatusUnbounded
		return result, nil
	case err != nil:
		return nil, fmt.Errorf("simplex failed: %w", err)
	}

	for k, j := range cols {
		v := x[k]
		if v < 0 && v > -s.tol*1e3 {
			v = 0
		}
		result.Values[j] = v
	}
	result.Status = StatusOptimal
	result.Objective = m.Evaluate(result.Values)
	return result, nil
}

func hasTerms(c Constraint) bool {
	for _, t := range c.Terms {
		if t.Coef != 0 {
			return true
		}
	}
	return false
}
