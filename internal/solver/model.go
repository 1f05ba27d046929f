// internal/solver/model.go
package solver

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the relation of a constraint's left side to its right side.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// Term is coefficient * variable, addressed by variable index.
type Term struct {
	Var  int
	Coef float64
}

type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a linear program: minimize the objective over non-negative
// continuous variables subject to linear constraints. It carries no
// backend state and may be solved any number of times.
type Model struct {
	Name        string
	Variables   []string
	Objective   []Term
	Constraints []Constraint
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddVariable appends a non-negative variable and returns its index.
func (m *Model) AddVariable(name string) int {
	m.Variables = append(m.Variables, name)
	return len(m.Variables) - 1
}

func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// ObjectiveCoefficients returns the dense objective vector.
func (m *Model) ObjectiveCoefficients() []float64 {
	c := make([]float64, len(m.Variables))
	for _, t := range m.Objective {
		c[t.Var] += t.Coef
	}
	return c
}

// Evaluate returns the objective value at x.
func (m *Model) Evaluate(x []float64) float64 {
	var total float64
	for _, t := range m.Objective {
		total += t.Coef * x[t.Var]
	}
	return total
}

// Validate checks references and coefficients before a backend sees the model.
func (m *Model) Validate() error {
	if len(m.Variables) == 0 {
		return errors.New("model has no variables")
	}
	n := len(m.Variables)
	check := func(where string, terms []Term) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= n {
				return fmt.Errorf("%s references unknown variable %d", where, t.Var)
			}
			if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
				return fmt.Errorf("%s has a non-finite coefficient for %s", where, m.Variables[t.Var])
			}
		}
		return nil
	}
	if err := check("objective", m.Objective); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(m.Constraints))
	for _, c := range m.Constraints {
		if c.Name == "" {
			return errors.New("constraint without a name")
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("duplicate constraint %q", c.Name)
		}
		names[c.Name] = struct{}{}
		if err := check("constraint "+c.Name, c.Terms); err != nil {
			return err
		}
		if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
			return fmt.Errorf("constraint %s has a non-finite right-hand side", c.Name)
		}
		if c.Sense != LessEqual && c.Sense != GreaterEqual && c.Sense != Equal {
			return fmt.Errorf("constraint %s has unknown sense %d", c.Name, int(c.Sense))
		}
	}
	return nil
}
