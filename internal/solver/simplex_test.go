package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplexMinimizesWithCoveringConstraint(t *testing.T) {
	// minimize x + 2y  s.t. x + y >= 1, x <= 0.25
	m := NewModel("covering")
	x := m.AddVariable("x")
	y := m.AddVariable("y")
	m.Objective = []Term{{x, 1}, {y, 2}}
	m.AddConstraint(Constraint{Name: "cover", Terms: []Term{{x, 1}, {y, 1}}, Sense: GreaterEqual, RHS: 1})
	m.AddConstraint(Constraint{Name: "cap_x", Terms: []Term{{x, 1}}, Sense: LessEqual, RHS: 0.25})

	res, err := NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, 0.25, res.Value(x), 1e-9)
	assert.InDelta(t, 0.75, res.Value(y), 1e-9)
	assert.InDelta(t, 1.75, res.Objective, 1e-9)
	assert.Equal(t, SimplexName, res.Backend)
}

func TestSimplexEqualityBudget(t *testing.T) {
	m := NewModel("budget")
	a := m.AddVariable("a")
	b := m.AddVariable("b")
	m.Objective = []Term{{a, 0.01}, {b, 0.005}}
	m.AddConstraint(Constraint{Name: "total", Terms: []Term{{a, 1}, {b, 1}}, Sense: Equal, RHS: 2000})

	res, err := NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.InDelta(t, 0, res.Value(a), 1e-9)
	assert.InDelta(t, 2000, res.Value(b), 1e-9)
	assert.InDelta(t, 10, res.Objective, 1e-9)
}

func TestSimplexZeroBudget(t *testing.T) {
	m := NewModel("zero")
	a := m.AddVariable("a")
	b := m.AddVariable("b")
	m.Objective = []Term{{a, 1}, {b, 2}}
	m.AddConstraint(Constraint{Name: "total", Terms: []Term{{a, 1}, {b, 1}}, Sense: Equal, RHS: 0})

	res, err := NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, 0, res.Objective, 1e-12)
	assert.InDelta(t, 0, res.Value(a), 1e-12)
	assert.InDelta(t, 0, res.Value(b), 1e-12)
}

func TestSimplexInfeasible(t *testing.T) {
	m := NewModel("infeasible")
	a := m.AddVariable("a")
	b := m.AddVariable("b")
	m.Objective = []Term{{a, 1}, {b, 1}}
	m.AddConstraint(Constraint{Name: "total", Terms: []Term{{a, 1}, {b, 1}}, Sense: Equal, RHS: 10})
	m.AddConstraint(Constraint{Name: "too_much", Terms: []Term{{a, 1}}, Sense: GreaterEqual, RHS: 20})

	res, err := NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestSimplexUnusedVariable(t *testing.T) {
	m := NewModel("unused")
	a := m.AddVariable("a")
	idle := m.AddVariable("idle")
	m.Objective = []Term{{a, 1}, {idle, 3}}
	m.AddConstraint(Constraint{Name: "need", Terms: []Term{{a, 1}}, Sense: GreaterEqual, RHS: 4})

	res, err := NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	assert.InDelta(t, 4, res.Value(a), 1e-9)
	assert.Equal(t, 0.0, res.Value(idle))

	m.Objective = []Term{{a, 1}, {idle, -1}}
	res, err = NewSimplex(0).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, res.Status)
}

func TestSimplexRejectsInvalidModel(t *testing.T) {
	m := NewModel("bad")
	m.AddVariable("a")
	m.AddConstraint(Constraint{Name: "ref", Terms: []Term{{Var: 7, Coef: 1}}, Sense: LessEqual, RHS: 1})

	_, err := NewSimplex(0).Solve(context.Background(), m)
	assert.Error(t, err)
}

func TestSimplexHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewModel("canceled")
	m.AddVariable("a")
	_, err := NewSimplex(0).Solve(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
}
