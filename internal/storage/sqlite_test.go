package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diet-optimizer/internal/models"
)

func newStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAssignsIDAndRoundTrips(t *testing.T) {
	s := newStorage(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	run := &models.Run{
		ScenarioName:       "default",
		Scenario:           []byte(`{"calories":2000}`),
		Status:             "optimal",
		Backend:            "simplex",
		CostPerDay:         10,
		Calories:           2000,
		CalculatedCalories: 1820,
		CreatedAt:          at,
		Allocations: []models.Allocation{
			{Food: "oats", Name: "Oats", Calories: 1500, Servings: 15, Grams: 600, CostPerDay: 6},
			{Food: "whey", Name: "Whey", Calories: 500, Servings: 4.2, Grams: 130, CostPerDay: 4},
		},
	}
	require.NoError(t, s.SaveRun(run))
	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)

	runs, err := s.GetRuns(time.Time{}, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "default", got.ScenarioName)
	assert.JSONEq(t, `{"calories":2000}`, string(got.Scenario))
	assert.Equal(t, 1820.0, got.CalculatedCalories)
	assert.True(t, at.Equal(got.CreatedAt))
	assert.Equal(t, run.Allocations, got.Allocations)
}

func TestGetRunsFiltersAndOrders(t *testing.T) {
	s := newStorage(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{"optimal", "infeasible", "optimal"} {
		require.NoError(t, s.SaveRun(&models.Run{
			ScenarioName: "s",
			Status:       status,
			Backend:      "simplex",
			CreatedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	runs, err := s.GetRuns(time.Time{}, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
	assert.Equal(t, "infeasible", runs[1].Status)
	assert.Empty(t, runs[1].Allocations)

	runs, err = s.GetRuns(base.Add(12*time.Hour), base.Add(36*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "infeasible", runs[0].Status)

	runs, err = s.GetRuns(time.Time{}, time.Time{}, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	s := newStorage(t)
	run := &models.Run{ID: "fixed", Status: "optimal", Backend: "simplex"}
	require.NoError(t, s.SaveRun(run))
	assert.Error(t, s.SaveRun(&models.Run{ID: "fixed", Status: "optimal", Backend: "simplex"}))
}
