// internal/diet/record.go
package diet

import (
	"encoding/json"
	"fmt"
	"time"

	"diet-optimizer/internal/models"
)

// Record converts the outcome into a run history entry. Non-optimal
// outcomes are recorded with no allocations.
func (o *Outcome) Record(at time.Time) (*models.Run, error) {
	scenario, err := json.Marshal(o.Scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scenario: %w", err)
	}
	run := &models.Run{
		ScenarioName: o.Scenario.Name,
		Scenario:     scenario,
		Status:       o.Status.String(),
		Backend:      o.Backend,
		CreatedAt:    at.UTC(),
	}
	if o.Report == nil {
		return run, nil
	}
	run.CostPerDay = o.Report.CostPerDay
	run.Calories = o.Report.Calories
	run.CalculatedCalories = o.Report.CalculatedCalories
	for _, it := range o.Report.Items {
		run.Allocations = append(run.Allocations, models.Allocation{
			Food:       it.Food,
			Name:       it.Name,
			Calories:   it.Calories,
			Servings:   it.Servings,
			Grams:      it.Grams,
			CostPerDay: it.CostPerDay,
		})
	}
	return run, nil
}
