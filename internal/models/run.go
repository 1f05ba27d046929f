// internal/models/run.go
package models

import (
	"encoding/json"
	"time"
)

// Run is one stored optimization run.
type Run struct {
	ID                 string          `json:"id"`
	ScenarioName       string          `json:"scenario_name"`
	Scenario           json.RawMessage `json:"scenario"`
	Status             string          `json:"status"`
	Backend            string          `json:"backend"`
	CostPerDay         float64         `json:"cost_per_day"`
	Calories           float64         `json:"calories"`
	CalculatedCalories float64         `json:"calculated_calories"`
	Allocations        []Allocation    `json:"allocations"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Allocation is the daily amount of one food within a stored run.
type Allocation struct {
	Food       FoodID  `json:"food"`
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Servings   float64 `json:"servings"`
	Grams      float64 `json:"grams"`
	CostPerDay float64 `json:"cost_per_day"`
}
