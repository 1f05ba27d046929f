// internal/diet/scenario.go
package diet

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"diet-optimizer/internal/models"
)

const DefaultCalories = 2000.0

// Limit is a daily bound on one nutrient, in the nutrient's label unit.
type Limit struct {
	Nutrient  models.Nutrient  `json:"nutrient" yaml:"nutrient"`
	Direction models.Direction `json:"direction" yaml:"direction"`
	Value     float64          `json:"value" yaml:"value"`
}

// UnmarshalJSON requires the nutrient and direction keys. The zero
// Nutrient is calories, so an omitted key must not decode silently.
func (l *Limit) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nutrient  *models.Nutrient  `json:"nutrient"`
		Direction *models.Direction `json:"direction"`
		Value     *float64          `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode limit: %w", err)
	}
	switch {
	case raw.Nutrient == nil:
		return errors.New("limit requires a nutrient")
	case raw.Direction == nil:
		return fmt.Errorf("limit on %s requires a direction", raw.Nutrient)
	case raw.Value == nil:
		return fmt.Errorf("limit on %s requires a value", raw.Nutrient)
	}
	*l = Limit{Nutrient: *raw.Nutrient, Direction: *raw.Direction, Value: *raw.Value}
	return nil
}

// Scenario is the set of daily targets for one optimization run. Nil
// bounds and missing map entries are disabled.
type Scenario struct {
	Name           string                      `json:"name,omitempty" yaml:"name,omitempty"`
	Calories       float64                     `json:"calories" yaml:"calories"`
	MaxNetCarbs    *float64                    `json:"max_net_carbs,omitempty" yaml:"max_net_carbs,omitempty"`
	MinFiber       *float64                    `json:"min_fiber,omitempty" yaml:"min_fiber,omitempty"`
	MinDailyValues map[models.Nutrient]float64 `json:"min_daily_values,omitempty" yaml:"min_daily_values,omitempty"`
	Limits         []Limit                     `json:"limits,omitempty" yaml:"limits,omitempty"`
}

func DefaultScenario() Scenario {
	return Scenario{Name: "default", Calories: DefaultCalories}
}

// Float returns a pointer to v, for the optional bounds of a Scenario.
func Float(v float64) *float64 {
	return &v
}

// Fingerprint identifies the scenario's targets. The name is ignored.
func (s Scenario) Fingerprint() string {
	key := s
	key.Name = ""
	// json sorts map keys, so equal scenarios encode identically.
	data, _ := json.Marshal(key)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// bound is one inequality the builder adds to the model.
type bound struct {
	name      string
	nutrient  models.Nutrient
	direction models.Direction
	value     float64
}

// bounds lists the enabled inequalities in a stable order: net carbs,
// fiber, daily-value floors in nutrient order, then explicit limits.
func (s Scenario) bounds() ([]bound, error) {
	var out []bound
	if s.MaxNetCarbs != nil {
		out = append(out, bound{"max_net_carbohydrate", models.NetCarbohydrate, models.AtMost, *s.MaxNetCarbs})
	}
	if s.MinFiber != nil {
		out = append(out, bound{"min_dietary_fiber", models.DietaryFiber, models.AtLeast, *s.MinFiber})
	}

	dv := make([]models.Nutrient, 0, len(s.MinDailyValues))
	for n := range s.MinDailyValues {
		dv = append(dv, n)
	}
	sort.Slice(dv, func(i, j int) bool { return dv[i] < dv[j] })
	for _, n := range dv {
		name := "min_" + n.String()
		if !n.PercentDailyValue() {
			return nil, &ModelError{Constraint: name, Reason: n.Info().Label + " is not labeled in percent daily value"}
		}
		out = append(out, bound{name, n, models.AtLeast, s.MinDailyValues[n]})
	}

	for _, l := range s.Limits {
		if _, err := l.Nutrient.MarshalText(); err != nil {
			return nil, &ModelError{Constraint: "limits", Reason: err.Error()}
		}
		if l.Nutrient == models.Calories {
			return nil, &ModelError{Constraint: "limits", Reason: "calories are fixed by the calorie budget"}
		}
		prefix := "max_"
		if l.Direction == models.AtLeast {
			prefix = "min_"
		}
		out = append(out, bound{prefix + l.Nutrient.String(), l.Nutrient, l.Direction, l.Value})
	}

	seen := make(map[string]bool, len(out))
	for _, b := range out {
		if seen[b.name] {
			return nil, &ModelError{Constraint: b.name, Reason: "is specified more than once"}
		}
		seen[b.name] = true
		if math.IsNaN(b.value) || math.IsInf(b.value, 0) || b.value < 0 {
			return nil, &ModelError{Constraint: b.name, Reason: "bound must be a finite, non-negative number"}
		}
	}
	return out, nil
}
