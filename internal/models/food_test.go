package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validFacts() NutritionFacts {
	return NutritionFacts{
		ServingSize:       50,
		Calories:          100,
		TotalFat:          2,
		SaturatedFat:      1,
		Cholesterol:       10,
		Sodium:            100,
		TotalCarbohydrate: 12,
		DietaryFiber:      Known(4),
		Protein:           8,
	}
}

func TestNewFood(t *testing.T) {
	cost := Cost{CentsPerPackage: 100, GramsPerPackage: 100}

	tests := []struct {
		name      string
		id        FoodID
		foodName  string
		cost      Cost
		mutate    func(*NutritionFacts)
		wantField string
	}{
		{name: "valid record", id: "oats", foodName: "Rolled oats", cost: cost},
		{name: "missing identifier", foodName: "Rolled oats", cost: cost, wantField: "short_name"},
		{name: "missing name", id: "oats", cost: cost, wantField: "name"},
		{name: "zero package cost", id: "oats", foodName: "Rolled oats", cost: Cost{GramsPerPackage: 100}, wantField: "cost.cents_per_package"},
		{name: "zero package mass", id: "oats", foodName: "Rolled oats", cost: Cost{CentsPerPackage: 100}, wantField: "cost.grams_per_package"},
		{
			name:      "omitted calories",
			id:        "oats",
			foodName:  "Rolled oats",
			cost:      cost,
			mutate:    func(n *NutritionFacts) { n.Calories = 0 },
			wantField: "nutrition_facts.calories",
		},
		{
			name:      "zero serving size",
			id:        "oats",
			foodName:  "Rolled oats",
			cost:      cost,
			mutate:    func(n *NutritionFacts) { n.ServingSize = 0 },
			wantField: "nutrition_facts.serving_size",
		},
		{
			name:      "negative sodium",
			id:        "oats",
			foodName:  "Rolled oats",
			cost:      cost,
			mutate:    func(n *NutritionFacts) { n.Sodium = -1 },
			wantField: "nutrition_facts.sodium",
		},
		{
			name:      "negative optional micronutrient",
			id:        "oats",
			foodName:  "Rolled oats",
			cost:      cost,
			mutate:    func(n *NutritionFacts) { n.Iron = Known(-5) },
			wantField: "nutrition_facts.iron",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := validFacts()
			if tt.mutate != nil {
				tt.mutate(&facts)
			}
			food, err := NewFood(tt.foodName, tt.id, tt.cost, facts)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.id, food.ID)
				return
			}
			var dataErr *DataError
			require.True(t, errors.As(err, &dataErr), "expected DataError, got %v", err)
			assert.Equal(t, tt.wantField, dataErr.Field)
		})
	}
}

func TestAmountDistinguishesUnknownFromZero(t *testing.T) {
	var zero Amount
	assert.False(t, zero.IsKnown())
	assert.Equal(t, 0.0, zero.OrZero())

	known := Known(0)
	v, ok := known.Value()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.NotEqual(t, zero, known)
}

func TestAmountEncoding(t *testing.T) {
	type record struct {
		Fiber Amount `json:"fiber" yaml:"fiber"`
		Iron  Amount `json:"iron" yaml:"iron"`
	}

	data, err := json.Marshal(record{Fiber: Known(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fiber":3,"iron":null}`, string(data))

	var fromJSON record
	require.NoError(t, json.Unmarshal([]byte(`{"fiber":null,"iron":0}`), &fromJSON))
	assert.False(t, fromJSON.Fiber.IsKnown())
	assert.Equal(t, Known(0), fromJSON.Iron)

	var fromYAML record
	require.NoError(t, yaml.Unmarshal([]byte("fiber: 2.5\niron: ~\n"), &fromYAML))
	assert.Equal(t, Known(2.5), fromYAML.Fiber)
	assert.False(t, fromYAML.Iron.IsKnown())
}

func TestParseNutrient(t *testing.T) {
	n, err := ParseNutrient("Vitamin-D")
	require.NoError(t, err)
	assert.Equal(t, VitaminD, n)
	assert.True(t, n.PercentDailyValue())
	assert.Equal(t, AtLeast, n.Info().Direction)

	n, err = ParseNutrient(" net carbohydrate ")
	require.NoError(t, err)
	assert.Equal(t, NetCarbohydrate, n)
	assert.Equal(t, AtMost, n.Info().Direction)

	_, err = ParseNutrient("unobtainium")
	assert.Error(t, err)
}

func TestNutrientTableCoversEveryNutrient(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range Nutrients() {
		info := n.Info()
		assert.Equal(t, n, info.ID)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Unit)
		assert.False(t, seen[info.Key], "duplicate key %s", info.Key)
		seen[info.Key] = true
	}
	assert.Len(t, seen, int(nutrientCount))
}
