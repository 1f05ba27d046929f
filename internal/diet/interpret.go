// internal/diet/interpret.go
package diet

import (
	"fmt"
	"math"

	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

// Calories per gram used for the calculated-calorie reconciliation.
const (
	proteinKcalPerGram = 4
	fatKcalPerGram     = 9
	carbKcalPerGram    = 4
)

// Item is the daily amount of one food in an optimal diet.
type Item struct {
	Food       models.FoodID `json:"food"`
	Name       string        `json:"name"`
	Calories   float64       `json:"calories"`
	Servings   float64       `json:"servings"`
	Grams      float64       `json:"grams"`
	CostPerDay float64       `json:"cost_per_day"`
}

// NutrientTotal is the daily amount of one nutrient. Disclosed is false
// when no food in the set reports the nutrient at all.
type NutrientTotal struct {
	Nutrient  models.Nutrient `json:"nutrient"`
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	Amount    float64         `json:"amount"`
	Disclosed bool            `json:"disclosed"`
}

// Macros are the whole-gram daily macronutrient totals behind
// CalculatedCalories.
type Macros struct {
	ProteinGrams float64 `json:"protein_g"`
	FatGrams     float64 `json:"fat_g"`
	NetCarbGrams float64 `json:"net_carbohydrate_g"`
}

type Report struct {
	CostPerDay float64 `json:"cost_per_day"`
	Calories   float64 `json:"calories"`
	// Items omits foods whose daily calories round to zero.
	Items              []Item          `json:"items"`
	Totals             []NutrientTotal `json:"totals"`
	Macros             Macros          `json:"macros"`
	CalculatedCalories float64         `json:"calculated_calories"`
}

// Total returns the daily total of n.
func (r *Report) Total(n models.Nutrient) NutrientTotal {
	for _, t := range r.Totals {
		if t.Nutrient == n {
			return t
		}
	}
	return NutrientTotal{Nutrient: n, Label: n.Info().Label, Unit: n.Info().Unit}
}

// Interpret turns an optimal solution of p back into daily quantities.
func Interpret(p *Program, res *solver.Result) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("no solver result to interpret")
	}
	if !res.IsOptimal() {
		return nil, fmt.Errorf("cannot interpret a %s result", res.Status)
	}
	if len(res.Values) != len(p.Foods) {
		return nil, fmt.Errorf("solver returned %d values for %d foods", len(res.Values), len(p.Foods))
	}

	r := &Report{}
	servings := make([]float64, len(p.Foods))
	for i, f := range p.Foods {
		cal := res.Values[i]
		spc, err := f.ServingsPerCalorie()
		if err != nil {
			return nil, err
		}
		dpc, err := f.DollarsPerCalorie()
		if err != nil {
			return nil, err
		}
		servings[i] = cal * spc
		cost := cal * dpc

		r.Calories += cal
		r.CostPerDay += cost
		if math.Round(cal) == 0 {
			continue
		}
		r.Items = append(r.Items, Item{
			Food:       f.ID,
			Name:       f.Name,
			Calories:   cal,
			Servings:   servings[i],
			Grams:      servings[i] * f.Nutrition.ServingSize,
			CostPerDay: cost,
		})
	}

	for _, n := range models.Nutrients() {
		info := n.Info()
		t := NutrientTotal{Nutrient: n, Label: info.Label, Unit: info.Unit}
		for i, f := range p.Foods {
			v, ok := f.NutrientPerServing(n).Value()
			if !ok {
				continue
			}
			t.Disclosed = true
			t.Amount += v * servings[i]
		}
		r.Totals = append(r.Totals, t)
	}

	r.Macros = Macros{
		ProteinGrams: math.Round(r.Total(models.Protein).Amount),
		FatGrams:     math.Round(r.Total(models.TotalFat).Amount),
		NetCarbGrams: math.Round(r.Total(models.NetCarbohydrate).Amount),
	}
	r.CalculatedCalories = proteinKcalPerGram*r.Macros.ProteinGrams +
		fatKcalPerGram*r.Macros.FatGrams +
		carbKcalPerGram*r.Macros.NetCarbGrams
	return r, nil
}
