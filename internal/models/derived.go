// internal/models/derived.go
package models

import "math"

// DollarsPerCalorie is the package price spread over the calories it holds.
func (f Food) DollarsPerCalorie() (float64, error) {
	if !(f.Nutrition.ServingSize > 0) {
		return 0, &ComputationError{Food: f.ID, Quantity: "dollars_per_calorie", Reason: "serving size is not positive"}
	}
	if !(f.Nutrition.Calories > 0) {
		return 0, &ComputationError{Food: f.ID, Quantity: "dollars_per_calorie", Reason: "calories per serving is not positive"}
	}
	servingsPerPackage := f.Cost.GramsPerPackage / f.Nutrition.ServingSize
	if !(servingsPerPackage > 0) {
		return 0, &ComputationError{Food: f.ID, Quantity: "dollars_per_calorie", Reason: "servings per package is not positive"}
	}
	centsPerServing := f.Cost.CentsPerPackage / servingsPerPackage
	centsPerCalorie := centsPerServing / f.Nutrition.Calories
	return checkFinite(f.ID, "dollars_per_calorie", centsPerCalorie/100.0)
}

// ServingsPerCalorie is 1/calories per serving.
func (f Food) ServingsPerCalorie() (float64, error) {
	if !(f.Nutrition.Calories > 0) {
		return 0, &ComputationError{Food: f.ID, Quantity: "servings_per_calorie", Reason: "calories per serving is not positive"}
	}
	return checkFinite(f.ID, "servings_per_calorie", 1/f.Nutrition.Calories)
}

// EffectiveCarbohydrate is the net carbohydrate per serving: total
// carbohydrate minus dietary fiber. Undisclosed fiber deducts nothing.
func (f Food) EffectiveCarbohydrate() float64 {
	return effectiveCarbohydrate(f.Nutrition)
}

// NutrientPerServing returns the label value of n for one serving.
func (f Food) NutrientPerServing(n Nutrient) Amount {
	return n.Info().perServing(f.Nutrition)
}

// NutrientPerCalorie rescales the per-serving value of n to one calorie.
// Undisclosed values stay Unknown.
func (f Food) NutrientPerCalorie(n Nutrient) (Amount, error) {
	v, ok := f.NutrientPerServing(n).Value()
	if !ok {
		return Unknown(), nil
	}
	spc, err := f.ServingsPerCalorie()
	if err != nil {
		return Unknown(), err
	}
	return Known(v * spc), nil
}

func effectiveCarbohydrate(n NutritionFacts) float64 {
	net := n.TotalCarbohydrate - n.DietaryFiber.OrZero()
	if net < 0 {
		return 0
	}
	return net
}

func checkFinite(id FoodID, quantity string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ComputationError{Food: id, Quantity: quantity, Reason: "result is not finite"}
	}
	return v, nil
}
