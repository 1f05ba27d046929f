// internal/models/nutrient.go
package models

import (
	"fmt"
	"strings"
)

// Nutrient enumerates every aggregated label value.
type Nutrient int

const (
	Calories Nutrient = iota
	TotalFat
	SaturatedFat
	TransFat
	Cholesterol
	Sodium
	TotalCarbohydrate
	NetCarbohydrate
	DietaryFiber
	TotalSugars
	AddedSugars
	Protein
	VitaminD
	Calcium
	Iron
	Potassium
	VitaminA
	VitaminC
	VitaminE
	VitaminK
	Thiamine
	Riboflavin
	Niacin
	VitaminB6
	Folate
	VitaminB12
	Biotin
	PantothenicAcid
	Phosphorus
	Iodine
	Magnesium
	Zinc
	Selenium
	Copper
	Manganese
	Chromium
	Molybdenum
	Chloride
	Choline

	nutrientCount
)

// Direction is the natural sense of a daily bound on a nutrient.
type Direction int

const (
	// AtMost bounds a nutrient from above (carbohydrates, sodium).
	AtMost Direction = iota
	// AtLeast bounds a nutrient from below (fiber, micronutrients).
	AtLeast
)

func (d Direction) String() string {
	if d == AtLeast {
		return ">="
	}
	return "<="
}

func (d Direction) MarshalText() ([]byte, error) {
	if d == AtLeast {
		return []byte("min"), nil
	}
	return []byte("max"), nil
}

// UnmarshalText accepts "min"/"max", "at_least"/"at_most" or ">="/"<=".
func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "min", "at_least", ">=":
		*d = AtLeast
	case "max", "at_most", "<=":
		*d = AtMost
	default:
		return fmt.Errorf("unknown bound direction %q", text)
	}
	return nil
}

// NutrientInfo is one row of the nutrient table.
type NutrientInfo struct {
	ID        Nutrient
	Key       string
	Label     string
	Unit      string
	Direction Direction

	perServing func(NutritionFacts) Amount
}

var nutrientTable = [nutrientCount]NutrientInfo{
	{Calories, "calories", "Calories", "kcal", AtMost, func(n NutritionFacts) Amount { return Known(n.Calories) }},
	{TotalFat, "total_fat", "Fat", "g", AtMost, func(n NutritionFacts) Amount { return Known(n.TotalFat) }},
	{SaturatedFat, "saturated_fat", "Saturated fat", "g", AtMost, func(n NutritionFacts) Amount { return Known(n.SaturatedFat) }},
	{TransFat, "trans_fat", "Trans fat", "g", AtMost, func(n NutritionFacts) Amount { return n.TransFat }},
	{Cholesterol, "cholesterol", "Cholesterol", "mg", AtMost, func(n NutritionFacts) Amount { return Known(n.Cholesterol) }},
	{Sodium, "sodium", "Sodium", "mg", AtMost, func(n NutritionFacts) Amount { return Known(n.Sodium) }},
	{TotalCarbohydrate, "total_carbohydrate", "Total carbohydrate", "g", AtMost, func(n NutritionFacts) Amount { return Known(n.TotalCarbohydrate) }},
	{NetCarbohydrate, "net_carbohydrate", "Net carbohydrate", "g", AtMost, func(n NutritionFacts) Amount { return Known(effectiveCarbohydrate(n)) }},
	{DietaryFiber, "dietary_fiber", "Fiber", "g", AtLeast, func(n NutritionFacts) Amount { return n.DietaryFiber }},
	{TotalSugars, "total_sugars", "Sugar", "g", AtMost, func(n NutritionFacts) Amount { return n.TotalSugars }},
	{AddedSugars, "added_sugars", "Added sugar", "g", AtMost, func(n NutritionFacts) Amount { return n.AddedSugars }},
	{Protein, "protein", "Protein", "g", AtLeast, func(n NutritionFacts) Amount { return Known(n.Protein) }},
	{VitaminD, "vitamin_d", "Vitamin D", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminD }},
	{Calcium, "calcium", "Calcium", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Calcium }},
	{Iron, "iron", "Iron", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Iron }},
	{Potassium, "potassium", "Potassium", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Potassium }},
	{VitaminA, "vitamin_a", "Vitamin A", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminA }},
	{VitaminC, "vitamin_c", "Vitamin C", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminC }},
	{VitaminE, "vitamin_e", "Vitamin E", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminE }},
	{VitaminK, "vitamin_k", "Vitamin K", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminK }},
	{Thiamine, "thiamine", "Thiamine", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Thiamine }},
	{Riboflavin, "riboflavin", "Riboflavin", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Riboflavin }},
	{Niacin, "niacin", "Niacin", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Niacin }},
	{VitaminB6, "vitamin_b6", "Vitamin B6", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminB6 }},
	{Folate, "folate", "Folate", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Folate }},
	{VitaminB12, "vitamin_b12", "Vitamin B12", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.VitaminB12 }},
	{Biotin, "biotin", "Biotin", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Biotin }},
	{PantothenicAcid, "pantothenic_acid", "Pantothenic acid", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.PantothenicAcid }},
	{Phosphorus, "phosphorus", "Phosphorus", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Phosphorus }},
	{Iodine, "iodine", "Iodine", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Iodine }},
	{Magnesium, "magnesium", "Magnesium", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Magnesium }},
	{Zinc, "zinc", "Zinc", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Zinc }},
	{Selenium, "selenium", "Selenium", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Selenium }},
	{Copper, "copper", "Copper", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Copper }},
	{Manganese, "manganese", "Manganese", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Manganese }},
	{Chromium, "chromium", "Chromium", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Chromium }},
	{Molybdenum, "molybdenum", "Molybdenum", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Molybdenum }},
	{Chloride, "chloride", "Chloride", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Chloride }},
	{Choline, "choline", "Choline", "%DV", AtLeast, func(n NutritionFacts) Amount { return n.Choline }},
}

func init() {
	for i, info := range nutrientTable {
		if info.ID != Nutrient(i) || info.perServing == nil {
			panic(fmt.Sprintf("models: nutrient table row %d is out of order", i))
		}
	}
}

// Nutrients returns every nutrient in table order.
func Nutrients() []Nutrient {
	out := make([]Nutrient, nutrientCount)
	for i := range out {
		out[i] = Nutrient(i)
	}
	return out
}

// Info returns the table row for n.
func (n Nutrient) Info() NutrientInfo {
	if n < 0 || n >= nutrientCount {
		return NutrientInfo{ID: n, Key: fmt.Sprintf("nutrient(%d)", int(n)), perServing: func(NutritionFacts) Amount { return Unknown() }}
	}
	return nutrientTable[n]
}

func (n Nutrient) String() string {
	return n.Info().Key
}

// PercentDailyValue reports whether the nutrient is labeled in %DV.
func (n Nutrient) PercentDailyValue() bool {
	return n.Info().Unit == "%DV"
}

// ParseNutrient resolves a table key such as "vitamin_d". Case and
// surrounding spaces are ignored, and "-" or " " may stand in for "_".
func ParseNutrient(key string) (Nutrient, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	for _, info := range nutrientTable {
		if info.Key == k {
			return info.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown nutrient %q", key)
}

func (n Nutrient) MarshalText() ([]byte, error) {
	if n < 0 || n >= nutrientCount {
		return nil, fmt.Errorf("unknown nutrient %d", int(n))
	}
	return []byte(n.String()), nil
}

func (n *Nutrient) UnmarshalText(text []byte) error {
	parsed, err := ParseNutrient(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
