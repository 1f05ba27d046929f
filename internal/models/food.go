// internal/models/food.go
package models

// FoodID is the short identifier that addresses a food's decision variable.
type FoodID string

// Cost is the price of one package of a food.
type Cost struct {
	CentsPerPackage float64 `json:"cents_per_package" yaml:"cents_per_package"`
	GramsPerPackage float64 `json:"grams_per_package" yaml:"grams_per_package"`
}

// NutritionFacts holds per-serving label values. Masses are grams except
// cholesterol and sodium (milligrams). Micronutrients are percent of the
// daily value for a 2000-calorie diet, so 0-100% is 0.0-100.0.
type NutritionFacts struct {
	ServingSize       float64 `json:"serving_size" yaml:"serving_size"`
	Calories          float64 `json:"calories" yaml:"calories"`
	TotalFat          float64 `json:"total_fat" yaml:"total_fat"`
	SaturatedFat      float64 `json:"saturated_fat" yaml:"saturated_fat"`
	TransFat          Amount  `json:"trans_fat" yaml:"trans_fat"`
	Cholesterol       float64 `json:"cholesterol" yaml:"cholesterol"`
	Sodium            float64 `json:"sodium" yaml:"sodium"`
	TotalCarbohydrate float64 `json:"total_carbohydrate" yaml:"total_carbohydrate"`
	DietaryFiber      Amount  `json:"dietary_fiber" yaml:"dietary_fiber"`
	TotalSugars       Amount  `json:"total_sugars" yaml:"total_sugars"`
	AddedSugars       Amount  `json:"added_sugars" yaml:"added_sugars"`
	Protein           float64 `json:"protein" yaml:"protein"`

	VitaminD        Amount `json:"vitamin_d" yaml:"vitamin_d"`
	Calcium         Amount `json:"calcium" yaml:"calcium"`
	Iron            Amount `json:"iron" yaml:"iron"`
	Potassium       Amount `json:"potassium" yaml:"potassium"`
	VitaminA        Amount `json:"vitamin_a" yaml:"vitamin_a"`
	VitaminC        Amount `json:"vitamin_c" yaml:"vitamin_c"`
	VitaminE        Amount `json:"vitamin_e" yaml:"vitamin_e"`
	VitaminK        Amount `json:"vitamin_k" yaml:"vitamin_k"`
	Thiamine        Amount `json:"thiamine" yaml:"thiamine"`
	Riboflavin      Amount `json:"riboflavin" yaml:"riboflavin"`
	Niacin          Amount `json:"niacin" yaml:"niacin"`
	VitaminB6       Amount `json:"vitamin_b6" yaml:"vitamin_b6"`
	Folate          Amount `json:"folate" yaml:"folate"`
	VitaminB12      Amount `json:"vitamin_b12" yaml:"vitamin_b12"`
	Biotin          Amount `json:"biotin" yaml:"biotin"`
	PantothenicAcid Amount `json:"pantothenic_acid" yaml:"pantothenic_acid"`
	Phosphorus      Amount `json:"phosphorus" yaml:"phosphorus"`
	Iodine          Amount `json:"iodine" yaml:"iodine"`
	Magnesium       Amount `json:"magnesium" yaml:"magnesium"`
	Zinc            Amount `json:"zinc" yaml:"zinc"`
	Selenium        Amount `json:"selenium" yaml:"selenium"`
	Copper          Amount `json:"copper" yaml:"copper"`
	Manganese       Amount `json:"manganese" yaml:"manganese"`
	Chromium        Amount `json:"chromium" yaml:"chromium"`
	Molybdenum      Amount `json:"molybdenum" yaml:"molybdenum"`
	Chloride        Amount `json:"chloride" yaml:"chloride"`
	Choline         Amount `json:"choline" yaml:"choline"`
}

// Food is read-only reference data. Construct it with NewFood so the
// record is validated before it reaches a model.
type Food struct {
	Name      string         `json:"name" yaml:"name"`
	ID        FoodID         `json:"short_name" yaml:"short_name"`
	Cost      Cost           `json:"cost" yaml:"cost"`
	Nutrition NutritionFacts `json:"nutrition_facts" yaml:"nutrition_facts"`
}

// NewFood validates the record and returns it.
func NewFood(name string, id FoodID, cost Cost, facts NutritionFacts) (Food, error) {
	f := Food{
		Name:      name,
		ID:        id,
		Cost:      cost,
		Nutrition: facts,
	}
	if err := f.Validate(); err != nil {
		return Food{}, err
	}
	return f, nil
}

// Validate reports the first malformed field as a *DataError.
func (f Food) Validate() error {
	if f.ID == "" {
		return &DataError{Food: FoodID(f.Name), Field: "short_name", Reason: "is required"}
	}
	if f.Name == "" {
		return &DataError{Food: f.ID, Field: "name", Reason: "is required"}
	}

	positive := []struct {
		field string
		value float64
	}{
		{"cost.cents_per_package", f.Cost.CentsPerPackage},
		{"cost.grams_per_package", f.Cost.GramsPerPackage},
		{"nutrition_facts.serving_size", f.Nutrition.ServingSize},
		{"nutrition_facts.calories", f.Nutrition.Calories},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return &DataError{Food: f.ID, Field: p.field, Reason: "must be positive"}
		}
	}

	for _, info := range nutrientTable {
		if info.ID == NetCarbohydrate {
			continue
		}
		if v, ok := info.perServing(f.Nutrition).Value(); ok && v < 0 {
			return &DataError{Food: f.ID, Field: "nutrition_facts." + info.Key, Reason: "must not be negative"}
		}
	}
	return nil
}
