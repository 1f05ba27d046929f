// internal/catalog/builtin.go
package catalog

import (
	"fmt"

	"diet-optimizer/internal/models"
)

func mustFood(name string, id models.FoodID, cost models.Cost, facts models.NutritionFacts) models.Food {
	f, err := models.NewFood(name, id, cost, facts)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in food %q: %v", id, err))
	}
	return f
}

// Soylent is Soylent Original powder v1.9, $123.00 for 14 pouches.
func Soylent() models.Food {
	return mustFood(
		"Soylent Original Naturally Flavored Powdered Food Complete Meal Formula v1.9",
		"Soylent 1.9",
		models.Cost{
			GramsPerPackage: 450.0,
			CentsPerPackage: 12300.0 / 14,
		},
		models.NutritionFacts{
			ServingSize:       90.0,
			Calories:          400.0,
			TotalFat:          19.0,
			SaturatedFat:      2.0,
			TransFat:          models.Known(0),
			Cholesterol:       0.0,
			Sodium:            320.0,
			TotalCarbohydrate: 42.0,
			DietaryFiber:      models.Known(6.0),
			TotalSugars:       models.Known(16.0),
			AddedSugars:       models.Known(15.0),
			Protein:           20.0,
			VitaminD:          models.Known(20),
			Calcium:           models.Known(20),
			Iron:              models.Known(20),
			Potassium:         models.Known(20),
			VitaminA:          models.Known(20),
			VitaminC:          models.Known(20),
			VitaminE:          models.Known(20),
			VitaminK:          models.Known(20),
			Thiamine:          models.Known(20),
			Riboflavin:        models.Known(20),
			Niacin:            models.Known(20),
			VitaminB6:         models.Known(20),
			Folate:            models.Known(20),
			VitaminB12:        models.Known(20),
			Biotin:            models.Known(20),
			PantothenicAcid:   models.Known(20),
			Phosphorus:        models.Known(20),
			Iodine:            models.Known(20),
			Magnesium:         models.Known(20),
			Zinc:              models.Known(20),
			Selenium:          models.Known(20),
			Copper:            models.Known(20),
			Manganese:         models.Known(20),
			Chromium:          models.Known(20),
			Molybdenum:        models.Known(20),
			Chloride:          models.Known(20),
			Choline:           models.Known(20),
		},
	)
}

// HLTHCode is HLTH Code Complete Meal, creamy vanilla, $99.90 for two bags.
func HLTHCode() models.Food {
	return mustFood(
		"HLTH Code Complete Meal Nutritional Shake made with Real Ingredients Creamy Vanilla",
		"HLTH Vanilla",
		models.Cost{
			GramsPerPackage: 1170.0,
			CentsPerPackage: 9990.0 / 2,
		},
		models.NutritionFacts{
			ServingSize:       78.0,
			Calories:          400.0,
			TotalFat:          27.0,
			SaturatedFat:      17.0,
			TransFat:          models.Known(0.1),
			Cholesterol:       45.0,
			Sodium:            163.0,
			TotalCarbohydrate: 13.0,
			DietaryFiber:      models.Known(9.0),
			TotalSugars:       models.Known(2.0),
			AddedSugars:       models.Known(0.0),
			Protein:           27.0,
			VitaminD:          models.Known(50),
			Calcium:           models.Known(31),
			Iron:              models.Known(50),
			Potassium:         models.Known(9),
			VitaminA:          models.Known(50),
			VitaminC:          models.Known(50),
			VitaminE:          models.Known(50),
			VitaminK:          models.Known(50),
			Thiamine:          models.Known(50),
			Riboflavin:        models.Known(50),
			Niacin:            models.Known(50),
			VitaminB6:         models.Known(50),
			Folate:            models.Known(50),
			VitaminB12:        models.Known(50),
			Biotin:            models.Known(50),
			PantothenicAcid:   models.Known(50),
			Phosphorus:        models.Known(50),
			Iodine:            models.Known(50),
			Magnesium:         models.Known(50),
			Zinc:              models.Known(50),
			Selenium:          models.Known(50),
			Copper:            models.Known(50),
			Manganese:         models.Known(50),
			Chromium:          models.Known(50),
			Molybdenum:        models.Known(50),
		},
	)
}

// GoldStandardWhey is Optimum Nutrition Gold Standard whey, $68.99 for 5 lb.
func GoldStandardWhey() models.Food {
	return mustFood(
		"Optimum Nutrition Gold Standard 100% Whey Vanilla Ice Cream Protein Powder Drink Mix",
		"Gold Standard Whey",
		models.Cost{
			GramsPerPackage: 2263.0,
			CentsPerPackage: 6899.0,
		},
		models.NutritionFacts{
			ServingSize:       31.0,
			Calories:          120.0,
			TotalFat:          1.5,
			SaturatedFat:      1,
			Cholesterol:       55.0,
			Sodium:            130.0,
			TotalCarbohydrate: 4.0,
			TotalSugars:       models.Known(1.0),
			Protein:           24.0,
			Calcium:           models.Known(10),
			Potassium:         models.Known(4),
		},
	)
}

// Builtin returns the default catalog. Each call builds a fresh value.
func Builtin() *Catalog {
	c, err := New(Soylent(), HLTHCode(), GoldStandardWhey())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog: %v", err))
	}
	return c
}
