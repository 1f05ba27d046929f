package diet

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"

	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

var _ = Describe("Build", func() {
	var cheap, pricey models.Food

	BeforeEach(func() {
		cheap = testFood("cheap", 100, nil)
		pricey = testFood("pricey", 200, func(n *models.NutritionFacts) {
			n.VitaminD = models.Known(50)
		})
	})

	Context("with only the calorie budget", func() {
		It("should add one variable per food, the budget row and the cost objective", func() {
			p, err := Build([]models.Food{cheap, pricey}, DefaultScenario())
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Model.Variables).To(Equal([]string{"cheap", "pricey"}))
			Expect(p.Constraints).To(Equal([]string{CaloriesConstraint}))

			budget := p.Model.Constraints[0]
			Expect(budget.Sense).To(Equal(solver.Equal))
			Expect(budget.RHS).To(Equal(DefaultCalories))
			Expect(budget.Terms).To(HaveLen(2))

			c := p.Model.ObjectiveCoefficients()
			Expect(c[0]).To(BeNumerically("~", 0.005, 1e-15))
			Expect(c[1]).To(BeNumerically("~", 0.01, 1e-15))

			v, ok := p.Variable("pricey")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1))
		})

		It("should not share its food slice with the caller", func() {
			foods := []models.Food{cheap}
			p, err := Build(foods, DefaultScenario())
			Expect(err).NotTo(HaveOccurred())
			foods[0].Name = "changed"
			Expect(p.Foods[0].Name).To(Equal("Food cheap"))
		})
	})

	Context("with nutrient bounds", func() {
		It("should scale per-serving values to per-calorie coefficients", func() {
			sc := DefaultScenario()
			sc.MaxNetCarbs = Float(150)
			sc.MinFiber = Float(30)
			sc.MinDailyValues = map[models.Nutrient]float64{models.VitaminD: 100}

			p, err := Build([]models.Food{cheap, pricey}, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Constraints).To(Equal([]string{
				CaloriesConstraint, "max_net_carbohydrate", "min_dietary_fiber", "min_vitamin_d",
			}))

			carbs := p.Model.Constraints[1]
			Expect(carbs.Sense).To(Equal(solver.LessEqual))
			Expect(carbs.RHS).To(Equal(150.0))
			Expect(carbs.Terms[0].Coef).To(BeNumerically("~", 0.08, 1e-12))

			fiber := p.Model.Constraints[2]
			Expect(fiber.Sense).To(Equal(solver.GreaterEqual))
			Expect(fiber.Terms[1].Coef).To(BeNumerically("~", 0.04, 1e-12))
		})

		It("should leave undisclosed values out of the row", func() {
			sc := DefaultScenario()
			sc.MinDailyValues = map[models.Nutrient]float64{models.VitaminD: 100}

			p, err := Build([]models.Food{cheap, pricey}, sc)
			Expect(err).NotTo(HaveOccurred())
			row := p.Model.Constraints[1]
			Expect(row.Terms).To(HaveLen(1))
			Expect(row.Terms[0].Var).To(Equal(1))
			Expect(row.Terms[0].Coef).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("should accept generic limits in either direction", func() {
			sc := DefaultScenario()
			sc.Limits = []Limit{
				{Nutrient: models.Sodium, Direction: models.AtMost, Value: 2300},
				{Nutrient: models.Protein, Direction: models.AtLeast, Value: 120},
			}
			p, err := Build([]models.Food{cheap}, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Constraints).To(Equal([]string{CaloriesConstraint, "max_sodium", "min_protein"}))
			Expect(p.Model.Constraints[2].Sense).To(Equal(solver.GreaterEqual))
		})
	})

	Context("when the model cannot be built", func() {
		expectModelError := func(err error, constraint string) {
			var me *ModelError
			ExpectWithOffset(1, errors.As(err, &me)).To(BeTrue(), "got %v", err)
			ExpectWithOffset(1, me.Constraint).To(Equal(constraint))
		}

		It("should reject an empty food set", func() {
			_, err := Build(nil, DefaultScenario())
			expectModelError(err, "")
		})

		It("should reject duplicate identifiers", func() {
			_, err := Build([]models.Food{cheap, cheap}, DefaultScenario())
			var me *ModelError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(me.Food).To(Equal(models.FoodID("cheap")))
		})

		It("should reject a negative calorie budget", func() {
			sc := DefaultScenario()
			sc.Calories = -1
			_, err := Build([]models.Food{cheap}, sc)
			expectModelError(err, CaloriesConstraint)
		})

		It("should reject a floor on a nutrient no food discloses", func() {
			sc := DefaultScenario()
			sc.MinDailyValues = map[models.Nutrient]float64{models.VitaminD: 10}
			_, err := Build([]models.Food{cheap}, sc)
			expectModelError(err, "min_vitamin_d")
		})

		It("should reject a daily-value floor on a gram nutrient", func() {
			sc := DefaultScenario()
			sc.MinDailyValues = map[models.Nutrient]float64{models.Protein: 10}
			_, err := Build([]models.Food{cheap}, sc)
			expectModelError(err, "min_protein")
		})

		It("should reject the same bound given twice", func() {
			sc := DefaultScenario()
			sc.MaxNetCarbs = Float(50)
			sc.Limits = []Limit{{Nutrient: models.NetCarbohydrate, Direction: models.AtMost, Value: 60}}
			_, err := Build([]models.Food{cheap}, sc)
			expectModelError(err, "max_net_carbohydrate")
		})

		It("should reject a limit on calories", func() {
			sc := DefaultScenario()
			sc.Limits = []Limit{{Nutrient: models.Calories, Direction: models.AtMost, Value: 1500}}
			_, err := Build([]models.Food{cheap}, sc)
			expectModelError(err, "limits")
		})

		It("should propagate computation errors naming the food", func() {
			broken := cheap
			broken.ID = "broken"
			broken.Nutrition.Calories = 0
			_, err := Build([]models.Food{cheap, broken}, DefaultScenario())
			var ce *models.ComputationError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Food).To(Equal(models.FoodID("broken")))
		})
	})
})

var _ = Describe("Limit", func() {
	It("should decode a complete limit", func() {
		var l Limit
		Expect(json.Unmarshal([]byte(`{"nutrient":"sodium","direction":"<=","value":2300}`), &l)).To(Succeed())
		Expect(l).To(Equal(Limit{Nutrient: models.Sodium, Direction: models.AtMost, Value: 2300}))
	})

	It("should reject a limit without a nutrient instead of capping calories", func() {
		var l Limit
		err := json.Unmarshal([]byte(`{"direction":"max","value":1500}`), &l)
		Expect(err).To(MatchError(ContainSubstring("requires a nutrient")))
	})

	It("should reject a limit without a direction or value", func() {
		var l Limit
		Expect(json.Unmarshal([]byte(`{"nutrient":"protein","value":120}`), &l)).To(MatchError(ContainSubstring("requires a direction")))
		Expect(json.Unmarshal([]byte(`{"nutrient":"protein","direction":"min"}`), &l)).To(MatchError(ContainSubstring("requires a value")))
	})
})
