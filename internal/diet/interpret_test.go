package diet

import (
	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"

	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

var _ = Describe("Interpret", func() {
	var (
		cheap  models.Food
		pricey models.Food
	)

	BeforeEach(func() {
		cheap = testFood("cheap", 100, nil)
		pricey = testFood("pricey", 200, func(n *models.NutritionFacts) {
			n.VitaminD = models.Known(50)
		})
	})

	build := func(foods ...models.Food) *Program {
		p, err := Build(foods, DefaultScenario())
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return p
	}

	It("should omit foods that round to zero calories but keep them in totals", func() {
		p := build(cheap, pricey)
		res := &solver.Result{Status: solver.StatusOptimal, Values: []float64{1999.6, 0.4}}

		r, err := Interpret(p, res)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Items).To(HaveLen(1))
		Expect(r.Items[0].Food).To(Equal(models.FoodID("cheap")))
		Expect(r.Calories).To(BeNumerically("~", 2000, 1e-9))
		Expect(r.Total(models.DietaryFiber).Amount).To(BeNumerically("~", 80, 1e-9))

		vitD := r.Total(models.VitaminD)
		Expect(vitD.Disclosed).To(BeTrue())
		Expect(vitD.Amount).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("should count undisclosed nutrients as zero", func() {
		p := build(cheap)
		r, err := Interpret(p, &solver.Result{Status: solver.StatusOptimal, Values: []float64{2000}})
		Expect(err).NotTo(HaveOccurred())

		vitD := r.Total(models.VitaminD)
		Expect(vitD.Disclosed).To(BeFalse())
		Expect(vitD.Amount).To(BeZero())
		Expect(vitD.Label).To(Equal("Vitamin D"))
		Expect(r.Totals).To(HaveLen(len(models.Nutrients())))
	})

	It("should compute calculated calories from whole-gram macros", func() {
		f := testFood("macro", 100, func(n *models.NutritionFacts) {
			n.Protein = 8.3
			n.TotalFat = 3.33
		})
		r, err := Interpret(build(f), &solver.Result{Status: solver.StatusOptimal, Values: []float64{2000}})
		Expect(err).NotTo(HaveOccurred())

		// 20 servings: 166 g protein, 66.6 g fat, 160 g net carbohydrate.
		Expect(r.Macros).To(Equal(Macros{ProteinGrams: 166, FatGrams: 67, NetCarbGrams: 160}))
		Expect(r.CalculatedCalories).To(Equal(4*166.0 + 9*67.0 + 4*160.0))
	})

	It("should refuse results that are not optimal", func() {
		p := build(cheap)
		_, err := Interpret(p, &solver.Result{Status: solver.StatusInfeasible})
		Expect(err).To(HaveOccurred())

		_, err = Interpret(p, &solver.Result{Status: solver.StatusOptimal, Values: []float64{1, 2}})
		Expect(err).To(HaveOccurred())
	})
})
