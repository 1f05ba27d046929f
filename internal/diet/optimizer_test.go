package diet

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2/dsl/core"
	. "github.com/onsi/gomega"

	"diet-optimizer/internal/logging"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *fakeRecorder) ObserveRun(backend, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, backend+"/"+outcome)
}

type unavailableSolver struct{}

func (unavailableSolver) Name() string { return "_mock_missing" }
func (unavailableSolver) Available() error {
	return &solver.UnavailableError{Backend: "_mock_missing"}
}
func (unavailableSolver) Solve(context.Context, *solver.Model) (*solver.Result, error) {
	return nil, &solver.UnavailableError{Backend: "_mock_missing"}
}

var _ = Describe("Optimizer", func() {
	var (
		ctx      context.Context
		rec      *fakeRecorder
		opt      *Optimizer
		cheap    models.Food
		pricey   models.Food
		sumOfCal = func(r *Report) float64 {
			total := 0.0
			for _, it := range r.Items {
				total += it.Calories
			}
			return total
		}
	)

	BeforeEach(func() {
		ctx = context.Background()
		rec = &fakeRecorder{}
		opt = NewOptimizer(solver.NewSimplex(0), logging.NewTestLogger(), rec)
		cheap = testFood("cheap", 100, nil)
		pricey = testFood("pricey", 200, func(n *models.NutritionFacts) {
			n.VitaminD = models.Known(50)
		})
	})

	Context("with a single food", func() {
		It("should cost exactly what the package price implies", func() {
			// $1.00 per 100 g, 50 g servings of 100 kcal: $0.005/kcal.
			out, err := opt.Run(ctx, []models.Food{cheap}, DefaultScenario())
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Status).To(Equal(solver.StatusOptimal))
			Expect(out.Report.CostPerDay).To(BeNumerically("~", 10.0, 1e-9))
			Expect(out.Report.Items).To(HaveLen(1))

			item := out.Report.Items[0]
			Expect(item.Calories).To(BeNumerically("~", 2000, 1e-6))
			Expect(item.Servings).To(BeNumerically("~", 20, 1e-9))
			Expect(item.Grams).To(BeNumerically("~", 1000, 1e-6))
			Expect(rec.outcomes).To(Equal([]string{"simplex/optimal"}))
		})
	})

	Context("with a dominated food", func() {
		It("should give every calorie to the cheaper food", func() {
			out, err := opt.Run(ctx, []models.Food{pricey, cheap}, DefaultScenario())
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Report.Items).To(HaveLen(1))
			Expect(out.Report.Items[0].Food).To(Equal(models.FoodID("cheap")))
			Expect(out.Report.Calories).To(BeNumerically("~", DefaultCalories, 1e-6))
		})
	})

	Context("with a vitamin D floor", func() {
		It("should buy just enough of the fortified food and meet the budget exactly", func() {
			sc := DefaultScenario()
			sc.MinDailyValues = map[models.Nutrient]float64{models.VitaminD: 100}

			out, err := opt.Run(ctx, []models.Food{cheap, pricey}, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Status).To(Equal(solver.StatusOptimal))
			Expect(out.Report.CostPerDay).To(BeNumerically("~", 11.0, 1e-6))
			Expect(out.Report.Total(models.VitaminD).Amount).To(BeNumerically(">=", 100-1e-6))
			Expect(sumOfCal(out.Report)).To(BeNumerically("~", DefaultCalories, 1e-6))
		})
	})

	Context("with a bound that does not bind", func() {
		It("should leave the optimal cost unchanged", func() {
			foods := []models.Food{cheap, pricey}
			base, err := opt.Run(ctx, foods, DefaultScenario())
			Expect(err).NotTo(HaveOccurred())

			sc := DefaultScenario()
			sc.MaxNetCarbs = Float(10000)
			sc.MinFiber = Float(0)
			bounded, err := opt.Run(ctx, foods, sc)
			Expect(err).NotTo(HaveOccurred())

			Expect(bounded.Constraints).To(HaveLen(3))
			Expect(bounded.Report.CostPerDay).To(BeNumerically("~", base.Report.CostPerDay, 1e-9))
		})
	})

	Context("with a zero calorie budget", func() {
		It("should be optimal at zero cost with nothing allocated", func() {
			sc := DefaultScenario()
			sc.Calories = 0
			out, err := opt.Run(ctx, []models.Food{cheap, pricey}, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Status).To(Equal(solver.StatusOptimal))
			Expect(out.Report.CostPerDay).To(BeNumerically("~", 0, 1e-12))
			Expect(out.Report.Items).To(BeEmpty())
		})
	})

	Context("with conflicting bounds", func() {
		It("should report infeasibility as a status with the constraints in force", func() {
			sc := DefaultScenario()
			sc.MaxNetCarbs = Float(0)
			out, err := opt.Run(ctx, []models.Food{cheap, pricey}, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Status).To(Equal(solver.StatusInfeasible))
			Expect(out.Report).To(BeNil())
			Expect(out.Constraints).To(Equal([]string{CaloriesConstraint, "max_net_carbohydrate"}))
			Expect(rec.outcomes).To(Equal([]string{"simplex/infeasible"}))
		})
	})

	Context("when the model cannot be built", func() {
		It("should fail before solving", func() {
			sc := DefaultScenario()
			sc.MinDailyValues = map[models.Nutrient]float64{models.Iron: 100}
			_, err := opt.Run(ctx, []models.Food{cheap, pricey}, sc)
			var me *ModelError
			Expect(errors.As(err, &me)).To(BeTrue())
			Expect(rec.outcomes).To(Equal([]string{"simplex/error"}))
		})
	})

	Context("when the backend is missing", func() {
		It("should surface the unavailability distinctly", func() {
			opt.Solver = unavailableSolver{}
			_, err := opt.Run(ctx, []models.Food{cheap}, DefaultScenario())
			Expect(errors.Is(err, solver.ErrUnavailable)).To(BeTrue())
		})
	})

	Describe("Compare", func() {
		It("should return one outcome per scenario in order", func() {
			low := DefaultScenario()
			low.Name = "low"
			low.Calories = 1000
			strict := DefaultScenario()
			strict.Name = "strict"
			strict.MaxNetCarbs = Float(0)

			opt.Parallelism = 2
			outs, err := opt.Compare(ctx, []models.Food{cheap, pricey}, []Scenario{DefaultScenario(), low, strict})
			Expect(err).NotTo(HaveOccurred())
			Expect(outs).To(HaveLen(3))
			Expect(outs[0].Report.CostPerDay).To(BeNumerically("~", 10, 1e-9))
			Expect(outs[1].Report.CostPerDay).To(BeNumerically("~", 5, 1e-9))
			Expect(outs[2].Status).To(Equal(solver.StatusInfeasible))
			Expect(rec.outcomes).To(HaveLen(3))
		})

		It("should fail when any scenario fails", func() {
			bad := DefaultScenario()
			bad.Calories = -5
			_, err := opt.Compare(ctx, []models.Food{cheap}, []Scenario{DefaultScenario(), bad})
			var me *ModelError
			Expect(errors.As(err, &me)).To(BeTrue())
		})
	})
})
