// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"diet-optimizer/internal/diet"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

// SummaryNutrients are the totals printed for every optimal diet.
var SummaryNutrients = []models.Nutrient{
	models.Calories,
	models.TotalFat,
	models.Cholesterol,
	models.Sodium,
	models.NetCarbohydrate,
	models.DietaryFiber,
	models.TotalSugars,
	models.Protein,
	models.VitaminD,
}

// Write prints an outcome as plain text. Non-optimal outcomes state
// their status and list the constraints that were in force.
func Write(w io.Writer, out *diet.Outcome) error {
	ew := &errWriter{w: w}
	name := out.Scenario.Name
	if name == "" {
		name = "unnamed"
	}
	ew.printf("Scenario: %s (%s, %s)\n", name, out.Status, out.Backend)

	if out.Status != solver.StatusOptimal || out.Report == nil {
		switch out.Status {
		case solver.StatusInfeasible:
			ew.printf("No diet satisfies all constraints in force:\n")
		case solver.StatusUnbounded:
			ew.printf("Daily cost has no lower bound under the constraints in force:\n")
		default:
			ew.printf("No optimal diet (%s) under the constraints in force:\n", out.Status)
		}
		for _, c := range out.Constraints {
			ew.printf("  - %s\n", c)
		}
		return ew.err
	}

	r := out.Report
	ew.printf("Cost per day: %s\n\n", Dollars(r.CostPerDay))

	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Food\tCalories\tServings\tGrams\tCost/day\t")
	for _, it := range r.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			it.Name,
			humanize.CommafWithDigits(math.Round(it.Calories), 0),
			humanize.FtoaWithDigits(it.Servings, 2),
			humanize.CommafWithDigits(it.Grams, 1),
			Dollars(it.CostPerDay))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ew.printf("\n")
	for _, n := range SummaryNutrients {
		ew.printf("%s\n", Line(r.Total(n)))
	}
	ew.printf("Calculated calories: %s kcal per day\n", humanize.CommafWithDigits(r.CalculatedCalories, 0))
	return ew.err
}

// Line renders one nutrient total as "label: value per day".
func Line(t diet.NutrientTotal) string {
	var line string
	value := humanize.CommafWithDigits(t.Amount, 1)
	if t.Unit == "%DV" {
		line = fmt.Sprintf("%s: %s%% DV per day", t.Label, value)
	} else {
		line = fmt.Sprintf("%s: %s %s per day", t.Label, value, t.Unit)
	}
	if !t.Disclosed {
		line += " (not disclosed)"
	}
	return line
}

// Dollars formats an amount as $1,234.56.
func Dollars(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
