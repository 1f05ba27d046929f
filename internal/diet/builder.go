// internal/diet/builder.go
package diet

import (
	"math"

	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

// CaloriesConstraint names the daily calorie equality.
const CaloriesConstraint = "calories"

// Program is a built diet model together with what is needed to read
// a solution back: variable i is the daily calories of Foods[i].
type Program struct {
	Scenario    Scenario
	Model       *solver.Model
	Foods       []models.Food
	Index       map[models.FoodID]int
	Constraints []string
}

// Variable returns the model variable of a food.
func (p *Program) Variable(id models.FoodID) (int, bool) {
	i, ok := p.Index[id]
	return i, ok
}

// Build assembles the linear program for one scenario. The foods slice
// is copied; the caller's records are never modified.
func Build(foods []models.Food, scenario Scenario) (*Program, error) {
	if len(foods) == 0 {
		return nil, &ModelError{Reason: "food set is empty"}
	}
	if math.IsNaN(scenario.Calories) || math.IsInf(scenario.Calories, 0) || scenario.Calories < 0 {
		return nil, &ModelError{Constraint: CaloriesConstraint, Reason: "calorie budget must be a finite, non-negative number"}
	}
	bounds, err := scenario.bounds()
	if err != nil {
		return nil, err
	}

	name := scenario.Name
	if name == "" {
		name = "diet"
	}
	p := &Program{
		Scenario: scenario,
		Model:    solver.NewModel(name),
		Foods:    make([]models.Food, len(foods)),
		Index:    make(map[models.FoodID]int, len(foods)),
	}
	copy(p.Foods, foods)

	spc := make([]float64, len(foods))
	budget := make([]solver.Term, 0, len(foods))
	for i, f := range p.Foods {
		if f.ID == "" {
			return nil, &ModelError{Food: models.FoodID(f.Name), Reason: "food has no identifier"}
		}
		if _, dup := p.Index[f.ID]; dup {
			return nil, &ModelError{Food: f.ID, Reason: "duplicate food identifier"}
		}
		dpc, err := f.DollarsPerCalorie()
		if err != nil {
			return nil, err
		}
		if spc[i], err = f.ServingsPerCalorie(); err != nil {
			return nil, err
		}

		v := p.Model.AddVariable(string(f.ID))
		p.Index[f.ID] = v
		p.Model.Objective = append(p.Model.Objective, solver.Term{Var: v, Coef: dpc})
		budget = append(budget, solver.Term{Var: v, Coef: 1})
	}

	p.add(solver.Constraint{
		Name:  CaloriesConstraint,
		Terms: budget,
		Sense: solver.Equal,
		RHS:   scenario.Calories,
	})

	for _, b := range bounds {
		con := solver.Constraint{Name: b.name, Sense: solver.LessEqual, RHS: b.value}
		if b.direction == models.AtLeast {
			con.Sense = solver.GreaterEqual
		}
		contributes := false
		for i, f := range p.Foods {
			// Undisclosed values are left out of the row entirely.
			v, ok := f.NutrientPerServing(b.nutrient).Value()
			if !ok {
				continue
			}
			if v > 0 {
				contributes = true
			}
			con.Terms = append(con.Terms, solver.Term{Var: i, Coef: v * spc[i]})
		}
		if con.Sense == solver.GreaterEqual && b.value > 0 && !contributes {
			return nil, &ModelError{
				Constraint: b.name,
				Reason:     "no food in the set provides " + b.nutrient.Info().Label,
			}
		}
		p.add(con)
	}

	if err := p.Model.Validate(); err != nil {
		return nil, &ModelError{Reason: err.Error()}
	}
	return p, nil
}

func (p *Program) add(c solver.Constraint) {
	p.Model.AddConstraint(c)
	p.Constraints = append(p.Constraints, c.Name)
}
