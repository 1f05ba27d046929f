// internal/diet/optimizer.go
package diet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"diet-optimizer/internal/logging"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/solver"
)

// Recorder receives one observation per optimization run. outcome is a
// solver status name, or "error" when the run failed.
type Recorder interface {
	ObserveRun(backend, outcome string, elapsed time.Duration)
}

// Outcome is the terminal result of one scenario. Report is set only
// when Status is optimal.
type Outcome struct {
	Scenario    Scenario      `json:"scenario"`
	Status      solver.Status `json:"status"`
	Backend     string        `json:"backend"`
	Constraints []string      `json:"constraints"`
	Report      *Report       `json:"report,omitempty"`
}

// Optimizer runs build, solve and interpret for a scenario. The zero
// Logger discards output and a nil Recorder records nothing.
type Optimizer struct {
	Solver   solver.Solver
	Logger   logr.Logger
	Recorder Recorder
	// Parallelism caps concurrent runs in Compare; 0 means unlimited.
	Parallelism int
}

func NewOptimizer(s solver.Solver, logger logr.Logger, rec Recorder) *Optimizer {
	return &Optimizer{Solver: s, Logger: logger, Recorder: rec}
}

// Run optimizes one scenario. Infeasible and unbounded models come back
// as an Outcome; errors are model, data or solver failures.
func (o *Optimizer) Run(ctx context.Context, foods []models.Food, scenario Scenario) (*Outcome, error) {
	start := time.Now()
	out, err := o.run(ctx, foods, scenario)
	if o.Recorder != nil {
		status := "error"
		if err == nil {
			status = out.Status.String()
		}
		o.Recorder.ObserveRun(o.backendName(), status, time.Since(start))
	}
	return out, err
}

func (o *Optimizer) run(ctx context.Context, foods []models.Food, scenario Scenario) (*Outcome, error) {
	if o.Solver == nil {
		return nil, &solver.UnavailableError{Backend: "none", Err: fmt.Errorf("no solver configured")}
	}
	log := o.Logger.WithValues("scenario", scenario.Name, "backend", o.Solver.Name())

	p, err := Build(foods, scenario)
	if err != nil {
		return nil, err
	}
	log.V(logging.DEBUG).Info("Built diet model",
		"foods", len(p.Foods),
		"constraints", p.Constraints)

	res, err := o.Solver.Solve(ctx, p.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to solve scenario %q: %w", scenario.Name, err)
	}

	out := &Outcome{
		Scenario:    scenario,
		Status:      res.Status,
		Backend:     res.Backend,
		Constraints: p.Constraints,
	}
	if !res.IsOptimal() {
		log.Info("Scenario has no optimal diet", "status", res.Status.String(), "constraints", p.Constraints)
		return out, nil
	}

	out.Report, err = Interpret(p, res)
	if err != nil {
		return nil, fmt.Errorf("failed to interpret solution: %w", err)
	}
	log.Info("Optimized diet",
		"costPerDay", out.Report.CostPerDay,
		"calories", out.Report.Calories,
		"items", len(out.Report.Items))
	for _, it := range out.Report.Items {
		log.V(logging.TRACE).Info("Allocation", "food", it.Food, "calories", it.Calories, "grams", it.Grams)
	}
	return out, nil
}

// Compare runs every scenario concurrently over the same foods. Each run
// builds its own model. Outcomes are returned in scenario order; the
// first failing scenario cancels the rest.
func (o *Optimizer) Compare(ctx context.Context, foods []models.Food, scenarios []Scenario) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	if o.Parallelism > 0 {
		g.SetLimit(o.Parallelism)
	}
	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			out, err := o.Run(gctx, foods, sc)
			if err != nil {
				return fmt.Errorf("scenario %d (%s): %w", i, sc.Name, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (o *Optimizer) backendName() string {
	if o.Solver == nil {
		return "none"
	}
	return o.Solver.Name()
}
