// internal/server/tools.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"diet-optimizer/internal/diet"
	"diet-optimizer/internal/logging"
	"diet-optimizer/internal/models"
	"diet-optimizer/internal/report"
)

type toolHandler func(context.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// ScenarioParams overrides the server's default scenario. Omitted
// fields keep their defaults.
type ScenarioParams struct {
	Name           string             `json:"name,omitempty" description:"Scenario name"`
	Calories       *float64           `json:"calories,omitempty" description:"Daily calorie budget (kcal)"`
	MaxNetCarbs    *float64           `json:"max_net_carbs,omitempty" description:"Maximum net carbohydrate per day (g)"`
	MinFiber       *float64           `json:"min_fiber,omitempty" description:"Minimum dietary fiber per day (g)"`
	MinVitaminD    *float64           `json:"min_vitamin_d,omitempty" description:"Minimum vitamin D per day (%DV)"`
	MinDailyValues map[string]float64 `json:"min_daily_values,omitempty" description:"Minimum daily values by nutrient key (%DV)"`
	Limits         []diet.Limit       `json:"limits,omitempty" description:"Extra bounds: nutrient, direction (min or max), value"`
}

type OptimizeDietParams struct {
	Scenario ScenarioParams `json:"scenario,omitempty" description:"Daily targets"`
	Foods    []string       `json:"foods,omitempty" description:"Short names of the foods to use (defaults to all)"`
	Backend  string         `json:"backend,omitempty" description:"LP backend (defaults to the configured one)"`
	Save     bool           `json:"save,omitempty" description:"Store the run in the history database"`
}

type CompareScenariosParams struct {
	Scenarios []ScenarioParams `json:"scenarios" description:"Scenarios to optimize side by side"`
	Foods     []string         `json:"foods,omitempty" description:"Short names of the foods to use (defaults to all)"`
	Backend   string           `json:"backend,omitempty" description:"LP backend (defaults to the configured one)"`
}

type GetRunsParams struct {
	Since string `json:"since,omitempty" description:"Earliest run time (RFC3339 or YYYY-MM-DD)"`
	Until string `json:"until,omitempty" description:"Latest run time (RFC3339 or YYYY-MM-DD)"`
	Limit int    `json:"limit,omitempty" description:"Maximum number of runs to return"`
}

// OptimizeResult is the optimize_diet payload.
type OptimizeResult struct {
	RunID   string        `json:"run_id,omitempty"`
	Cached  bool          `json:"cached"`
	Outcome *diet.Outcome `json:"outcome"`
	Summary string        `json:"summary"`
}

// FoodInfo is one list_foods entry.
type FoodInfo struct {
	models.Food
	DollarsPerCalorie float64 `json:"dollars_per_calorie"`
}

// ToolInfo describes a tool for GET /tools.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var toolDescriptions = map[string]string{
	"optimize_diet":     "Find the cheapest mix of foods that meets a daily scenario",
	"compare_scenarios": "Optimize several scenarios over the same foods",
	"list_foods":        "List the available foods with their cost per calorie",
	"list_solvers":      "List LP backends and whether they can run",
	"get_runs":          "List stored optimization runs",
}

// paramError marks a bad tool argument.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return "invalid parameters: " + e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// extractParams converts the request arguments into target
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return &paramError{err: fmt.Errorf("failed to marshal arguments: %w", err)}
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return &paramError{err: fmt.Errorf("failed to unmarshal parameters: %w", err)}
	}

	return nil
}

func (s *DietServer) handleOptimizeDiet(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params OptimizeDietParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	scenario, err := params.Scenario.apply(s.config.Scenario)
	if err != nil {
		return nil, err
	}
	foods, err := s.selectFoods(params.Foods)
	if err != nil {
		return nil, err
	}
	opt, err := s.optimizer(params.Backend)
	if err != nil {
		return nil, err
	}

	key := cacheKey(opt.Solver.Name(), scenario, foods)
	result := &OptimizeResult{}
	if s.cache != nil {
		if out, ok := s.cache.Get(key); ok {
			s.metrics.CacheHit()
			hit := *out
			hit.Scenario = scenario
			result.Cached = true
			result.Outcome = &hit
		} else {
			s.metrics.CacheMiss()
		}
	}
	if result.Outcome == nil {
		out, err := opt.Run(ctx, foods, scenario)
		if err != nil {
			return nil, err
		}
		result.Outcome = out
		if s.cache != nil {
			s.cache.Add(key, out)
		}
	}

	if params.Save {
		run, err := result.Outcome.Record(time.Now())
		if err != nil {
			return nil, err
		}
		if err := s.storage.SaveRun(run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		s.metrics.RunStored()
		result.RunID = run.ID
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, result.Outcome); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	result.Summary = buf.String()

	return s.createJSONResponse(result)
}

func (s *DietServer) handleCompareScenarios(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params CompareScenariosParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if len(params.Scenarios) == 0 {
		return nil, invalidParams("at least one scenario is required")
	}

	scenarios := make([]diet.Scenario, len(params.Scenarios))
	for i, p := range params.Scenarios {
		sc, err := p.apply(s.config.Scenario)
		if err != nil {
			return nil, err
		}
		if p.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		scenarios[i] = sc
	}
	foods, err := s.selectFoods(params.Foods)
	if err != nil {
		return nil, err
	}
	opt, err := s.optimizer(params.Backend)
	if err != nil {
		return nil, err
	}

	outcomes, err := opt.Compare(ctx, foods, scenarios)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(outcomes)
}

func (s *DietServer) handleListFoods(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	foods := s.catalog.Foods()
	out := make([]FoodInfo, 0, len(foods))
	for _, f := range foods {
		dpc, err := f.DollarsPerCalorie()
		if err != nil {
			return nil, err
		}
		out = append(out, FoodInfo{Food: f, DollarsPerCalorie: dpc})
	}
	return s.createJSONResponse(out)
}

func (s *DietServer) handleListSolvers(_ context.Context, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	return s.createJSONResponse(s.registry.Discover())
}

func (s *DietServer) handleGetRuns(_ context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetRunsParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	since, err := parseTime(params.Since, false)
	if err != nil {
		return nil, invalidParams("since: %v", err)
	}
	until, err := parseTime(params.Until, true)
	if err != nil {
		return nil, invalidParams("until: %v", err)
	}

	runs, err := s.storage.GetRuns(since, until, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve runs: %w", err)
	}
	if runs == nil {
		runs = []*models.Run{}
	}

	return s.createJSONResponse(runs)
}

func (s *DietServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, ToolInfo{Name: name, Description: toolDescriptions[name]})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.log.Error(err, "Failed to encode tool list")
	}
}

func (s *DietServer) registerTools() {
	s.tools = map[string]toolHandler{
		"optimize_diet":     s.handleOptimizeDiet,
		"compare_scenarios": s.handleCompareScenarios,
		"list_foods":        s.handleListFoods,
		"list_solvers":      s.handleListSolvers,
		"get_runs":          s.handleGetRuns,
	}
	for name := range s.tools {
		s.log.V(logging.DEBUG).Info("Registered tool", "tool", name)
	}
}

func (s *DietServer) optimizer(backend string) (*diet.Optimizer, error) {
	if backend == "" {
		backend = s.config.Backend
	}
	sv, err := s.registry.Get(backend)
	if err != nil {
		return nil, err
	}
	return diet.NewOptimizer(sv, s.log, s.metrics), nil
}

func (s *DietServer) selectFoods(ids []string) ([]models.Food, error) {
	foodIDs := make([]models.FoodID, len(ids))
	for i, id := range ids {
		foodIDs[i] = models.FoodID(id)
	}
	foods, err := s.catalog.Select(foodIDs...)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return foods, nil
}

// apply overlays the params on base. base is not modified.
func (p ScenarioParams) apply(base diet.Scenario) (diet.Scenario, error) {
	sc := base
	if p.Name != "" {
		sc.Name = p.Name
	}
	if p.Calories != nil {
		sc.Calories = *p.Calories
	}
	if p.MaxNetCarbs != nil {
		sc.MaxNetCarbs = p.MaxNetCarbs
	}
	if p.MinFiber != nil {
		sc.MinFiber = p.MinFiber
	}

	if len(base.MinDailyValues) > 0 || len(p.MinDailyValues) > 0 || p.MinVitaminD != nil {
		sc.MinDailyValues = make(map[models.Nutrient]float64, len(base.MinDailyValues)+len(p.MinDailyValues))
		for n, v := range base.MinDailyValues {
			sc.MinDailyValues[n] = v
		}
	}
	for key, v := range p.MinDailyValues {
		n, err := models.ParseNutrient(key)
		if err != nil {
			return diet.Scenario{}, &paramError{err: err}
		}
		sc.MinDailyValues[n] = v
	}
	if p.MinVitaminD != nil {
		sc.MinDailyValues[models.VitaminD] = *p.MinVitaminD
	}

	if len(p.Limits) > 0 {
		sc.Limits = append(append([]diet.Limit(nil), base.Limits...), p.Limits...)
	}
	return sc, nil
}

func cacheKey(backend string, sc diet.Scenario, foods []models.Food) string {
	ids := make([]string, len(foods))
	for i, f := range foods {
		ids[i] = string(f.ID)
	}
	return backend + "|" + sc.Fingerprint() + "|" + strings.Join(ids, ",")
}

// parseTime accepts RFC3339 or a plain date. A plain date used as an
// upper bound covers the whole day.
func parseTime(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
