// internal/solver/glpk.go
package solver

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	GLPKName          = "glpk"
	defaultGLPSOLPath = "glpsol"
	maxCapturedOutput = 4096
)

// GLPK runs the glpsol executable on an exported CPLEX LP file and reads
// back its raw solution file.
type GLPK struct {
	path     string
	lookPath func(string) (string, error)
}

func NewGLPK(path string) *GLPK {
	if path == "" {
		path = defaultGLPSOLPath
	}
	return &GLPK{path: path, lookPath: exec.LookPath}
}

func (g *GLPK) Name() string {
	return GLPKName
}

func (g *GLPK) Available() error {
	if _, err := g.lookPath(g.path); err != nil {
		return &UnavailableError{Backend: GLPKName, Err: err}
	}
	return nil
}

func (g *GLPK) Solve(ctx context.Context, m *Model) (*Result, error) {
	bin, err := g.lookPath(g.path)
	if err != nil {
		return nil, &UnavailableError{Backend: GLPKName, Err: err}
	}

	dir, err := os.MkdirTemp("", "diet-glpk-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "model.sol")

	f, err := os.Create(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create model file: %w", err)
	}
	if err := WriteLP(f, m); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write model: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write model: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--lp", modelPath, "--nopresol", "-w", solPath)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("glpsol failed: %w: %s", err, truncate(out.String(), maxCapturedOutput))
	}

	sol, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open glpsol solution: %w", err)
	}
	defer sol.Close()

	result, err := parseGLPKSolution(sol, len(m.Variables))
	if err != nil {
		return nil, err
	}
	if result.Status == StatusOptimal {
		result.Objective = m.Evaluate(result.Values)
	}
	return result, nil
}

// parseGLPKSolution reads the basic-solution format written by
// glp_write_sol:
//
//	s bas <rows> <cols> <primal status> <dual status> <objective>
//	i <row> <status> <primal> <dual>
//	j <col> <status> <primal> <dual>
//	e o f
func parseGLPKSolution(r io.Reader, nvars int) (*Result, error) {
	result := &Result{Backend: GLPKName, Values: make([]float64, nvars)}
	sc := bufio.NewScanner(r)
	sawStatus := false
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "c", "i", "e":
			continue
		case "s":
			if len(fields) < 7 || fields[1] != "bas" {
				return nil, fmt.Errorf("unexpected glpsol status line %q", sc.Text())
			}
			status, err := glpkStatus(fields[4], fields[5])
			if err != nil {
				return nil, err
			}
			result.Status = status
			sawStatus = true
		case "j":
			if len(fields) < 4 {
				return nil, fmt.Errorf("unexpected glpsol column line %q", sc.Text())
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil || col < 1 || col > nvars {
				return nil, fmt.Errorf("unexpected glpsol column index %q", fields[1])
			}
			v, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value of column %d: %w", col, err)
			}
			result.Values[col-1] = v
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read glpsol solution: %w", err)
	}
	if !sawStatus {
		return nil, fmt.Errorf("glpsol solution has no status line")
	}
	return result, nil
}

// glpkStatus maps primal/dual status letters: f feasible, i infeasible,
// n no feasible solution exists, u undefined.
func glpkStatus(primal, dual string) (Status, error) {
	switch {
	case primal == "f" && dual == "f":
		return StatusOptimal, nil
	case primal == "n" || primal == "i":
		return StatusInfeasible, nil
	case primal == "f" && dual == "n":
		return StatusUnbounded, nil
	default:
		return 0, fmt.Errorf("glpsol finished without a usable solution (primal %s, dual %s)", primal, dual)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
