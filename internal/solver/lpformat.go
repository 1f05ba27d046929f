// internal/solver/lpformat.go
package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteLP writes the model in CPLEX LP format. Variables are emitted as
// x1..xn in model order and every variable appears in the objective, so
// a reader that numbers columns by first appearance keeps that order.
// Original names are kept in comments.
func WriteLP(w io.Writer, m *Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	bw := bufio.NewWriter(w)

	name := m.Name
	if name == "" {
		name = "model"
	}
	fmt.Fprintf(bw, "\\ Problem: %s\n", sanitizeComment(name))
	for i, v := range m.Variables {
		fmt.Fprintf(bw, "\\ %s = %s\n", lpVar(i), sanitizeComment(v))
	}

	bw.WriteString("\nMinimize\n obj:")
	c := m.ObjectiveCoefficients()
	for i, coef := range c {
		writeTerm(bw, coef, i)
	}
	bw.WriteString("\n\nSubject To\n")
	for i, con := range m.Constraints {
		fmt.Fprintf(bw, " %s:", lpRowName(i, con.Name))
		dense := make(map[int]float64)
		var order []int
		for _, t := range con.Terms {
			if _, seen := dense[t.Var]; !seen {
				order = append(order, t.Var)
			}
			dense[t.Var] += t.Coef
		}
		wrote := false
		for _, j := range order {
			if dense[j] == 0 {
				continue
			}
			writeTerm(bw, dense[j], j)
			wrote = true
		}
		if !wrote {
			// An empty left side is not valid LP syntax.
			writeTerm(bw, 0, 0)
		}
		fmt.Fprintf(bw, " %s %s\n", lpSense(con.Sense), formatNumber(con.RHS))
	}

	bw.WriteString("\nBounds\n")
	for i := range m.Variables {
		fmt.Fprintf(bw, " %s >= 0\n", lpVar(i))
	}
	bw.WriteString("\nEnd\n")
	return bw.Flush()
}

func writeTerm(w *bufio.Writer, coef float64, v int) {
	sign := "+"
	if coef < 0 {
		sign = "-"
		coef = -coef
	}
	fmt.Fprintf(w, " %s %s %s", sign, formatNumber(coef), lpVar(v))
}

func lpVar(i int) string {
	return "x" + strconv.Itoa(i+1)
}

// lpRowName keeps readable constraint names while guaranteeing a legal,
// unique identifier.
func lpRowName(i int, name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return fmt.Sprintf("r%d_%s", i+1, b.String())
}

func lpSense(s Sense) string {
	switch s {
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "<="
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func sanitizeComment(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
