// internal/solver/registry.go
package solver

import (
	"errors"
	"fmt"
	"strings"
)

// Availability is one line of solver discovery.
type Availability struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Registry holds the known backends in registration order.
type Registry struct {
	backends []Solver
}

func NewRegistry(backends ...Solver) *Registry {
	r := &Registry{}
	for _, b := range backends {
		r.Register(b)
	}
	return r
}

// Options configures the default backends.
type Options struct {
	Tolerance  float64
	GLPSOLPath string
}

// DefaultRegistry registers the built-in simplex backend and GLPK.
func DefaultRegistry(opts Options) *Registry {
	return NewRegistry(
		NewSimplex(opts.Tolerance),
		NewGLPK(opts.GLPSOLPath),
	)
}

// Register adds or replaces a backend by name.
func (r *Registry) Register(s Solver) {
	for i, b := range r.backends {
		if b.Name() == s.Name() {
			r.backends[i] = s
			return
		}
	}
	r.backends = append(r.backends, s)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		names = append(names, b.Name())
	}
	return names
}

// Get returns a usable backend. Unknown names and backends that fail
// their availability probe both yield an *UnavailableError.
func (r *Registry) Get(name string) (Solver, error) {
	for _, b := range r.backends {
		if !strings.EqualFold(b.Name(), name) {
			continue
		}
		if err := b.Available(); err != nil {
			return nil, asUnavailable(b.Name(), err)
		}
		return b, nil
	}
	return nil, &UnavailableError{
		Backend: name,
		Err:     fmt.Errorf("unknown backend, known backends are %s", strings.Join(r.Names(), ", ")),
	}
}

// Discover probes every registered backend. Names with the "_mock_"
// prefix are test doubles and are never listed.
func (r *Registry) Discover() []Availability {
	out := make([]Availability, 0, len(r.backends))
	for _, b := range r.backends {
		if strings.HasPrefix(b.Name(), "_mock_") {
			continue
		}
		a := Availability{Name: b.Name(), Available: true}
		if err := b.Available(); err != nil {
			a.Available = false
			a.Reason = err.Error()
		}
		out = append(out, a)
	}
	return out
}

// Available lists the names of the usable backends.
func (r *Registry) Available() []string {
	var names []string
	for _, a := range r.Discover() {
		if a.Available {
			names = append(names, a.Name)
		}
	}
	return names
}

func asUnavailable(name string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue
	}
	return &UnavailableError{Backend: name, Err: err}
}
