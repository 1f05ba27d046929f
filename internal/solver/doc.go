// Package solver defines a backend-neutral linear program and the
// backends that solve it: an in-process simplex built on gonum and GLPK
// through the glpsol executable.
package solver
