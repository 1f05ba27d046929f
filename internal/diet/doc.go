// Package diet turns a food set and a daily scenario into a linear
// program, solves it with a pluggable backend and interprets the result.
//
// Each food contributes one decision variable: the calories per day it
// supplies. The objective is dollars per day. The calorie budget is an
// equality row and every enabled nutrient bound adds one inequality row
// whose coefficients are the food's nutrient value per calorie. A food
// that does not disclose a nutrient is left out of that row.
//
// Infeasible and unbounded scenarios are outcomes, not errors. Errors
// are reserved for bad data (*models.DataError, *models.ComputationError),
// models that cannot be built (*ModelError) and backends that cannot run
// (solver.ErrUnavailable).
package diet
