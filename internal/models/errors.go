// internal/models/errors.go
package models

import "fmt"

// DataError reports a malformed or missing mandatory field in a food record.
type DataError struct {
	Food   FoodID
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	if e.Food == "" {
		return fmt.Sprintf("invalid food data: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid food data for %q: %s %s", e.Food, e.Field, e.Reason)
}

// ComputationError reports a derived quantity that is undefined for a food.
type ComputationError struct {
	Food     FoodID
	Quantity string
	Reason   string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("cannot compute %s for %q: %s", e.Quantity, e.Food, e.Reason)
}
