// internal/diet/errors.go
package diet

import (
	"fmt"

	"diet-optimizer/internal/models"
)

// ModelError reports a diet model that cannot be built. It is raised
// before any solver call.
type ModelError struct {
	Constraint string
	Food       models.FoodID
	Reason     string
}

func (e *ModelError) Error() string {
	switch {
	case e.Constraint != "" && e.Food != "":
		return fmt.Sprintf("invalid diet model: constraint %s, food %q: %s", e.Constraint, e.Food, e.Reason)
	case e.Constraint != "":
		return fmt.Sprintf("invalid diet model: constraint %s: %s", e.Constraint, e.Reason)
	case e.Food != "":
		return fmt.Sprintf("invalid diet model: food %q: %s", e.Food, e.Reason)
	default:
		return "invalid diet model: " + e.Reason
	}
}
