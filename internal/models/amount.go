// internal/models/amount.go
package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Amount is a nutrient value that may be missing from a label.
// The zero value is Unknown, which is distinct from Known(0).
type Amount struct {
	value float64
	known bool
}

func Known(v float64) Amount {
	return Amount{value: v, known: true}
}

func Unknown() Amount {
	return Amount{}
}

// Value returns the amount and whether the label discloses it.
func (a Amount) Value() (float64, bool) {
	return a.value, a.known
}

func (a Amount) IsKnown() bool {
	return a.known
}

// OrZero returns the value, or 0 for an undisclosed nutrient.
func (a Amount) OrZero() float64 {
	if !a.known {
		return 0
	}
	return a.value
}

func (a Amount) String() string {
	if !a.known {
		return "unknown"
	}
	return fmt.Sprintf("%g", a.value)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.known {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode amount: %w", err)
	}
	if v == nil {
		*a = Unknown()
		return nil
	}
	*a = Known(*v)
	return nil
}

func (a Amount) MarshalYAML() (interface{}, error) {
	if !a.known {
		return nil, nil
	}
	return a.value, nil
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*a = Unknown()
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode amount at line %d: %w", node.Line, err)
	}
	*a = Known(v)
	return nil
}
