// internal/catalog/catalog.go
package catalog

import (
	"fmt"

	"diet-optimizer/internal/models"
)

// Catalog is an ordered, immutable set of validated foods with unique IDs.
type Catalog struct {
	foods []models.Food
	index map[models.FoodID]int
}

func New(foods ...models.Food) (*Catalog, error) {
	c := &Catalog{
		foods: make([]models.Food, 0, len(foods)),
		index: make(map[models.FoodID]int, len(foods)),
	}
	for _, f := range foods {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.index[f.ID]; exists {
			return nil, &models.DataError{Food: f.ID, Field: "short_name", Reason: "is duplicated"}
		}
		c.index[f.ID] = len(c.foods)
		c.foods = append(c.foods, f)
	}
	return c, nil
}

// Foods returns a copy of the foods in catalog order.
func (c *Catalog) Foods() []models.Food {
	out := make([]models.Food, len(c.foods))
	copy(out, c.foods)
	return out
}

func (c *Catalog) Len() int {
	return len(c.foods)
}

func (c *Catalog) Lookup(id models.FoodID) (models.Food, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Food{}, false
	}
	return c.foods[i], true
}

// Select returns the named foods in the order given. An empty list
// selects the whole catalog.
func (c *Catalog) Select(ids ...models.FoodID) ([]models.Food, error) {
	if len(ids) == 0 {
		return c.Foods(), nil
	}
	out := make([]models.Food, 0, len(ids))
	for _, id := range ids {
		f, ok := c.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("food %q is not in the catalog", id)
		}
		out = append(out, f)
	}
	return out, nil
}
