// internal/catalog/loader.go
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"diet-optimizer/internal/models"
)

// requiredKeys lists the label fields a record must state explicitly.
// An omitted mandatory value is a data error, never a silent zero.
var requiredKeys = [][]string{
	{"name"},
	{"short_name"},
	{"cost", "cents_per_package"},
	{"cost", "grams_per_package"},
	{"nutrition_facts", "serving_size"},
	{"nutrition_facts", "calories"},
	{"nutrition_facts", "total_fat"},
	{"nutrition_facts", "saturated_fat"},
	{"nutrition_facts", "cholesterol"},
	{"nutrition_facts", "sodium"},
	{"nutrition_facts", "total_carbohydrate"},
	{"nutrition_facts", "protein"},
}

// recordSections are the nested mappings of a record, checked for stray
// keys like the record itself.
var recordSections = []struct {
	key string
	typ reflect.Type
}{
	{"cost", reflect.TypeOf(models.Cost{})},
	{"nutrition_facts", reflect.TypeOf(models.NutritionFacts{})},
}

type foodFile struct {
	Foods []yaml.Node `yaml:"foods"`
}

// LoadFile reads a YAML or JSON food file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read food file: %w", err)
	}
	c, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return c, nil
}

// Load decodes a document of the form {foods: [...]}.
func Load(r io.Reader) (*Catalog, error) {
	var doc foodFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode food file: %w", err)
	}
	if len(doc.Foods) == 0 {
		return nil, &models.DataError{Field: "foods", Reason: "must list at least one food"}
	}

	foods := make([]models.Food, 0, len(doc.Foods))
	for i := range doc.Foods {
		node := &doc.Foods[i]
		id := models.FoodID(scalarAt(node, "short_name"))
		if id == "" {
			id = models.FoodID(fmt.Sprintf("foods[%d]", i))
		}
		if field := unknownField(node); field != "" {
			return nil, &models.DataError{Food: id, Field: field, Reason: "is not a known field"}
		}
		for _, path := range requiredKeys {
			if lookup(node, path...) == nil {
				return nil, &models.DataError{Food: id, Field: strings.Join(path, "."), Reason: "is missing"}
			}
		}

		var f models.Food
		if err := node.Decode(&f); err != nil {
			return nil, &models.DataError{Food: id, Field: "record", Reason: err.Error()}
		}
		foods = append(foods, f)
	}
	return New(foods...)
}

func lookup(node *yaml.Node, path ...string) *yaml.Node {
	cur := node
	for _, key := range path {
		if cur.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(cur.Content); i += 2 {
			if cur.Content[i].Value == key {
				next = cur.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	if cur.Tag == "!!null" {
		return nil
	}
	return cur
}

func scalarAt(node *yaml.Node, key string) string {
	n := lookup(node, key)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// unknownField returns the dotted path of the first key in a record that
// names no field, or "" when every key is known. A misspelled optional
// nutrient would otherwise decode as undisclosed.
func unknownField(node *yaml.Node) string {
	if key := strayKey(node, reflect.TypeOf(models.Food{})); key != "" {
		return key
	}
	for _, sec := range recordSections {
		child := lookup(node, sec.key)
		if child == nil {
			continue
		}
		if key := strayKey(child, sec.typ); key != "" {
			return sec.key + "." + key
		}
	}
	return ""
}

func strayKey(node *yaml.Node, t reflect.Type) string {
	if node.Kind != yaml.MappingNode {
		return ""
	}
	known := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			known[name] = true
		}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if key := node.Content[i].Value; !known[key] {
			return key
		}
	}
	return ""
}
