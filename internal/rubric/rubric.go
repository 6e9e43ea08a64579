// Package rubric holds the weighted scoring rubric used by the evaluation
// form, the dashboard and the summary report.
package rubric

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// OtherPlatform is the platform choice that asks the reviewer for a custom name.
const OtherPlatform = "Other"

type Item struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
}

// Category is a weighted group of items. Weights are fractions and are
// expected, but not required, to sum to 1.0 across the rubric.
type Category struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
	Items  []Item  `yaml:"items" json:"items"`
}

type Rubric struct {
	Categories []Category `yaml:"categories" json:"categories"`
	Platforms  []string   `yaml:"platforms" json:"platforms"`
}

// Category looks a category up by id.
func (r Rubric) Category(id string) (Category, bool) {
	for _, c := range r.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func (r Rubric) TotalItems() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Items)
	}
	return n
}

func (r Rubric) WeightSum() float64 {
	sum := 0.0
	for _, c := range r.Categories {
		sum += c.Weight
	}
	return sum
}

// WarnWeights logs a warning when the category weights do not add up to 1.
// Scoring still normalizes by the weights actually present.
func (r Rubric) WarnWeights(logger *slog.Logger) bool {
	sum := r.WeightSum()
	if math.Abs(sum-1) <= 1e-9 {
		return false
	}
	logger.Warn("rubric weights do not sum to 1", slog.Float64("sum", sum))
	return true
}

// Validate checks the structural rules a rubric file must follow.
func (r Rubric) Validate() error {
	if len(r.Categories) == 0 {
		return errors.New("rubric has no categories")
	}
	seen := make(map[string]bool, len(r.Categories))
	for _, c := range r.Categories {
		if c.ID == "" {
			return errors.New("category with empty id")
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate category id %q", c.ID)
		}
		seen[c.ID] = true
		if c.Weight <= 0 {
			return fmt.Errorf("category %q: weight must be positive", c.ID)
		}
		if len(c.Items) == 0 {
			return fmt.Errorf("category %q has no items", c.ID)
		}
		items := make(map[string]bool, len(c.Items))
		for _, it := range c.Items {
			if it.ID == "" {
				return fmt.Errorf("category %q: item with empty id", c.ID)
			}
			if items[it.ID] {
				return fmt.Errorf("category %q: duplicate item id %q", c.ID, it.ID)
			}
			items[it.ID] = true
		}
	}
	for _, p := range r.Platforms {
		if p == OtherPlatform {
			return nil
		}
	}
	return fmt.Errorf("platform list must contain %q", OtherPlatform)
}

// Load reads a rubric from a YAML file. Platforms default to the built-in
// list when the file omits them.
func Load(path string) (Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rubric{}, fmt.Errorf("read rubric file: %w", err)
	}
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rubric{}, fmt.Errorf("parse rubric file: %w", err)
	}
	if len(r.Platforms) == 0 {
		r.Platforms = append([]string(nil), Platforms...)
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, fmt.Errorf("invalid rubric %s: %w", path, err)
	}
	return r, nil
}
