package cookbook

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cookbooks.yaml
var defaultCatalogYAML []byte

type Category string

const (
	CategoryCuisine      Category = "cuisine"
	CategoryHealthGoal   Category = "health-goal"
	CategoryDietSpecific Category = "diet-specific"
	CategoryLifestyle    Category = "lifestyle"
	CategorySpecialty    Category = "specialty"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCuisine, CategoryHealthGoal, CategoryDietSpecific, CategoryLifestyle, CategorySpecialty:
		return true
	}
	return false
}

type Cookbook struct {
	Name        string   `yaml:"name" json:"name"`
	Slug        string   `yaml:"slug" json:"slug"`
	Theme       string   `yaml:"theme" json:"theme"`
	Description string   `yaml:"description" json:"description"`
	Category    Category `yaml:"category" json:"category"`
	Tags        []string `yaml:"tags" json:"tags"`
	Premium     bool     `yaml:"premium" json:"is_premium"`
	Featured    bool     `yaml:"featured" json:"featured"`
	MealCount   int      `yaml:"meal_count" json:"meal_count"`
}

var ErrInvalidCatalog = errors.New("invalid cookbook catalog")

// Catalog is read-only after Parse. Declaration order is preserved by every
// accessor.
type Catalog struct {
	cookbooks []Cookbook
	bySlug    map[string]int
}

func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Cookbooks []Cookbook `yaml:"cookbooks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Cookbooks)
}

// New builds a catalog from in-memory entries, applying the same checks as Parse.
func New(entries []Cookbook) (*Catalog, error) {
	c := &Catalog{
		cookbooks: make([]Cookbook, 0, len(entries)),
		bySlug:    make(map[string]int, len(entries)),
	}
	for _, cb := range entries {
		if cb.Slug == "" {
			return nil, fmt.Errorf("%w: cookbook %q has no slug", ErrInvalidCatalog, cb.Name)
		}
		if _, dup := c.bySlug[cb.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate slug %s", ErrInvalidCatalog, cb.Slug)
		}
		if !cb.Category.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidCatalog, cb.Slug, cb.Category)
		}
		for _, tag := range cb.Tags {
			if tag != strings.ToLower(tag) {
				return nil, fmt.Errorf("%w: %s tag %q is not lowercase", ErrInvalidCatalog, cb.Slug, tag)
			}
		}
		cb.Tags = append([]string{}, cb.Tags...)
		c.bySlug[cb.Slug] = len(c.cookbooks)
		c.cookbooks = append(c.cookbooks, cb)
	}
	return c, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

func (c *Catalog) Len() int { return len(c.cookbooks) }

func (c *Catalog) All() []Cookbook {
	return c.filter(func(Cookbook) bool { return true })
}

func (c *Catalog) BySlug(slug string) (Cookbook, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Cookbook{}, false
	}
	cb := c.cookbooks[i]
	cb.Tags = append([]string{}, cb.Tags...)
	return cb, true
}

func (c *Catalog) Has(slug string) bool {
	_, ok := c.bySlug[slug]
	return ok
}

// Details resolves slugs to cookbooks in the given order, dropping unknown ones.
func (c *Catalog) Details(slugs []string) []Cookbook {
	out := make([]Cookbook, 0, len(slugs))
	for _, s := range slugs {
		if cb, ok := c.BySlug(s); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (c *Catalog) Free() []Cookbook {
	return c.filter(func(cb Cookbook) bool { return !cb.Premium })
}

func (c *Catalog) Premium() []Cookbook {
	return c.filter(func(cb Cookbook) bool { return cb.Premium })
}

func (c *Catalog) ByCategory(cat Category) []Cookbook {
	return c.filter(func(cb Cookbook) bool { return cb.Category == cat })
}

func (c *Catalog) ByTag(tag string) []Cookbook {
	return c.filter(func(cb Cookbook) bool {
		for _, t := range cb.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// TotalMeals sums meal counts across the catalog.
func (c *Catalog) TotalMeals() int {
	n := 0
	for _, cb := range c.cookbooks {
		n += cb.MealCount
	}
	return n
}

func (c *Catalog) filter(keep func(Cookbook) bool) []Cookbook {
	out := make([]Cookbook, 0, len(c.cookbooks))
	for _, cb := range c.cookbooks {
		if keep(cb) {
			cb.Tags = append([]string{}, cb.Tags...)
			out = append(out, cb)
		}
	}
	return out
}
