package mealplan

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed meals.yaml
var defaultLibraryYAML []byte

type Category string

const (
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
	Snack     Category = "snack"
)

type Meal struct {
	ID          int      `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    Category `yaml:"category" json:"category"`
	Cookbook    string   `yaml:"cookbook" json:"cookbook"`
	Calories    int      `yaml:"calories" json:"calories"`
	Protein     int      `yaml:"protein" json:"protein"`
	Carbs       int      `yaml:"carbs" json:"carbs"`
	Fats        int      `yaml:"fats" json:"fats"`
	PrepMinutes int      `yaml:"prep_minutes" json:"prep_minutes"`
	Ingredients []string `yaml:"ingredients" json:"ingredients"`
	Dietary     []string `yaml:"dietary" json:"dietary"`
}

var ErrInvalidLibrary = errors.New("invalid meal library")

type Library struct {
	meals []Meal
	byID  map[int]int
}

func ParseLibrary(data []byte) (*Library, error) {
	var doc struct {
		Meals []Meal `yaml:"meals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLibrary, err)
	}
	return NewLibrary(doc.Meals)
}

func NewLibrary(meals []Meal) (*Library, error) {
	l := &Library{meals: make([]Meal, 0, len(meals)), byID: make(map[int]int, len(meals))}
	for _, m := range meals {
		if _, dup := l.byID[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate meal id %d", ErrInvalidLibrary, m.ID)
		}
		switch m.Category {
		case Breakfast, Lunch, Dinner, Snack:
		default:
			return nil, fmt.Errorf("%w: meal %d has unknown category %q", ErrInvalidLibrary, m.ID, m.Category)
		}
		l.byID[m.ID] = len(l.meals)
		l.meals = append(l.meals, m)
	}
	return l, nil
}

func DefaultLibrary() (*Library, error) {
	return ParseLibrary(defaultLibraryYAML)
}

func (l *Library) All() []Meal {
	return append([]Meal{}, l.meals...)
}

func (l *Library) Meal(id int) (Meal, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Meal{}, false
	}
	return l.meals[i], true
}

// FromCookbooks keeps meals belonging to any of the given cookbook slugs.
func (l *Library) FromCookbooks(slugs []string) []Meal {
	want := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		want[s] = true
	}
	out := make([]Meal, 0)
	for _, m := range l.meals {
		if want[m.Cookbook] {
			out = append(out, m)
		}
	}
	return out
}
