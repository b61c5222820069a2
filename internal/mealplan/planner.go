package mealplan

import (
	"slices"
	"strings"
	"time"

	"fullgorilla/internal/questionnaire"
)

const dateLayout = "2006-01-02"

type Slot struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Cookbook string `json:"cookbook"`
}

type Day struct {
	Date      string `json:"date"`
	Weekday   string `json:"day"`
	Breakfast Slot   `json:"breakfast"`
	Lunch     Slot   `json:"lunch"`
	Dinner    Slot   `json:"dinner"`
}

type WeeklyPlan struct {
	WeekOf    string      `json:"week_of"`
	Days      []Day       `json:"days"`
	Nutrition Nutrition   `json:"nutrition"`
	Groceries GroceryList `json:"grocery_list"`
}

// Request describes whose week is being planned.
type Request struct {
	WeekOf       time.Time
	Accessible   []string
	Restrictions []string
}

// StartOfWeek returns the Sunday on or before t, at midnight in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// Build lays out a Sunday to Saturday plan. Each slot rotates through the
// candidates for its category by day, preferring meals from accessible
// cookbooks that satisfy every restriction and widening the pool one step at
// a time when nothing qualifies.
func Build(lib *Library, req Request) WeeklyPlan {
	start := StartOfWeek(req.WeekOf)

	accessible := lib.All()
	if len(req.Accessible) > 0 {
		accessible = lib.FromCookbooks(req.Accessible)
	}
	pools := [][]Meal{
		FilterByDietary(accessible, req.Restrictions),
		FilterByDietary(lib.All(), req.Restrictions),
		accessible,
		lib.All(),
	}

	pick := func(cat Category, day int) (Meal, bool) {
		for _, pool := range pools {
			cands := byCategory(pool, cat)
			if len(cands) > 0 {
				return cands[day%len(cands)], true
			}
		}
		return Meal{}, false
	}

	plan := WeeklyPlan{WeekOf: start.Format(dateLayout), Days: make([]Day, 0, 7)}
	var chosen []Meal
	for i := range 7 {
		date := start.AddDate(0, 0, i)
		day := Day{Date: date.Format(dateLayout), Weekday: date.Weekday().String()}
		if m, ok := pick(Breakfast, i); ok {
			day.Breakfast = slotOf(m)
			chosen = append(chosen, m)
		}
		if m, ok := pick(Lunch, i); ok {
			day.Lunch = slotOf(m)
			chosen = append(chosen, m)
		}
		if m, ok := pick(Dinner, i); ok {
			day.Dinner = slotOf(m)
			chosen = append(chosen, m)
		}
		plan.Days = append(plan.Days, day)
	}

	plan.Nutrition = TotalNutrition(chosen)
	plan.Groceries = Groceries(chosen)
	return plan
}

func slotOf(m Meal) Slot {
	return Slot{ID: m.ID, Name: m.Name, Calories: m.Calories, Cookbook: m.Cookbook}
}

func byCategory(meals []Meal, cat Category) []Meal {
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// FilterByDietary keeps meals tagged with every restriction. No restrictions,
// or a "none" restriction, keeps everything.
func FilterByDietary(meals []Meal, restrictions []string) []Meal {
	if len(restrictions) == 0 {
		return meals
	}
	for _, r := range restrictions {
		if strings.EqualFold(r, "none") {
			return meals
		}
	}
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		ok := true
		for _, r := range restrictions {
			if !slices.Contains(m.Dietary, strings.ToLower(r)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

type Nutrition struct {
	Calories int `json:"total_calories"`
	Protein  int `json:"total_protein"`
	Carbs    int `json:"total_carbs"`
	Fats     int `json:"total_fats"`
}

func TotalNutrition(meals []Meal) Nutrition {
	var n Nutrition
	for _, m := range meals {
		n.Calories += m.Calories
		n.Protein += m.Protein
		n.Carbs += m.Carbs
		n.Fats += m.Fats
	}
	return n
}

const (
	SectionProduce = "Produce"
	SectionMeat    = "Meat & Seafood"
	SectionDairy   = "Dairy"
	SectionPantry  = "Pantry"
)

// GroceryList maps a store section to ingredients in first-seen order.
type GroceryList map[string][]string

var groceryKeywords = []struct {
	section  string
	keywords []string
}{
	{SectionProduce, []string{"avocado", "lettuce", "broccoli", "carrots", "lemon", "tomato", "onion"}},
	{SectionMeat, []string{"chicken", "salmon", "beef", "turkey", "pork"}},
	{SectionDairy, []string{"egg", "milk", "cheese", "butter", "yogurt", "parmesan"}},
}

// Groceries sorts each distinct ingredient into the first section with a
// matching keyword, defaulting to the pantry.
func Groceries(meals []Meal) GroceryList {
	list := GroceryList{SectionProduce: {}, SectionMeat: {}, SectionDairy: {}, SectionPantry: {}}
	seen := map[string]bool{}
	for _, m := range meals {
		for _, ing := range m.Ingredients {
			if seen[ing] {
				continue
			}
			seen[ing] = true
			list[sectionFor(ing)] = append(list[sectionFor(ing)], ing)
		}
	}
	return list
}

func sectionFor(ingredient string) string {
	lower := strings.ToLower(ingredient)
	for _, g := range groceryKeywords {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.section
			}
		}
	}
	return SectionPantry
}

// RestrictionsFrom derives meal tags the plan must honour from a respondent's
// diet, allergy and intolerance answers.
func RestrictionsFrom(r questionnaire.Responses) []string {
	var out []string
	add := func(tag string) {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	switch diet := r["q25"].Scalar(); diet {
	case "vegan", "vegetarian", "pescatarian", "keto", "paleo", "high-protein", "low-sodium":
		add(diet)
	}
	if r["q23"].Contains("dairy") || r["q24"].Contains("lactose") {
		add("dairy-free")
	}
	if r["q23"].Contains("wheat-gluten") || r["q24"].Contains("gluten") {
		add("gluten-free")
	}
	return out
}
