package recommendation

import "fullgorilla/internal/questionnaire"

// Question ids the engine reads from each respondent.
const (
	FieldHealthGoals     = "q11"
	FieldConditions      = "q17"
	FieldHormonal        = "q20"
	FieldAllergies       = "q23"
	FieldIntolerances    = "q24"
	FieldDiet            = "q25"
	FieldCuisines        = "q30"
	FieldMealsPerDay     = "q53"
	cuisineMatchPoints   = 20
	defaultTierBonus     = 10
	defaultSelectionSize = 4
)

// Trigger matches when the respondent's answer to Field is Value, or is a
// list containing Value.
type Trigger struct {
	Field string
	Value string
}

func (t Trigger) matches(r questionnaire.Responses) bool {
	a, ok := r[t.Field]
	if !ok {
		return false
	}
	return a.Contains(t.Value)
}

// Rule adds Points to Target when any trigger matches.
type Rule struct {
	Target string
	Points int
	AnyOf  []Trigger
}

func (r Rule) applies(resp questionnaire.Responses) bool {
	for _, t := range r.AnyOf {
		if t.matches(resp) {
			return true
		}
	}
	return false
}

func on(field, value string) Trigger { return Trigger{Field: field, Value: value} }

// RespondentRules are evaluated once per respondent and stack across the
// household.
var RespondentRules = []Rule{
	{Target: "vegan-whole-foods", Points: 50, AnyOf: []Trigger{on(FieldDiet, "vegan")}},
	{Target: "vegetarian-balance", Points: 50, AnyOf: []Trigger{on(FieldDiet, "vegetarian")}},
	{Target: "keto-reset", Points: 50, AnyOf: []Trigger{on(FieldDiet, "keto")}},
	{Target: "paleo-lifestyle", Points: 50, AnyOf: []Trigger{on(FieldDiet, "paleo")}},
	{Target: "mediterranean-middle-eastern", Points: 30, AnyOf: []Trigger{on(FieldDiet, "pescatarian")}},
	{Target: "gluten-free-everyday", Points: 40, AnyOf: []Trigger{
		on(FieldAllergies, "wheat-gluten"), on(FieldIntolerances, "gluten"),
	}},
	{Target: "dairy-free-solutions", Points: 40, AnyOf: []Trigger{
		on(FieldAllergies, "dairy"), on(FieldIntolerances, "lactose"),
	}},
	{Target: "healthy-gut", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "gut-health")}},
	{Target: "brain-energy-boosting", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "mental-clarity")}},
	{Target: "heart-healthy-meals", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "heart-health")}},
	{Target: "lean-muscle-athletic-recovery", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "build-muscle")}},
	{Target: "weight-loss-made-easy", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "lose-weight")}},
	{Target: "healthy-weight-gain", Points: 35, AnyOf: []Trigger{on(FieldHealthGoals, "gain-weight")}},
	{Target: "hormone-balance-womens-health", Points: 30, AnyOf: []Trigger{
		on(FieldHormonal, "pcos-endo"), on(FieldHormonal, "menopause"),
	}},
	{Target: "blue-zones-longevity", Points: 30, AnyOf: []Trigger{on(FieldHealthGoals, "longevity")}},
}

// HouseholdRules read only the primary respondent and apply once.
var HouseholdRules = []Rule{
	{Target: "quick-budget-friendly", Points: 25, AnyOf: []Trigger{
		on(FieldMealsPerDay, "3-meals"), on(FieldMealsPerDay, "dinner-only"),
	}},
	{Target: "power-snacks-small-plates", Points: 20, AnyOf: []Trigger{on(FieldMealsPerDay, "6-meals")}},
}
