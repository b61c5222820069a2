package recommendation

import (
	"sort"
	"strings"

	"fullgorilla/internal/cookbook"
	"fullgorilla/internal/questionnaire"
)

// Ranked is one catalog entry with its final score.
type Ranked struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Premium  bool   `json:"is_premium"`
	Featured bool   `json:"featured"`
}

// Engine maps completed questionnaire answers to cookbook picks. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	catalog    *cookbook.Catalog
	respondent []Rule
	household  []Rule
	tierBonus  int
	size       int
}

type Option func(*Engine)

func WithRules(respondent, household []Rule) Option {
	return func(e *Engine) {
		e.respondent = respondent
		e.household = household
	}
}

func WithSelectionSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.size = n
		}
	}
}

func NewEngine(catalog *cookbook.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    catalog,
		respondent: RespondentRules,
		household:  HouseholdRules,
		tierBonus:  defaultTierBonus,
		size:       defaultSelectionSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) SelectionSize() int { return e.size }

// Score ranks the whole catalog, highest first. Equal scores keep catalog
// declaration order.
func (e *Engine) Score(primary questionnaire.Responses, members []questionnaire.Member) []Ranked {
	books := e.catalog.All()
	scores := make(map[string]int, len(books))

	respondents := make([]questionnaire.Responses, 0, len(members)+1)
	respondents = append(respondents, primary)
	for _, m := range members {
		respondents = append(respondents, m.Responses)
	}

	for _, r := range respondents {
		if r == nil {
			continue
		}
		for _, rule := range e.respondent {
			if rule.applies(r) {
				scores[rule.Target] += rule.Points
			}
		}
		cuisines := r[FieldCuisines].List()
		for _, cb := range books {
			scores[cb.Slug] += cuisineMatchPoints * cuisineMatches(cuisines, cb.Tags)
		}
	}

	for _, rule := range e.household {
		if primary != nil && rule.applies(primary) {
			scores[rule.Target] += rule.Points
		}
	}

	ranked := make([]Ranked, len(books))
	for i, cb := range books {
		score := scores[cb.Slug]
		if !cb.Premium {
			score += e.tierBonus
		}
		ranked[i] = Ranked{
			Slug:     cb.Slug,
			Name:     cb.Name,
			Score:    score,
			Premium:  cb.Premium,
			Featured: cb.Featured,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// Assign returns the recommended cookbook slugs: the top scorers. Score ranks
// every catalog entry, so the result always holds min(size, catalog length)
// slugs and needs no separate top-up.
func (e *Engine) Assign(primary questionnaire.Responses, members []questionnaire.Member) []string {
	ranked := e.Score(primary, members)
	selected := make([]string, 0, min(e.size, len(ranked)))
	for _, r := range ranked[:min(e.size, len(ranked))] {
		selected = append(selected, r.Slug)
	}
	return selected
}

// AssignPayload is Assign over a completed questionnaire.
func (e *Engine) AssignPayload(p questionnaire.Payload) []string {
	return e.Assign(p.PrimaryResponses, p.FamilyMembers)
}

// cuisineMatches counts (cuisine, tag) pairs where either string contains
// the other, ignoring case and blank cuisines.
func cuisineMatches(cuisines, tags []string) int {
	n := 0
	for _, c := range cuisines {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		for _, tag := range tags {
			tag = strings.ToLower(tag)
			if strings.Contains(tag, c) || strings.Contains(c, tag) {
				n++
			}
		}
	}
	return n
}
