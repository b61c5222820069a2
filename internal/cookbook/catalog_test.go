package cookbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(cbs []Cookbook) []string {
	out := make([]string, len(cbs))
	for i, cb := range cbs {
		out[i] = cb.Slug
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 25, c.Len())
	assert.Equal(t, 2250, c.TotalMeals())
	assert.Equal(t, "italian-whole-foods", c.All()[0].Slug)

	assert.Equal(t, []string{
		"italian-whole-foods",
		"mediterranean-middle-eastern",
		"american-healthy-comfort",
		"healthy-gut",
		"quick-budget-friendly",
	}, slugs(c.Free()))
	assert.Len(t, c.Premium(), 20)

	for _, cb := range c.Free() {
		assert.True(t, cb.Featured, cb.Slug)
	}

	keto, ok := c.BySlug("keto-reset")
	require.True(t, ok)
	assert.Equal(t, CategoryDietSpecific, keto.Category)
	assert.Contains(t, keto.Tags, "low-carb")

	assert.Equal(t, []string{"quick-budget-friendly"}, slugs(c.ByTag("30-minutes")))
	assert.NotEmpty(t, c.ByCategory(CategoryCuisine))
}

func TestDetailsKeepsOrderAndDropsUnknown(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	got := c.Details([]string{"keto-reset", "nope", "healthy-gut"})
	assert.Equal(t, []string{"keto-reset", "healthy-gut"}, slugs(got))
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	all[0].Tags[0] = "mutated"
	all[0].Name = "mutated"

	first, _ := c.BySlug(all[0].Slug)
	assert.Equal(t, "italian", c.All()[0].Tags[0])
	assert.Equal(t, "Italian Whole Foods", first.Name)
}

func TestNewRejectsBadEntries(t *testing.T) {
	cases := map[string][]Cookbook{
		"missing slug":  {{Name: "x", Category: CategoryCuisine}},
		"duplicate":     {{Slug: "a", Category: CategoryCuisine}, {Slug: "a", Category: CategoryCuisine}},
		"bad category":  {{Slug: "a", Category: "dessert"}},
		"uppercase tag": {{Slug: "a", Category: CategoryCuisine, Tags: []string{"Italian"}}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(entries)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}

	_, err := Parse([]byte("cookbooks: {"))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
