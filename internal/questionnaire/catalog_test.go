package questionnaire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := DefaultCatalog()
	require.NoError(t, err)
	return c
}

func ids(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := loadDefault(t)

	assert.Equal(t, 60, c.Len())
	assert.Equal(t, "q1", c.Questions[0].ID)
	assert.Equal(t, "q60", c.Questions[59].ID)
	assert.Equal(t, FanOut{
		AccountTypeQuestion:   "q1",
		SingleValue:           "individual",
		HouseholdSizeQuestion: "q2",
		NamesQuestion:         "q3",
		DefaultHouseholdSize:  2,
	}, c.FanOut)

	q30, ok := c.Question("q30")
	require.True(t, ok)
	assert.Equal(t, TypeMultiChoice, q30.Type)
	assert.Equal(t, 5, q30.MaxSelections)

	q3, _ := c.Question("q3")
	assert.Equal(t, TypeNameList, q3.Type)

	q15, _ := c.Question("q15")
	require.NotNil(t, q15.Min)
	require.NotNil(t, q15.Max)
	assert.Equal(t, 1, *q15.Min)
	assert.Equal(t, 10, *q15.Max)

	assert.Equal(t, -1, c.Position("q999"))
	assert.Equal(t, 24, c.Position("q25"))
}

func TestVisibleDropsSkippedQuestions(t *testing.T) {
	c := loadDefault(t)

	t.Run("individual account skips household setup", func(t *testing.T) {
		vis := c.Visible(Responses{"q1": Single("individual")}, false)
		assert.NotContains(t, ids(vis), "q2")
		assert.NotContains(t, ids(vis), "q3")
		assert.Len(t, vis, 58)
	})

	t.Run("family account keeps household setup", func(t *testing.T) {
		vis := c.Visible(Responses{"q1": Single("family")}, false)
		assert.Equal(t, []string{"q1", "q2", "q3"}, ids(vis)[:3])
	})

	t.Run("diet drives meat questions", func(t *testing.T) {
		vegan := ids(c.Visible(Responses{"q25": Single("vegan")}, true))
		assert.NotContains(t, vegan, "q26")
		assert.NotContains(t, vegan, "q27")
		assert.NotContains(t, vegan, "q28")

		vegetarian := ids(c.Visible(Responses{"q25": Single("vegetarian")}, true))
		assert.NotContains(t, vegetarian, "q26")
		assert.Contains(t, vegetarian, "q28")
	})

	t.Run("members only see shared questions", func(t *testing.T) {
		vis := ids(c.Visible(Responses{}, true))
		assert.Len(t, vis, 42)
		assert.Equal(t, "q4", vis[0])
		assert.Equal(t, "q46", vis[len(vis)-1])
		assert.NotContains(t, vis, "q10")
	})
}

func TestParseCatalogRejectsBrokenDocuments(t *testing.T) {
	base := `
fan_out: {account_type_question: a, single_value: solo, household_size_question: a, names_question: a}
questions:
`
	cases := map[string]string{
		"duplicate id": base + `
  - {id: a, text: A, type: free-text, applies_to: all}
  - {id: a, text: B, type: free-text, applies_to: all}
`,
		"forward skip reference": base + `
  - {id: a, text: A, type: free-text, applies_to: all, skip_if: {question: b, equals: x}}
  - {id: b, text: B, type: free-text, applies_to: all}
`,
		"choice without options": base + `
  - {id: a, text: A, type: single-choice, applies_to: all}
`,
		"unknown type": base + `
  - {id: a, text: A, type: dropdown, applies_to: all}
`,
		"unknown fan out question": `
fan_out: {account_type_question: zz, names_question: a, household_size_question: a}
questions:
  - {id: a, text: A, type: free-text, applies_to: all}
`,
		"not yaml": `questions: [`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseCatalogDefaultsHouseholdSize(t *testing.T) {
	c, err := ParseCatalog([]byte(`
fan_out: {account_type_question: a, single_value: solo, household_size_question: a, names_question: a}
questions:
  - {id: a, text: A, type: free-text, applies_to: all}
`))
	require.NoError(t, err)
	assert.Equal(t, 2, c.FanOut.DefaultHouseholdSize)
}

func TestDecodeNaturalValues(t *testing.T) {
	c := loadDefault(t)
	q := func(id string) Question {
		out, ok := c.Question(id)
		require.True(t, ok)
		return out
	}

	tests := []struct {
		name string
		id   string
		raw  string
		want Answer
	}{
		{"single", "q25", `"vegan"`, Single("vegan")},
		{"single from number", "q2", `3`, Single("3")},
		{"multi", "q11", `["gut-health","longevity"]`, Multi("gut-health", "longevity")},
		{"text", "q33", `"liver"`, Text("liver")},
		{"names list", "q3", `["Ana","Ben"]`, Names("Ana", "Ben")},
		{"names from text", "q3", `"Ana, Ben"`, Names("Ana", "Ben")},
		{"integer", "q4", `34`, Integer(34)},
		{"integer from string", "q7", `"180"`, Integer(180)},
		{"integer blank", "q9", `""`, Answer{Kind: KindInteger}},
		{"slider", "q15", `7`, Slider(7)},
		{"height", "q6", `{"feet":5,"inches":10}`, HeightOf(5, 10)},
		{"null multi", "q11", `null`, Answer{Kind: KindMulti, Choices: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(q(tt.id), json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Decode(q("q11"), json.RawMessage(`"gut-health"`))
	assert.Error(t, err)
	_, err = Decode(q("q4"), json.RawMessage(`"thirty"`))
	assert.Error(t, err)
}
