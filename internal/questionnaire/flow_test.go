package questionnaire

import (
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validAnswer picks an answer that passes validation and triggers no skips
// in the default catalog.
func validAnswer(q Question) Answer {
	switch q.Type {
	case TypeSingleChoice:
		return Single(q.Options[0].Value)
	case TypeMultiChoice:
		return Multi(q.Options[0].Value)
	case TypeFreeText:
		return Text("nothing")
	case TypeInteger:
		return Integer(clamp(q, 40))
	case TypeHeight:
		return HeightOf(5, 9)
	case TypeSlider:
		return Slider(clamp(q, 5))
	}
	return Names()
}

func clamp(q Question, n int) int {
	if q.Min != nil && n < *q.Min {
		n = *q.Min
	}
	if q.Max != nil && n > *q.Max {
		n = *q.Max
	}
	return n
}

func answer(t *testing.T, f *Flow, s State, a Answer) State {
	t.Helper()
	next, payload, err := f.Advance(f.SetAnswer(s, a))
	require.NoError(t, err)
	require.Nil(t, payload)
	return next
}

func currentID(t *testing.T, f *Flow, s State) string {
	t.Helper()
	q, ok := f.Current(s)
	require.True(t, ok)
	return q.ID
}

// runToEnd answers every remaining question with validAnswer.
func runToEnd(t *testing.T, f *Flow, s State) (State, *Payload) {
	t.Helper()
	for range 500 {
		q, ok := f.Current(s)
		require.True(t, ok)
		next, payload, err := f.Advance(f.SetAnswer(s, validAnswer(q)))
		require.NoError(t, err)
		s = next
		if payload != nil {
			return s, payload
		}
	}
	t.Fatal("questionnaire never completed")
	return s, nil
}

func sortedKeys(r Responses) []string {
	return slices.Sorted(maps.Keys(r))
}

func familyAtNames(t *testing.T, f *Flow, size string) State {
	t.Helper()
	s := f.Start()
	s = answer(t, f, s, Single("family"))
	s = answer(t, f, s, Single(size))
	require.Equal(t, "q3", currentID(t, f, s))
	return s
}

func TestStartLoadsFirstQuestion(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := f.Start()

	assert.Equal(t, PrimaryRespondent, s.MemberIndex)
	assert.Equal(t, 0, s.QuestionIndex)
	assert.Equal(t, "q1", currentID(t, f, s))
	assert.Equal(t, Answer{Kind: KindSingle}, s.CurrentAnswer)
	assert.False(t, s.Completed)
}

func TestAdvanceBlocksOnValidationError(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := f.Start()

	next, payload, err := f.Advance(s)
	require.Error(t, err)
	assert.Nil(t, payload)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "q1", verr.QuestionID)
	assert.Equal(t, "This question is required", next.Error)
	assert.Equal(t, 0, next.QuestionIndex)
	assert.Empty(t, next.PrimaryResponses)

	fixed := f.SetAnswer(next, Single("individual"))
	assert.Empty(t, fixed.Error)
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := f.SetAnswer(f.Start(), Single("couple"))

	next, _, err := f.Advance(s)
	require.NoError(t, err)

	assert.Empty(t, s.PrimaryResponses)
	assert.Equal(t, 0, s.QuestionIndex)
	assert.Equal(t, Single("couple"), next.PrimaryResponses["q1"])
	assert.Equal(t, 1, next.QuestionIndex)
}

func TestIndividualSkipsHouseholdQuestions(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := answer(t, f, f.Start(), Single("individual"))

	assert.Equal(t, "q4", currentID(t, f, s))
	assert.Equal(t, 1, s.QuestionIndex)
	assert.Empty(t, s.FamilyMembers)
}

func TestFanOutCreatesMembers(t *testing.T) {
	f := NewFlow(loadDefault(t))

	t.Run("three people with missing names", func(t *testing.T) {
		s := familyAtNames(t, f, "3")
		s = answer(t, f, s, Names("Ana", "  "))

		require.Len(t, s.FamilyMembers, 3)
		assert.Equal(t, "Ana", s.FamilyMembers[0].Name)
		assert.Equal(t, "Person 2", s.FamilyMembers[1].Name)
		assert.Equal(t, "Person 3", s.FamilyMembers[2].Name)
		assert.Equal(t, "member-0", s.FamilyMembers[0].ID)
		assert.Equal(t, 0, s.MemberIndex)
		assert.Equal(t, 0, s.QuestionIndex)
		assert.Equal(t, "q4", currentID(t, f, s))
		assert.Equal(t, Names("Ana", "  "), s.PrimaryResponses["q3"])
	})

	t.Run("unparseable household size defaults to two", func(t *testing.T) {
		s := familyAtNames(t, f, "several")
		s = answer(t, f, s, Names("Ana", "Ben", "Cy"))

		require.Len(t, s.FamilyMembers, 2)
		assert.Equal(t, "Ben", s.FamilyMembers[1].Name)
	})

	t.Run("names answer may be empty", func(t *testing.T) {
		s := familyAtNames(t, f, "2")
		assert.Equal(t, Answer{Kind: KindNames}, s.CurrentAnswer)
		s = answer(t, f, s, s.CurrentAnswer)

		require.Len(t, s.FamilyMembers, 2)
		assert.Equal(t, "Person 1", s.FamilyMembers[0].Name)
	})
}

func TestRetreatFromFirstMemberReturnsToNames(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := familyAtNames(t, f, "3")
	s = answer(t, f, s, Names("Ana", "Ben", "Cy"))
	s = answer(t, f, s, Integer(12))
	require.Equal(t, "q5", currentID(t, f, s))

	s = f.Retreat(s)
	s = f.Retreat(s)
	assert.Equal(t, PrimaryRespondent, s.MemberIndex)
	assert.Equal(t, "q3", currentID(t, f, s))
	assert.Equal(t, Names("Ana", "Ben", "Cy"), s.CurrentAnswer)

	s, _, err := f.Advance(s)
	require.NoError(t, err)
	assert.Equal(t, 0, s.MemberIndex)
	assert.Equal(t, "q4", currentID(t, f, s))
	assert.Equal(t, Integer(12), s.CurrentAnswer)
	assert.Len(t, s.FamilyMembers, 3)
}

func TestRetreatBetweenMembers(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := familyAtNames(t, f, "2")
	s = answer(t, f, s, Names("Ana", "Ben"))

	for s.MemberIndex == 0 {
		q, ok := f.Current(s)
		require.True(t, ok)
		s = answer(t, f, s, validAnswer(q))
	}
	require.Equal(t, 1, s.MemberIndex)
	require.Equal(t, 0, s.QuestionIndex)

	s = f.Retreat(s)
	assert.Equal(t, 0, s.MemberIndex)
	assert.Equal(t, len(f.Visible(s))-1, s.QuestionIndex)
	assert.Equal(t, "q46", currentID(t, f, s))
	assert.False(t, s.CurrentAnswer.IsEmpty())
}

func TestRetreatCommitsWithoutValidation(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := answer(t, f, f.Start(), Single("individual"))
	s = answer(t, f, s, Integer(30))
	require.Equal(t, "q5", currentID(t, f, s))

	s = f.SetAnswer(s, Single(""))
	s = f.Retreat(s)
	assert.Equal(t, "q4", currentID(t, f, s))
	assert.Equal(t, Integer(30), s.CurrentAnswer)
	assert.Equal(t, Single(""), s.PrimaryResponses["q5"])
}

func TestRetreatAtFirstQuestionIsNoop(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := f.SetAnswer(f.Start(), Single("family"))

	assert.Equal(t, s, f.Retreat(s))
}

func TestRetreatRecomputesVisibleSequence(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := answer(t, f, f.Start(), Single("individual"))
	for currentID(t, f, s) != "q29" {
		q, _ := f.Current(s)
		s = answer(t, f, s, validAnswer(q))
	}

	// q26..q28 were visible on the way in; switching to vegan on q25 must
	// drop them from the sequence the next step uses.
	for currentID(t, f, s) != "q25" {
		s = f.Retreat(s)
	}
	s = answer(t, f, s, Single("vegan"))
	assert.Equal(t, "q29", currentID(t, f, s))

	s = f.Retreat(s)
	assert.Equal(t, "q25", currentID(t, f, s))
}

func TestIndividualCompletion(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := answer(t, f, f.Start(), Single("individual"))

	final, payload := runToEnd(t, f, s)
	require.NotNil(t, payload)

	assert.True(t, final.Completed)
	assert.Len(t, payload.PrimaryResponses, 58)
	assert.Equal(t, Single("individual"), payload.PrimaryResponses["q1"])
	assert.Empty(t, payload.FamilyMembers)

	_, _, err := f.Advance(final)
	assert.ErrorIs(t, err, ErrFlowCompleted)
	assert.Equal(t, final, f.Retreat(final))
}

func TestFamilyCompletion(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := familyAtNames(t, f, "2")
	s = answer(t, f, s, Names("Ana", "Ben"))

	_, payload := runToEnd(t, f, s)
	require.NotNil(t, payload)

	assert.Equal(t, []string{"q1", "q2", "q3"}, sortedKeys(payload.PrimaryResponses))
	require.Len(t, payload.FamilyMembers, 2)
	for _, m := range payload.FamilyMembers {
		assert.Len(t, m.Responses, 42)
		assert.NotContains(t, m.Responses, "q10")
	}
	assert.Equal(t, "Ben", payload.FamilyMembers[1].Name)
}

func TestCompletionPrunesSkippedAnswers(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := f.Start()
	s.PrimaryResponses = Responses{
		"q1": Single("individual"),
		"q2": Single("3"),
		"q3": Names("stale"),
	}
	vis := f.Visible(s)
	s.QuestionIndex = len(vis) - 1
	s = f.Load(s)
	require.Equal(t, "q60", currentID(t, f, s))

	q, _ := f.Current(s)
	_, payload, err := f.Advance(f.SetAnswer(s, validAnswer(q)))
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Contains(t, payload.PrimaryResponses, "q1")
	assert.Contains(t, payload.PrimaryResponses, "q60")
	assert.NotContains(t, payload.PrimaryResponses, "q2")
	assert.NotContains(t, payload.PrimaryResponses, "q3")
}

func TestRefanOutKeepsMemberAnswers(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := familyAtNames(t, f, "2")
	s = answer(t, f, s, Names("Ana", "Ben"))
	s = answer(t, f, s, Integer(9))

	s = f.Retreat(f.Retreat(s))
	require.Equal(t, "q3", currentID(t, f, s))
	s = answer(t, f, s, Names("Anna", "Ben"))

	assert.Equal(t, "Anna", s.FamilyMembers[0].Name)
	assert.Equal(t, Integer(9), s.FamilyMembers[0].Responses["q4"])
}

func TestSwitchingToIndividualDropsMembers(t *testing.T) {
	f := NewFlow(loadDefault(t))
	s := familyAtNames(t, f, "3")
	s = answer(t, f, s, Names("Ana", "Ben", "Cy"))
	require.Len(t, s.FamilyMembers, 3)

	for range 10 {
		if s.answeringMember() || currentID(t, f, s) != "q1" {
			s = f.Retreat(s)
		}
	}
	require.Equal(t, "q1", currentID(t, f, s))
	s = answer(t, f, s, Single("individual"))

	done, payload := runToEnd(t, f, s)
	assert.Empty(t, done.FamilyMembers)
	assert.Empty(t, payload.FamilyMembers)
	assert.NotContains(t, payload.PrimaryResponses, "q3")
}

func TestProgressAndPrompt(t *testing.T) {
	c, err := ParseCatalog([]byte(`
fan_out: {account_type_question: kind, single_value: solo, household_size_question: size, names_question: names}
questions:
  - {id: kind, text: "Who is this for?", type: single-choice, applies_to: primary, required: true,
     options: [{value: solo, label: Solo}, {value: family, label: Family}]}
  - {id: size, text: "How many?", type: single-choice, applies_to: primary, required: true,
     options: [{value: "2", label: "2"}], skip_if: {question: kind, equals: solo}}
  - {id: names, text: "Names?", type: name-list, applies_to: primary, required: true,
     skip_if: {question: kind, equals: solo}}
  - {id: age, text: "How old is [Name]?", type: integer, applies_to: all, required: true}
  - {id: notes, text: "Anything else for [Name]?", type: free-text, applies_to: family-member}
`))
	require.NoError(t, err)
	f := NewFlow(c)

	s := f.Start()
	p := f.Progress(s, "Dana")
	assert.Equal(t, Progress{Position: 1, Total: 4, Percent: 25, Respondent: "Dana"}, p)

	s = answer(t, f, s, Single("family"))
	s = answer(t, f, s, Single("2"))
	s = answer(t, f, s, Names("Eli"))
	assert.Equal(t, "How old is Eli?", f.Prompt(s, "Dana"))
	assert.Equal(t, []string{"age", "notes"}, ids(f.Visible(s)))

	p = f.Progress(s, "Dana")
	assert.Equal(t, 1, p.Position)
	assert.Equal(t, 2, p.Total)
	assert.True(t, p.IsMember)
	assert.Equal(t, "Eli", p.Respondent)
	assert.False(t, p.IsLast)

	s = answer(t, f, s, Integer(7))
	s = answer(t, f, s, Text(""))
	assert.Equal(t, "Person 2", f.RespondentName(s, "Dana"))
	s = answer(t, f, s, Integer(40))
	assert.True(t, f.Progress(s, "Dana").IsLast)

	solo := answer(t, f, f.Start(), Single("solo"))
	assert.Equal(t, "How old is you?", f.Prompt(solo, ""))
}
