package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	c := loadDefault(t)
	cuisines, _ := c.Question("q30")
	goals, _ := c.Question("q11")
	age, _ := c.Question("q4")
	bodyFat, _ := c.Question("q9")
	height, _ := c.Question("q6")
	diet, _ := c.Question("q25")
	names, _ := c.Question("q3")
	motivation, _ := c.Question("q15")

	tests := []struct {
		name   string
		q      Question
		a      Answer
		reason string
	}{
		{"empty multi", goals, Multi(), "Please select at least one option"},
		{"wrong kind on multi", goals, Single("gut-health"), "Please select at least one option"},
		{"one goal", goals, Multi("gut-health"), ""},
		{"exactly max cuisines", cuisines, Multi("a", "b", "c", "d", "e"), ""},
		{"one over max cuisines", cuisines, Multi("a", "b", "c", "d", "e", "f"), "Please select no more than 5 options"},
		{"unanswered single", diet, Answer{Kind: KindSingle}, "This question is required"},
		{"zero answer", diet, Answer{}, "This question is required"},
		{"chosen diet", diet, Single("keto"), ""},
		{"zero age is out of range, not missing", age, Integer(0), "Please choose a value between 1 and 120"},
		{"oldest age", age, Integer(120), ""},
		{"age past max", age, Integer(121), "Please choose a value between 1 and 120"},
		{"blank age", age, Answer{Kind: KindInteger}, "This question is required"},
		{"optional body fat", bodyFat, Answer{Kind: KindInteger}, ""},
		{"optional body fat still bounded", bodyFat, Integer(90), "Please choose a value between 1 and 70"},
		{"missing height", height, Answer{Kind: KindHeight}, "This question is required"},
		{"height", height, HeightOf(6, 0), ""},
		{"names list never empty", names, Names(), ""},
		{"slider at min", motivation, Slider(1), ""},
		{"slider below min", motivation, Slider(-5), "Please choose a value between 1 and 10"},
		{"slider above max", motivation, Slider(999), "Please choose a value between 1 and 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.q, tt.a)
			if tt.reason == "" {
				assert.Nil(t, err)
				return
			}
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.reason, err.Reason)
				assert.Equal(t, tt.q.ID, err.QuestionID)
			}
		})
	}
}

func TestValidateOneSidedBounds(t *testing.T) {
	floor, ceiling := 18, 99
	adult := Question{ID: "adult", Type: TypeInteger, Min: &floor}
	capped := Question{ID: "capped", Type: TypeSlider, Max: &ceiling}

	err := Validate(adult, Integer(17))
	if assert.NotNil(t, err) {
		assert.Equal(t, "Please enter a value of at least 18", err.Reason)
	}
	assert.Nil(t, Validate(adult, Integer(1000)))

	err = Validate(capped, Slider(100))
	if assert.NotNil(t, err) {
		assert.Equal(t, "Please enter a value no greater than 99", err.Reason)
	}
	assert.Nil(t, Validate(capped, Slider(-3)))
	assert.Nil(t, Validate(Question{ID: "free", Type: TypeInteger}, Integer(0)))
}

func TestConditionHolds(t *testing.T) {
	r := Responses{
		"q1":  Single("individual"),
		"q25": Single("vegetarian"),
		"q4":  Integer(3),
	}

	assert.True(t, Condition{Question: "q1", Equals: "individual"}.Holds(r))
	assert.False(t, Condition{Question: "q1", Equals: "family"}.Holds(r))
	assert.True(t, Condition{Question: "q25", OneOf: []string{"vegan", "vegetarian"}}.Holds(r))
	assert.True(t, Condition{Question: "q4", Equals: "3"}.Holds(r))
	assert.False(t, Condition{Question: "q99", Equals: "x"}.Holds(r))
	assert.False(t, Condition{Question: "q11", OneOf: []string{""}}.Holds(Responses{"q11": Multi()}))
}
