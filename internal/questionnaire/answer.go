package questionnaire

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the shape carried by an Answer.
type Kind string

const (
	KindSingle  Kind = "single"
	KindMulti   Kind = "multi"
	KindText    Kind = "text"
	KindInteger Kind = "integer"
	KindHeight  Kind = "height"
	KindSlider  Kind = "slider"
	KindNames   Kind = "names"
)

type Height struct {
	Feet   int `json:"feet"`
	Inches int `json:"inches"`
}

// Answer is a closed union over the question types. Only the field matching
// Kind is meaningful; the zero Answer means "unanswered".
type Answer struct {
	Kind    Kind     `json:"kind,omitempty"`
	Choice  string   `json:"choice,omitempty"`
	Choices []string `json:"choices,omitempty"`
	Text    string   `json:"text,omitempty"`
	Number  *int     `json:"number,omitempty"`
	Height  *Height  `json:"height,omitempty"`
	Names   []string `json:"names,omitempty"`
}

func Single(v string) Answer { return Answer{Kind: KindSingle, Choice: v} }

func Multi(v ...string) Answer {
	return Answer{Kind: KindMulti, Choices: append([]string{}, v...)}
}

func Text(v string) Answer { return Answer{Kind: KindText, Text: v} }

func Integer(v int) Answer { return Answer{Kind: KindInteger, Number: &v} }

func Slider(v int) Answer { return Answer{Kind: KindSlider, Number: &v} }

func HeightOf(feet, inches int) Answer {
	return Answer{Kind: KindHeight, Height: &Height{Feet: feet, Inches: inches}}
}

func Names(v ...string) Answer {
	return Answer{Kind: KindNames, Names: append([]string{}, v...)}
}

// IsEmpty reports whether the answer counts as unanswered. Zero is a valid
// integer or slider answer; a names list is answered as soon as it exists
// because missing entries fall back to positional defaults.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case KindSingle:
		return a.Choice == ""
	case KindMulti:
		return len(a.Choices) == 0
	case KindText:
		return a.Text == ""
	case KindInteger, KindSlider:
		return a.Number == nil
	case KindHeight:
		return a.Height == nil
	case KindNames:
		return false
	default:
		return true
	}
}

// Scalar returns the answer as a single token, used by skip conditions and
// household-size parsing. List answers have no scalar form.
func (a Answer) Scalar() string {
	switch a.Kind {
	case KindSingle:
		return a.Choice
	case KindText:
		return a.Text
	case KindInteger, KindSlider:
		if a.Number != nil {
			return strconv.Itoa(*a.Number)
		}
	}
	return ""
}

// List returns the answer as a list of tokens. Free text is split on commas
// so a typed "Ana, Ben" works as a names list.
func (a Answer) List() []string {
	switch a.Kind {
	case KindMulti:
		return a.Choices
	case KindNames:
		return a.Names
	case KindSingle:
		if a.Choice != "" {
			return []string{a.Choice}
		}
	case KindText:
		if a.Text == "" {
			return nil
		}
		parts := strings.Split(a.Text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

func (a Answer) Contains(token string) bool {
	for _, v := range a.List() {
		if v == token {
			return true
		}
	}
	return false
}

func (a Answer) Clone() Answer {
	out := a
	if a.Choices != nil {
		out.Choices = append([]string{}, a.Choices...)
	}
	if a.Names != nil {
		out.Names = append([]string{}, a.Names...)
	}
	if a.Number != nil {
		n := *a.Number
		out.Number = &n
	}
	if a.Height != nil {
		h := *a.Height
		out.Height = &h
	}
	return out
}

// Natural returns the plain JSON-friendly value of the answer (string, list,
// number or height record), or nil when unanswered.
func (a Answer) Natural() any {
	if a.IsEmpty() && a.Kind != KindMulti {
		return nil
	}
	switch a.Kind {
	case KindSingle:
		return a.Choice
	case KindMulti:
		if a.Choices == nil {
			return []string{}
		}
		return a.Choices
	case KindText:
		return a.Text
	case KindInteger, KindSlider:
		return *a.Number
	case KindHeight:
		return *a.Height
	case KindNames:
		if a.Names == nil {
			return []string{}
		}
		return a.Names
	}
	return nil
}

// Responses maps question ids to committed answers for one respondent.
type Responses map[string]Answer

func (r Responses) Get(id string) Answer { return r[id] }

func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Natural flattens the responses to plain values for storage.
func (r Responses) Natural() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if n := v.Natural(); n != nil {
			out[k] = n
		}
	}
	return out
}

// Member is a family-member respondent synthesised at fan-out.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Responses Responses `json:"responses"`
}

func (m Member) Clone() Member {
	m.Responses = m.Responses.Clone()
	return m
}

// Payload is emitted once the last respondent finishes.
type Payload struct {
	PrimaryResponses Responses `json:"primary_responses"`
	FamilyMembers    []Member  `json:"family_members"`
}

// Decode converts a plain JSON value into the Answer shape expected by q.
// A null or absent value decodes to the question's empty answer.
func Decode(q Question, raw json.RawMessage) (Answer, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Empty(q), nil
	}

	switch q.Type {
	case TypeSingleChoice:
		s, err := decodeToken(raw)
		if err != nil {
			return Answer{}, fmt.Errorf("question %s: %w", q.ID, err)
		}
		return Single(s), nil

	case TypeMultiChoice:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return Answer{}, fmt.Errorf("question %s: expected a list of options: %w", q.ID, err)
		}
		return Multi(v...), nil

	case TypeFreeText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("question %s: expected text: %w", q.ID, err)
		}
		return Text(s), nil

	case TypeNameList:
		var v []string
		if err := json.Unmarshal(raw, &v); err == nil {
			return Names(v...), nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Answer{}, fmt.Errorf("question %s: expected a list of names: %w", q.ID, err)
		}
		return Names(Text(s).List()...), nil

	case TypeInteger, TypeSlider:
		s, err := decodeToken(raw)
		if err != nil {
			return Answer{}, fmt.Errorf("question %s: %w", q.ID, err)
		}
		if s == "" {
			return Empty(q), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return Answer{}, fmt.Errorf("question %s: expected a whole number", q.ID)
			}
			n = int(f)
		}
		if q.Type == TypeSlider {
			return Slider(n), nil
		}
		return Integer(n), nil

	case TypeHeight:
		var h Height
		if err := json.Unmarshal(raw, &h); err != nil {
			return Answer{}, fmt.Errorf("question %s: expected {feet, inches}: %w", q.ID, err)
		}
		return HeightOf(h.Feet, h.Inches), nil
	}

	return Answer{}, fmt.Errorf("question %s: unsupported type %q", q.ID, q.Type)
}

// decodeToken accepts either a JSON string or a JSON number.
func decodeToken(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected a single value")
	}
	return n.String(), nil
}

// Empty is the working answer for a question nobody has answered yet.
func Empty(q Question) Answer {
	if q.Type == TypeMultiChoice {
		return Answer{Kind: KindMulti, Choices: []string{}}
	}
	return Answer{Kind: q.Type.Kind()}
}
