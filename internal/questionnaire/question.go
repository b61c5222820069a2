package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultCatalogYAML []byte

type QuestionType string

const (
	TypeSingleChoice QuestionType = "single-choice"
	TypeMultiChoice  QuestionType = "multi-choice"
	TypeFreeText     QuestionType = "free-text"
	TypeInteger      QuestionType = "integer"
	TypeHeight       QuestionType = "height"
	TypeSlider       QuestionType = "slider"
	TypeNameList     QuestionType = "name-list"
)

// Kind is the answer kind a question of this type produces.
func (t QuestionType) Kind() Kind {
	switch t {
	case TypeSingleChoice:
		return KindSingle
	case TypeMultiChoice:
		return KindMulti
	case TypeFreeText:
		return KindText
	case TypeInteger:
		return KindInteger
	case TypeHeight:
		return KindHeight
	case TypeSlider:
		return KindSlider
	case TypeNameList:
		return KindNames
	}
	return ""
}

func (t QuestionType) hasOptions() bool {
	return t == TypeSingleChoice || t == TypeMultiChoice
}

type AppliesTo string

const (
	AppliesPrimary      AppliesTo = "primary"
	AppliesAll          AppliesTo = "all"
	AppliesFamilyMember AppliesTo = "family-member"
)

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Condition is a serialisable skip predicate: it holds when the respondent's
// answer to Question equals Equals or is one of OneOf.
type Condition struct {
	Question string   `yaml:"question" json:"question"`
	Equals   string   `yaml:"equals,omitempty" json:"equals,omitempty"`
	OneOf    []string `yaml:"one_of,omitempty" json:"one_of,omitempty"`
}

func (c Condition) Holds(r Responses) bool {
	a, ok := r[c.Question]
	if !ok {
		return false
	}
	v := a.Scalar()
	if v == "" {
		return false
	}
	if c.Equals != "" && v == c.Equals {
		return true
	}
	return slices.Contains(c.OneOf, v)
}

type Question struct {
	ID            string       `yaml:"id" json:"id"`
	Section       string       `yaml:"section" json:"section"`
	Text          string       `yaml:"text" json:"text"`
	Type          QuestionType `yaml:"type" json:"type"`
	AppliesTo     AppliesTo    `yaml:"applies_to" json:"applies_to"`
	Required      bool         `yaml:"required" json:"required"`
	Options       []Option     `yaml:"options,omitempty" json:"options,omitempty"`
	Placeholder   string       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Min           *int         `yaml:"min,omitempty" json:"min,omitempty"`
	Max           *int         `yaml:"max,omitempty" json:"max,omitempty"`
	MaxSelections int          `yaml:"max_selections,omitempty" json:"max_selections,omitempty"`
	SkipIf        *Condition   `yaml:"skip_if,omitempty" json:"skip_if,omitempty"`
}

// Skipped reports whether the question drops out of the visible sequence for
// a respondent with the given answers.
func (q Question) Skipped(r Responses) bool {
	return q.SkipIf != nil && q.SkipIf.Holds(r)
}

func (q Question) askedOf(member bool) bool {
	if member {
		return q.AppliesTo == AppliesFamilyMember || q.AppliesTo == AppliesAll
	}
	return q.AppliesTo == AppliesPrimary || q.AppliesTo == AppliesAll
}

// FanOut names the questions that drive family-member synthesis. The names
// question is also the anchor that back-navigation returns to.
type FanOut struct {
	AccountTypeQuestion   string `yaml:"account_type_question" json:"account_type_question"`
	SingleValue           string `yaml:"single_value" json:"single_value"`
	HouseholdSizeQuestion string `yaml:"household_size_question" json:"household_size_question"`
	NamesQuestion         string `yaml:"names_question" json:"names_question"`
	DefaultHouseholdSize  int    `yaml:"default_household_size" json:"default_household_size"`
}

// Catalog is the ordered, immutable question list.
type Catalog struct {
	FanOut    FanOut     `yaml:"fan_out"`
	Questions []Question `yaml:"questions"`

	position map[string]int
}

var ErrInvalidCatalog = errors.New("invalid question catalog")

// ParseCatalog decodes and checks a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DefaultCatalog returns the embedded intake questionnaire.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

func (c *Catalog) index() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}
	c.position = make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.position[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidCatalog, q.ID)
		}
		if q.Type.Kind() == "" {
			return fmt.Errorf("%w: question %s has unknown type %q", ErrInvalidCatalog, q.ID, q.Type)
		}
		switch q.AppliesTo {
		case AppliesPrimary, AppliesAll, AppliesFamilyMember:
		default:
			return fmt.Errorf("%w: question %s has unknown applies_to %q", ErrInvalidCatalog, q.ID, q.AppliesTo)
		}
		if q.Type.hasOptions() && len(q.Options) == 0 {
			return fmt.Errorf("%w: choice question %s has no options", ErrInvalidCatalog, q.ID)
		}
		if q.SkipIf != nil {
			if _, earlier := c.position[q.SkipIf.Question]; !earlier {
				return fmt.Errorf("%w: question %s skip condition refers to %s which does not precede it",
					ErrInvalidCatalog, q.ID, q.SkipIf.Question)
			}
		}
		c.position[q.ID] = i
	}

	fo := c.FanOut
	for _, id := range []string{fo.AccountTypeQuestion, fo.HouseholdSizeQuestion, fo.NamesQuestion} {
		if _, ok := c.position[id]; !ok {
			return fmt.Errorf("%w: fan_out refers to unknown question %q", ErrInvalidCatalog, id)
		}
	}
	if c.FanOut.DefaultHouseholdSize < 1 {
		c.FanOut.DefaultHouseholdSize = 2
	}
	return nil
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.position[id]
	if !ok {
		return Question{}, false
	}
	return c.Questions[i], true
}

// Position is the catalog index of id, or -1.
func (c *Catalog) Position(id string) int {
	if i, ok := c.position[id]; ok {
		return i
	}
	return -1
}

func (c *Catalog) Len() int { return len(c.Questions) }

// Visible filters the catalog for one respondent: questions whose skip
// condition holds against r are dropped, then only those asked of the
// respondent's role are kept.
func (c *Catalog) Visible(r Responses, member bool) []Question {
	out := make([]Question, 0, len(c.Questions))
	for _, q := range c.Questions {
		if q.Skipped(r) || !q.askedOf(member) {
			continue
		}
		out = append(out, q)
	}
	return out
}
