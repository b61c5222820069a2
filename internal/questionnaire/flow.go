package questionnaire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PrimaryRespondent is the MemberIndex value used while the account holder
// is answering.
const PrimaryRespondent = -1

var (
	ErrFlowCompleted = errors.New("questionnaire already completed")
	ErrNoQuestion    = errors.New("no question at the current position")
)

// State is one in-progress questionnaire session. Transitions on Flow take a
// State and return a new one; the input is never modified.
type State struct {
	PrimaryResponses Responses `json:"primary_responses"`
	FamilyMembers    []Member  `json:"family_members"`
	MemberIndex      int       `json:"current_member_index"`
	QuestionIndex    int       `json:"current_question_index"`
	CurrentAnswer    Answer    `json:"current_answer"`
	Error            string    `json:"error,omitempty"`
	Completed        bool      `json:"completed"`
}

func (s State) clone() State {
	out := s
	out.PrimaryResponses = s.PrimaryResponses.Clone()
	out.FamilyMembers = make([]Member, len(s.FamilyMembers))
	for i, m := range s.FamilyMembers {
		out.FamilyMembers[i] = m.Clone()
	}
	out.CurrentAnswer = s.CurrentAnswer.Clone()
	return out
}

// answeringMember is true when a family member is the active respondent.
func (s State) answeringMember() bool {
	return s.MemberIndex >= 0 && s.MemberIndex < len(s.FamilyMembers)
}

func (s State) responses() Responses {
	if s.answeringMember() {
		return s.FamilyMembers[s.MemberIndex].Responses
	}
	return s.PrimaryResponses
}

// commit stores a on the active respondent. Zero-kind answers are not stored.
func (s *State) commit(id string, a Answer) {
	if a.Kind == "" {
		return
	}
	if s.answeringMember() {
		s.FamilyMembers[s.MemberIndex].Responses[id] = a.Clone()
		return
	}
	s.PrimaryResponses[id] = a.Clone()
}

type Flow struct {
	catalog *Catalog
}

func NewFlow(c *Catalog) *Flow {
	return &Flow{catalog: c}
}

func (f *Flow) Catalog() *Catalog { return f.catalog }

// Start returns a fresh session positioned on the primary's first question.
func (f *Flow) Start() State {
	return f.Load(State{
		PrimaryResponses: Responses{},
		FamilyMembers:    []Member{},
		MemberIndex:      PrimaryRespondent,
	})
}

// Visible is the active respondent's question sequence.
func (f *Flow) Visible(s State) []Question {
	return f.catalog.Visible(s.responses(), s.answeringMember())
}

// Current is the question on screen.
func (f *Flow) Current(s State) (Question, bool) {
	if s.Completed {
		return Question{}, false
	}
	vis := f.Visible(s)
	if s.QuestionIndex < 0 || s.QuestionIndex >= len(vis) {
		return Question{}, false
	}
	return vis[s.QuestionIndex], true
}

// Load pre-populates the working answer from the respondent's stored answer
// for the current question, or the question's empty value, and clears any
// pending validation error.
func (f *Flow) Load(s State) State {
	out := s
	out.Error = ""
	q, ok := f.Current(s)
	if !ok {
		out.CurrentAnswer = Answer{}
		return out
	}
	if stored, ok := s.responses()[q.ID]; ok {
		out.CurrentAnswer = stored.Clone()
		return out
	}
	out.CurrentAnswer = Empty(q)
	return out
}

// SetAnswer replaces the working answer without committing it.
func (f *Flow) SetAnswer(s State, a Answer) State {
	out := s
	out.CurrentAnswer = a.Clone()
	out.Error = ""
	return out
}

// Advance validates and commits the working answer, then moves forward. On
// validation failure the returned state only carries the error message and
// the returned error is a *ValidationError. When the last respondent
// finishes, the completion payload is returned alongside a completed state.
func (f *Flow) Advance(s State) (State, *Payload, error) {
	if s.Completed {
		return s, nil, ErrFlowCompleted
	}
	q, ok := f.Current(s)
	if !ok {
		return s, nil, ErrNoQuestion
	}
	if verr := Validate(q, s.CurrentAnswer); verr != nil {
		out := s
		out.Error = verr.Reason
		return out, nil, verr
	}

	next := s.clone()
	next.Error = ""
	next.commit(q.ID, s.CurrentAnswer)

	fo := f.catalog.FanOut
	if q.ID == fo.NamesQuestion && !next.answeringMember() &&
		next.PrimaryResponses[fo.AccountTypeQuestion].Scalar() != fo.SingleValue {
		size := householdSize(next.PrimaryResponses[fo.HouseholdSizeQuestion], fo.DefaultHouseholdSize)
		next.FamilyMembers = fanOut(next.FamilyMembers, s.CurrentAnswer.List(), size)
		next.MemberIndex = 0
		next.QuestionIndex = 0
		return f.Load(next), nil, nil
	}

	pos := f.catalog.Position(q.ID)
	for i, v := range f.Visible(next) {
		if f.catalog.Position(v.ID) > pos {
			next.QuestionIndex = i
			return f.Load(next), nil, nil
		}
	}

	if next.answeringMember() && next.MemberIndex < len(next.FamilyMembers)-1 {
		next.MemberIndex++
		next.QuestionIndex = 0
		return f.Load(next), nil, nil
	}

	if !f.fansOut(next.PrimaryResponses) {
		next.FamilyMembers = nil
	}
	next.Completed = true
	next.CurrentAnswer = Answer{}
	return next, f.payload(next), nil
}

// fansOut reports whether the primary's answers still call for per-member
// questions. Members collected before the account type changed are stale
// otherwise.
func (f *Flow) fansOut(primary Responses) bool {
	fo := f.catalog.FanOut
	if primary[fo.AccountTypeQuestion].Scalar() == fo.SingleValue {
		return false
	}
	for _, q := range f.catalog.Visible(primary, false) {
		if q.ID == fo.NamesQuestion {
			return true
		}
	}
	return false
}

// Retreat steps back one question, committing the working answer without
// validation. From a member's first question it moves to the previous
// member's last question, and from the first member's first question back to
// the primary's names question.
func (f *Flow) Retreat(s State) State {
	if s.Completed {
		return s
	}
	next := s.clone()
	next.Error = ""

	if s.QuestionIndex > 0 {
		vis := f.Visible(s)
		if s.QuestionIndex >= len(vis) {
			next.QuestionIndex = max(len(vis)-1, 0)
			return f.Load(next)
		}
		q := vis[s.QuestionIndex]
		next.commit(q.ID, s.CurrentAnswer)

		pos := f.catalog.Position(q.ID)
		prev := 0
		for i, v := range f.Visible(next) {
			if f.catalog.Position(v.ID) < pos {
				prev = i
			}
		}
		next.QuestionIndex = prev
		return f.Load(next)
	}

	switch {
	case s.MemberIndex > 0:
		next.MemberIndex--
		next.QuestionIndex = max(len(f.Visible(next))-1, 0)
		return f.Load(next)
	case s.MemberIndex == 0:
		next.MemberIndex = PrimaryRespondent
		next.QuestionIndex = f.anchorIndex(next)
		return f.Load(next)
	}
	return s
}

// anchorIndex locates the names question in the primary's visible sequence,
// falling back to the last primary question that precedes it.
func (f *Flow) anchorIndex(s State) int {
	anchor := f.catalog.Position(f.catalog.FanOut.NamesQuestion)
	idx := 0
	for i, q := range f.Visible(s) {
		if f.catalog.Position(q.ID) <= anchor {
			idx = i
		}
	}
	return idx
}

// payload assembles the completion output, dropping answers to questions
// that ended up skipped for their respondent.
func (f *Flow) payload(s State) *Payload {
	p := &Payload{
		PrimaryResponses: f.prune(s.PrimaryResponses, false),
		FamilyMembers:    make([]Member, len(s.FamilyMembers)),
	}
	for i, m := range s.FamilyMembers {
		m = m.Clone()
		m.Responses = f.prune(m.Responses, true)
		p.FamilyMembers[i] = m
	}
	return p
}

func (f *Flow) prune(r Responses, member bool) Responses {
	out := Responses{}
	for _, q := range f.catalog.Visible(r, member) {
		if a, ok := r[q.ID]; ok {
			out[q.ID] = a.Clone()
		}
	}
	return out
}

func householdSize(a Answer, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(a.Scalar()))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// fanOut builds size members named from names. Members already present at a
// position keep their answers so a back-and-forth over the names question
// does not lose work.
func fanOut(existing []Member, names []string, size int) []Member {
	members := make([]Member, size)
	for i := range size {
		name := ""
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}
		if name == "" {
			name = fmt.Sprintf("Person %d", i+1)
		}
		m := Member{ID: fmt.Sprintf("member-%d", i), Name: name, Responses: Responses{}}
		if i < len(existing) {
			m.Responses = existing[i].Responses.Clone()
		}
		members[i] = m
	}
	return members
}

// Progress is presentation data for the active respondent.
type Progress struct {
	Position   int     `json:"position"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
	Respondent string  `json:"respondent"`
	IsMember   bool    `json:"is_family_member"`
	IsLast     bool    `json:"is_last"`
}

func (f *Flow) Progress(s State, primaryName string) Progress {
	total := len(f.Visible(s))
	p := Progress{
		Position:   s.QuestionIndex + 1,
		Total:      total,
		Respondent: f.RespondentName(s, primaryName),
		IsMember:   s.answeringMember(),
	}
	if s.Completed {
		p.Position = total
	}
	if total > 0 {
		p.Percent = float64(p.Position) / float64(total) * 100
	}
	lastRespondent := len(s.FamilyMembers) == 0
	if s.answeringMember() {
		lastRespondent = s.MemberIndex == len(s.FamilyMembers)-1
	}
	p.IsLast = p.Position == total && lastRespondent
	return p
}

// RespondentName is the display name of the active respondent.
func (f *Flow) RespondentName(s State, primaryName string) string {
	if s.answeringMember() {
		return s.FamilyMembers[s.MemberIndex].Name
	}
	if strings.TrimSpace(primaryName) == "" {
		return "you"
	}
	return primaryName
}

// Prompt is the current question text with [Name] substituted.
func (f *Flow) Prompt(s State, primaryName string) string {
	q, ok := f.Current(s)
	if !ok {
		return ""
	}
	return strings.ReplaceAll(q.Text, "[Name]", f.RespondentName(s, primaryName))
}
