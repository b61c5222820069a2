package request_models

import "encoding/json"

// AnswerRequest carries an answer in its natural JSON shape: a string for
// single choice and free text, a string array for multi choice and names, a
// number for integer and slider, and {"feet","inches"} for height.
type AnswerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

type SubmittedMember struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Responses map[string]json.RawMessage `json:"responses"`
}

// QuestionnairePayload is a completed questionnaire as produced by a client-side flow.
type QuestionnairePayload struct {
	PrimaryResponses map[string]json.RawMessage `json:"primaryResponses"`
	FamilyMembers    []SubmittedMember          `json:"familyMembers"`
}
