package response_models

import "fullgorilla/internal/questionnaire"

type QuestionResponse struct {
	ID            string                     `json:"id"`
	Section       string                     `json:"section"`
	Text          string                     `json:"text"`
	Type          questionnaire.QuestionType `json:"type"`
	AppliesTo     questionnaire.AppliesTo    `json:"applies_to"`
	Required      bool                       `json:"required"`
	Options       []questionnaire.Option     `json:"options,omitempty"`
	Placeholder   string                     `json:"placeholder,omitempty"`
	Min           *int                       `json:"min,omitempty"`
	Max           *int                       `json:"max,omitempty"`
	MaxSelections int                        `json:"max_selections,omitempty"`
}

func NewQuestionResponse(q questionnaire.Question, prompt string) QuestionResponse {
	if prompt == "" {
		prompt = q.Text
	}
	return QuestionResponse{
		ID:            q.ID,
		Section:       q.Section,
		Text:          prompt,
		Type:          q.Type,
		AppliesTo:     q.AppliesTo,
		Required:      q.Required,
		Options:       q.Options,
		Placeholder:   q.Placeholder,
		Min:           q.Min,
		Max:           q.Max,
		MaxSelections: q.MaxSelections,
	}
}

type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Question  *QuestionResponse      `json:"question,omitempty"`
	Answer    any                    `json:"answer"`
	Error     string                 `json:"error,omitempty"`
	Progress  questionnaire.Progress `json:"progress"`
	Completed bool                   `json:"completed"`
	Result    *CompletionResponse    `json:"result,omitempty"`
}

type CompletionResponse struct {
	Cookbooks []CookbookResponse `json:"cookbooks"`
}
