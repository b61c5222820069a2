package questionnaire

import "fmt"

// ValidationError blocks a forward transition. Reason is shown to the user as is.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Reason)
}

// Validate checks a working answer against its question. A number outside
// the question's bounds fails even when the question is optional; otherwise
// only required questions can fail.
func Validate(q Question, a Answer) *ValidationError {
	if verr := checkRange(q, a); verr != nil {
		return verr
	}
	if !q.Required {
		return nil
	}

	if q.Type == TypeMultiChoice {
		selected := 0
		if a.Kind == KindMulti {
			selected = len(a.Choices)
		}
		if selected == 0 {
			return &ValidationError{QuestionID: q.ID, Reason: "Please select at least one option"}
		}
		if q.MaxSelections > 0 && selected > q.MaxSelections {
			return &ValidationError{
				QuestionID: q.ID,
				Reason:     fmt.Sprintf("Please select no more than %d options", q.MaxSelections),
			}
		}
		return nil
	}

	if a.IsEmpty() {
		return &ValidationError{QuestionID: q.ID, Reason: "This question is required"}
	}
	return nil
}

func checkRange(q Question, a Answer) *ValidationError {
	if (a.Kind != KindInteger && a.Kind != KindSlider) || a.Number == nil {
		return nil
	}
	n := *a.Number
	low := q.Min != nil && n < *q.Min
	high := q.Max != nil && n > *q.Max
	if !low && !high {
		return nil
	}

	var reason string
	switch {
	case q.Min != nil && q.Max != nil:
		reason = fmt.Sprintf("Please choose a value between %d and %d", *q.Min, *q.Max)
	case low:
		reason = fmt.Sprintf("Please enter a value of at least %d", *q.Min)
	default:
		reason = fmt.Sprintf("Please enter a value no greater than %d", *q.Max)
	}
	return &ValidationError{QuestionID: q.ID, Reason: reason}
}
