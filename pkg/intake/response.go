package intake

// Response is the tagged result of every session operation. State selects
// which payload is populated; exactly one of Question, ActionChoice,
// Confirmation or Complete is set.
type Response struct {
	SessionID string `json:"session_id"`
	State     State  `json:"state"`

	Question     *Prompt              `json:"question,omitempty"`
	ActionChoice *ActionChoicePayload `json:"action_choice,omitempty"`
	Confirmation *ConfirmationPayload `json:"confirmation,omitempty"`
	Complete     *CompletePayload     `json:"complete,omitempty"`

	Entities          map[string]string `json:"extracted_entities"`
	Intent            string            `json:"intent,omitempty"`
	Domain            string            `json:"domain,omitempty"`
	ReadinessScore    int               `json:"readiness_score"`
	ReadinessStatus   Band              `json:"readiness_status"`
	SuggestedSections []string          `json:"suggested_sections,omitempty"`
	FilingGuidance    *Guidance         `json:"filing_guidance,omitempty"`
	Transcript        string            `json:"transcript,omitempty"`
}

type ActionChoicePayload struct {
	Choices []ChoiceSummary `json:"choices"`
}

// ChoiceSummary is the client view of an ActionChoice.
type ChoiceSummary struct {
	Title string   `json:"title"`
	Pros  []string `json:"pros"`
	Cons  []string `json:"cons"`
}

type ConfirmationPayload struct {
	Message  string            `json:"message"`
	Entities map[string]string `json:"entities"`
}

type CompletePayload struct {
	Message        string            `json:"message"`
	Entities       map[string]string `json:"entities"`
	SelectedAction string            `json:"selected_action,omitempty"`
	Case           *CaseSummary      `json:"case,omitempty"`
}

// CaseSummary is what the case collaborator reports back after creation.
type CaseSummary struct {
	CaseID          string  `json:"case_id"`
	ReferenceNumber string  `json:"reference_number"`
	Status          string  `json:"status"`
	Completeness    float64 `json:"completeness"`
}

const (
	confirmationMessage = "Please review the details below. Reply yes to proceed or no to correct them."
	completeMessage     = "Thank you. Your details are confirmed and your document is being prepared."
)

// Respond renders the session's current state without changing it.
func Respond(s *Session) *Response {
	r := &Response{
		SessionID:         s.ID,
		State:             s.State,
		Entities:          s.Entities.Values(),
		Intent:            s.Intent,
		Domain:            s.Domain,
		ReadinessScore:    s.Readiness.Score,
		ReadinessStatus:   s.Readiness.Band,
		SuggestedSections: append([]string(nil), s.SuggestedSections...),
	}
	if s.Readiness.Guidance != nil {
		g := s.Readiness.Guidance.clone()
		r.FilingGuidance = &g
	}

	switch s.State {
	case StateActionChoice:
		choices := make([]ChoiceSummary, len(s.Choices))
		for i, c := range s.Choices {
			c = c.clone()
			choices[i] = ChoiceSummary{Title: c.Title, Pros: c.Pros, Cons: c.Cons}
		}
		r.ActionChoice = &ActionChoicePayload{Choices: choices}
	case StateConfirmation:
		r.Confirmation = &ConfirmationPayload{Message: confirmationMessage, Entities: s.Entities.Values()}
	case StateComplete:
		r.Complete = &CompletePayload{
			Message:        completeMessage,
			Entities:       s.Entities.Values(),
			SelectedAction: s.SelectedAction,
		}
	default:
		q := Prompt{Text: ElaborationPrompt}
		if s.Question != nil {
			q = *s.Question
		}
		r.Question = &q
	}
	return r
}
