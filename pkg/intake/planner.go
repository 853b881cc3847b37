package intake

// Prompt is the next question for the principal. Field is empty for generic
// prompts.
type Prompt struct {
	Field string `json:"field,omitempty"`
	Text  string `json:"text"`
}

type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Next returns the prompt for the highest priority unanswered field. When an
// action is selected its facts are asked first. Denied fields are skipped. If
// nothing is missing but confidence is below the profile minimum a generic
// elaboration prompt is returned. ok is false when there is nothing to ask.
func (pl *Planner) Next(entities EntityStore, p *Profile, confidence float64, action *ActionChoice) (Prompt, bool) {
	if action != nil {
		if f, ok := firstUnanswered(entities, p.Priority, action.RequiredFields); ok {
			return Prompt{Field: f, Text: p.Prompt(f)}, true
		}
	}
	if f, ok := firstUnanswered(entities, p.Priority, p.RequiredFields); ok {
		return Prompt{Field: f, Text: p.Prompt(f)}, true
	}
	if confidence < p.MinConfidence {
		return Prompt{Text: ElaborationPrompt}, true
	}
	return Prompt{}, false
}

// Elaborate is used when the required facts are in but the score is still
// below the ready threshold: optional facts first, then a generic prompt.
func (pl *Planner) Elaborate(entities EntityStore, p *Profile) Prompt {
	if f, ok := firstUnanswered(entities, p.Priority, p.OptionalFields); ok {
		return Prompt{Field: f, Text: p.Prompt(f)}
	}
	return Prompt{Text: ElaborationPrompt}
}

// Missing lists the required fields, and the action's fields, that are still
// unanswered, in ask order.
func (pl *Planner) Missing(entities EntityStore, p *Profile, action *ActionChoice) []string {
	var out []string
	seen := map[string]bool{}
	collect := func(fields []string) {
		for _, f := range ordered(p.Priority, fields) {
			if !seen[f] && !entities.Satisfied(f) {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	if action != nil {
		collect(action.RequiredFields)
	}
	collect(p.RequiredFields)
	return out
}

func firstUnanswered(entities EntityStore, priority, fields []string) (string, bool) {
	for _, f := range ordered(priority, fields) {
		if !entities.Satisfied(f) {
			return f, true
		}
	}
	return "", false
}

// ordered sorts fields by their position in priority; fields not listed keep
// their relative order after the listed ones.
func ordered(priority, fields []string) []string {
	want := make(map[string]bool, len(fields))
	for _, f := range fields {
		want[f] = true
	}
	out := make([]string, 0, len(fields))
	placed := make(map[string]bool, len(fields))
	for _, f := range priority {
		if want[f] && !placed[f] {
			out = append(out, f)
			placed[f] = true
		}
	}
	for _, f := range fields {
		if !placed[f] {
			out = append(out, f)
			placed[f] = true
		}
	}
	return out
}
