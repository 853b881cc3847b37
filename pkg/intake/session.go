package intake

import (
	"strings"
	"time"
)

type State string

const (
	StateCollecting   State = "COLLECTING"
	StateActionChoice State = "ACTION_CHOICE"
	StateConfirmation State = "CONFIRMATION"
	StateComplete     State = "COMPLETE"
)

type Source string

const (
	SourceText  Source = "text"
	SourceVoice Source = "voice"
)

// Principal identifies the owner of a session: an account id or a phone number.
type Principal string

type Turn struct {
	Text      string    `json:"text"`
	Source    Source    `json:"source"`
	At        time.Time `json:"at"`
	AudioPath string    `json:"audio_path,omitempty"`
	Language  string    `json:"language,omitempty"`
}

// Session is one structured interview. It is mutated only by Machine.
type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	Turns     []Turn    `json:"turns"`
	State     State     `json:"state"`

	Entities          EntityStore `json:"entities"`
	Domain            string      `json:"domain"`
	Intent            string      `json:"intent,omitempty"`
	Confidence        float64     `json:"confidence"`
	SuggestedSections []string    `json:"suggested_sections,omitempty"`
	Readiness         Readiness   `json:"readiness"`

	Choices        []ActionChoice `json:"choices,omitempty"`
	SelectedAction string         `json:"selected_action,omitempty"`

	Question           *Prompt `json:"question,omitempty"`
	AwaitingCorrection bool    `json:"awaiting_correction,omitempty"`

	CaseID         string    `json:"case_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func (s *Session) OwnedBy(p Principal) bool {
	return p != "" && s.Principal == p
}

// Selected returns the chosen action, if any.
func (s *Session) Selected() (*ActionChoice, bool) {
	if s.SelectedAction == "" {
		return nil, false
	}
	for i := range s.Choices {
		if s.Choices[i].Title == s.SelectedAction {
			c := s.Choices[i]
			return &c, true
		}
	}
	return nil, false
}

// DistinctTurns returns the turn texts in submission order with repeats
// removed, so re-sending the same answer does not grow the history.
func (s *Session) DistinctTurns() []string {
	seen := make(map[string]struct{}, len(s.Turns))
	parts := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		parts = append(parts, text)
	}
	return parts
}

func (s *Session) Narrative() string {
	return JoinSentences(s.DistinctTurns())
}

func (s *Session) Clone() *Session {
	cp := *s
	cp.Turns = append([]Turn(nil), s.Turns...)
	cp.Entities = s.Entities.Clone()
	cp.SuggestedSections = append([]string(nil), s.SuggestedSections...)
	cp.Choices = make([]ActionChoice, len(s.Choices))
	for i, c := range s.Choices {
		cp.Choices[i] = c.clone()
	}
	if s.Choices == nil {
		cp.Choices = nil
	}
	if s.Question != nil {
		q := *s.Question
		cp.Question = &q
	}
	cp.Readiness = s.Readiness.clone()
	return &cp
}

// JoinSentences joins turn texts, closing each with a full stop if needed.
func JoinSentences(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(p)
		if !strings.ContainsAny(p[len(p)-1:], ".!?") {
			b.WriteString(".")
		}
	}
	return b.String()
}
