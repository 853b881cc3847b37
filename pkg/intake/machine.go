package intake

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
)

const DefaultOracleTimeout = 15 * time.Second

// Machine owns the session transition rules. It does no locking and no
// persistence; callers serialize access per session. Every transition works
// on a copy and only replaces the caller's session when it succeeds.
type Machine struct {
	oracle   Oracle
	registry *Registry
	scorer   *Scorer
	planner  *Planner
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Machine)

func WithOracleTimeout(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithScorer(s *Scorer) Option {
	return func(m *Machine) { m.scorer = s }
}

func NewMachine(oracle Oracle, registry *Registry, opts ...Option) *Machine {
	m := &Machine{
		oracle:   oracle,
		registry: registry,
		scorer:   NewScorer(),
		planner:  NewPlanner(),
		timeout:  DefaultOracleTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Registry() *Registry {
	return m.registry
}

// Start creates a session from its first turn. No session exists if the
// first turn fails.
func (m *Machine) Start(ctx context.Context, id string, principal Principal, turn Turn) (*Session, *Response, error) {
	if principal == "" {
		return nil, nil, apperror.New(apperror.KindForbidden, "missing principal")
	}
	now := m.now()
	s := &Session{
		ID:             id,
		Principal:      principal,
		State:          StateCollecting,
		Entities:       EntityStore{},
		Domain:         "",
		CreatedAt:      now,
		LastActivityAt: now,
	}
	res, err := m.Submit(ctx, s, turn)
	if err != nil {
		return nil, nil, err
	}
	return s, res, nil
}

// Submit processes one text turn. Voice turns arrive here already
// transcribed and take exactly the same path.
func (m *Machine) Submit(ctx context.Context, s *Session, turn Turn) (*Response, error) {
	turn.Text = strings.TrimSpace(turn.Text)
	if turn.Text == "" {
		return nil, apperror.ValidationFailed("answer text is empty")
	}
	if turn.Source == "" {
		turn.Source = SourceText
	}
	if turn.At.IsZero() {
		turn.At = m.now()
	}

	switch s.State {
	case StateCollecting:
		return m.collect(ctx, s, turn)
	case StateConfirmation:
		switch RecognizeReply(turn.Text) {
		case ReplyAccept:
			return m.confirm(s, true, &turn)
		case ReplyReject:
			return m.confirm(s, false, &turn)
		default:
			return Respond(s), nil
		}
	case StateActionChoice:
		return nil, apperror.InvalidState("session %s is waiting for an action choice", s.ID)
	default:
		return nil, apperror.InvalidState("session %s is %s", s.ID, s.State)
	}
}

func (m *Machine) collect(ctx context.Context, s *Session, turn Turn) (*Response, error) {
	c := s.Clone()
	c.Turns = append(c.Turns, turn)
	turnNo := len(c.Turns)
	asked := ""
	if s.Question != nil {
		asked = s.Question.Field
	}

	octx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ext, err := m.oracle.Extract(octx, OracleRequest{
		Narrative: c.Narrative(),
		Turns:     c.DistinctTurns(),
		Latest:    turn.Text,
		Asked:     asked,
		Known:     c.Entities.Values(),
		Domain:    c.Domain,
		Language:  turn.Language,
	})
	if err != nil {
		return nil, apperror.OracleUnavailable(err)
	}
	if ext == nil {
		return nil, apperror.OracleUnavailable(errors.New("oracle returned no result"))
	}

	if c.Entities.Merge(ext.Fields, turnNo) {
		c.AwaitingCorrection = false
	}
	// The domain is fixed once the choice set has been produced.
	if len(c.Choices) == 0 && ext.Domain != "" && m.registry.Has(ext.Domain) {
		c.Domain = ext.Domain
	}
	if c.Domain == "" {
		c.Domain = m.registry.Lookup("").Key
	}
	if ext.Intent != "" {
		c.Intent = ext.Intent
	}
	c.Confidence = ext.Confidence
	if len(ext.SuggestedSections) > 0 {
		c.SuggestedSections = append([]string(nil), ext.SuggestedSections...)
	}

	m.advance(c)
	c.LastActivityAt = m.now()
	*s = *c
	return Respond(s), nil
}

// advance picks the next state for a COLLECTING session after a merge.
func (m *Machine) advance(c *Session) {
	p := m.registry.Lookup(c.Domain)
	c.Readiness = m.scorer.Score(c.Entities, p)
	action, hasAction := c.Selected()

	if p.RequiresAction && !hasAction && len(c.Choices) == 0 && c.Readiness.Score >= p.Thresholds.Action {
		c.Choices = make([]ActionChoice, len(p.Actions))
		for i, a := range p.Actions {
			c.Choices[i] = a.clone()
		}
		c.State = StateActionChoice
		c.Question = nil
		return
	}

	actionDone := !p.RequiresAction || (hasAction && allSatisfied(c.Entities, action.RequiredFields))
	if c.Readiness.Band == BandReady && actionDone && !c.AwaitingCorrection {
		c.State = StateConfirmation
		c.Question = nil
		return
	}

	c.State = StateCollecting
	c.Question = m.nextQuestion(c, p, action)
}

func (m *Machine) nextQuestion(c *Session, p *Profile, action *ActionChoice) *Prompt {
	if c.AwaitingCorrection {
		return &Prompt{Text: CorrectionPrompt}
	}
	if q, ok := m.planner.Next(c.Entities, p, c.Confidence, action); ok {
		return &q
	}
	q := m.planner.Elaborate(c.Entities, p)
	return &q
}

// SelectAction records the principal's choice from the presented set.
func (m *Machine) SelectAction(s *Session, title string) (*Response, error) {
	if s.State != StateActionChoice {
		return nil, apperror.InvalidState("cannot select an action while %s", s.State)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("action title is empty")
	}

	c := s.Clone()
	var chosen *ActionChoice
	for i := range c.Choices {
		if strings.EqualFold(c.Choices[i].Title, title) {
			chosen = &c.Choices[i]
			break
		}
	}
	if chosen == nil {
		return nil, apperror.ValidationFailed("%q is not one of the presented actions", title)
	}
	c.SelectedAction = chosen.Title

	if allSatisfied(c.Entities, chosen.RequiredFields) {
		c.State = StateComplete
		c.Question = nil
	} else {
		p := m.registry.Lookup(c.Domain)
		c.State = StateCollecting
		c.Question = m.nextQuestion(c, p, chosen)
	}
	c.LastActivityAt = m.now()
	*s = *c
	return Respond(s), nil
}

// Amend merges facts supplied outside the conversation, such as an uploaded
// evidence file, without consulting the oracle. A collecting session is
// re-planned; other states only rescore.
func (m *Machine) Amend(s *Session, fields map[string]Field) (*Response, error) {
	if s.State == StateComplete {
		return nil, apperror.InvalidState("session %s is %s", s.ID, s.State)
	}
	if len(fields) == 0 {
		return Respond(s), nil
	}

	c := s.Clone()
	// A supplied value overrides an earlier denial.
	for name, f := range fields {
		if f.Value != "" && c.Entities.Presence(name) == PresenceDenied {
			delete(c.Entities, name)
		}
	}
	c.Entities.Merge(fields, len(c.Turns))
	if c.State == StateCollecting {
		m.advance(c)
	} else {
		c.Readiness = m.scorer.Score(c.Entities, m.registry.Lookup(c.Domain))
	}
	c.LastActivityAt = m.now()
	*s = *c
	return Respond(s), nil
}

// Confirm accepts or rejects the reviewed snapshot.
func (m *Machine) Confirm(s *Session, accept bool) (*Response, error) {
	return m.confirm(s, accept, nil)
}

func (m *Machine) confirm(s *Session, accept bool, turn *Turn) (*Response, error) {
	if s.State != StateConfirmation {
		return nil, apperror.InvalidState("cannot confirm while %s", s.State)
	}
	c := s.Clone()
	if turn != nil {
		c.Turns = append(c.Turns, *turn)
	}
	if accept {
		c.State = StateComplete
		c.Question = nil
	} else {
		c.State = StateCollecting
		c.AwaitingCorrection = true
		c.Question = &Prompt{Text: CorrectionPrompt}
	}
	c.LastActivityAt = m.now()
	*s = *c
	return Respond(s), nil
}

func allSatisfied(entities EntityStore, fields []string) bool {
	for _, f := range fields {
		if !entities.Satisfied(f) {
			return false
		}
	}
	return true
}
