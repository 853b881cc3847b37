package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script answers each turn with a canned extraction keyed by the turn text.
// Unknown turns produce nothing new.
type script map[string]*Extraction

func (sc script) Extract(_ context.Context, req OracleRequest) (*Extraction, error) {
	if ext, ok := sc[req.Latest]; ok {
		return ext, nil
	}
	return &Extraction{Domain: req.Domain, Confidence: 0.9}, nil
}

var fixedNow = time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

func newTestMachine(oracle Oracle, opts ...Option) *Machine {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewMachine(oracle, DefaultRegistry(), opts...)
}

const (
	turnOpening   = "I was at Chennai on 12/05/2025, my name is Rahul"
	turnDenial    = "I don't know who did it"
	turnUnrelated = "It was raining that evening"
)

var longTheftStory = strings.Repeat("My phone was snatched near the market. ", 6)

func generalScript() script {
	return script{
		turnOpening: {
			Domain:     DomainGeneralComplaint,
			Confidence: 0.8,
			Fields: map[string]Field{
				FieldName:        {Value: "Rahul", Explicit: true},
				FieldDate:        {Value: "12/05/2025", Explicit: true},
				FieldLocation:    {Value: "Chennai", Explicit: true},
				FieldDescription: {Value: turnOpening + "."},
			},
		},
		turnDenial: {
			Domain:     DomainGeneralComplaint,
			Confidence: 0.8,
			Fields: map[string]Field{
				FieldAccused: {Denied: true, Explicit: true},
			},
		},
		turnUnrelated: {
			Domain:     DomainGeneralComplaint,
			Confidence: 0.8,
			Fields: map[string]Field{
				FieldAccused: {Value: "someone"},
			},
		},
	}
}

func TestMachineAsksForMissingRequiredField(t *testing.T) {
	m := newTestMachine(generalScript())

	s, res, err := m.Start(context.Background(), "s1", "9876543210", Turn{Text: turnOpening})
	require.NoError(t, err)

	assert.Equal(t, StateCollecting, s.State)
	assert.Equal(t, StateCollecting, res.State)
	assert.Equal(t, "Rahul", res.Entities[FieldName])
	assert.Equal(t, "12/05/2025", res.Entities[FieldDate])
	assert.Equal(t, "Chennai", res.Entities[FieldLocation])
	require.NotNil(t, res.Question)
	assert.Equal(t, FieldAccused, res.Question.Field)
	assert.Nil(t, res.ActionChoice)
	assert.Nil(t, res.Confirmation)
	assert.Nil(t, res.Complete)
	assert.Equal(t, fixedNow, s.CreatedAt)
}

func TestMachineDenialIsSticky(t *testing.T) {
	m := newTestMachine(generalScript())
	ctx := context.Background()

	s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnOpening})
	require.NoError(t, err)

	res, err := m.Submit(ctx, s, Turn{Text: turnDenial})
	require.NoError(t, err)
	assert.Equal(t, DeniedSentinel, res.Entities[FieldAccused])
	require.NotNil(t, res.Question)
	assert.NotEqual(t, FieldAccused, res.Question.Field)
	assert.Equal(t, FieldEvidence, res.Question.Field)

	res, err = m.Submit(ctx, s, Turn{Text: turnUnrelated})
	require.NoError(t, err)
	assert.Equal(t, DeniedSentinel, res.Entities[FieldAccused])
	assert.NotEqual(t, FieldAccused, res.Question.Field)
}

func TestMachineRepeatedTurnIsIdempotent(t *testing.T) {
	m := newTestMachine(generalScript())
	ctx := context.Background()

	s, first, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnOpening})
	require.NoError(t, err)

	second, err := m.Submit(ctx, s, Turn{Text: turnOpening})
	require.NoError(t, err)

	assert.Equal(t, first.Entities, second.Entities)
	assert.Equal(t, first.ReadinessScore, second.ReadinessScore)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Question, second.Question)
	assert.Equal(t, 1, s.Entities[FieldName].Turn)
}

func theftScript() script {
	return script{
		"My phone was snatched": {
			Domain:     DomainTheft,
			Intent:     "File FIR / Complaint",
			Confidence: 0.9,
			Fields: map[string]Field{
				FieldName:        {Value: "Rahul", Explicit: true},
				FieldDate:        {Value: "12/05/2025", Explicit: true},
				FieldLocation:    {Value: "Chennai", Explicit: true},
				FieldAccused:     {Denied: true, Explicit: true},
				FieldEvidence:    {Value: "cctv footage, bill and receipt", Explicit: true},
				FieldDescription: {Value: longTheftStory},
			},
			SuggestedSections: []string{"IPC Section 379 (Theft)"},
		},
		"He lives at 12 Anna Salai": {
			Domain:     DomainCyberFraud,
			Confidence: 0.9,
			Fields: map[string]Field{
				FieldCounterpartyAddress: {Value: "12 Anna Salai", Explicit: true},
			},
		},
	}
}

func TestMachineActionChoice(t *testing.T) {
	ctx := context.Background()

	t.Run("choices are offered once ready", func(t *testing.T) {
		m := newTestMachine(theftScript())
		s, res, err := m.Start(ctx, "s1", "9876543210", Turn{Text: "My phone was snatched"})
		require.NoError(t, err)

		assert.Equal(t, StateActionChoice, res.State)
		require.NotNil(t, res.ActionChoice)
		assert.Len(t, res.ActionChoice.Choices, 3)
		assert.Nil(t, res.Question)
		assert.Equal(t, BandReady, res.ReadinessStatus)
		assert.NotNil(t, res.FilingGuidance)
		assert.Equal(t, []string{"IPC Section 379 (Theft)"}, res.SuggestedSections)

		_, err = m.Submit(ctx, s, Turn{Text: "more details"})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

		_, err = m.SelectAction(s, "Open a bank account")
		assert.True(t, apperror.IsKind(err, apperror.KindValidationFailed))
		assert.Equal(t, StateActionChoice, s.State)
	})

	t.Run("satisfied action completes", func(t *testing.T) {
		m := newTestMachine(theftScript())
		s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: "My phone was snatched"})
		require.NoError(t, err)

		res, err := m.SelectAction(s, "file fir at police station")
		require.NoError(t, err)

		assert.Equal(t, StateComplete, res.State)
		require.NotNil(t, res.Complete)
		assert.Equal(t, "File FIR at Police Station", res.Complete.SelectedAction)

		_, err = m.SelectAction(s, "Send Legal Notice")
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
		_, err = m.Submit(ctx, s, Turn{Text: "hello"})
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	})

	t.Run("unsatisfied action asks its facts then confirms", func(t *testing.T) {
		m := newTestMachine(theftScript())
		s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: "My phone was snatched"})
		require.NoError(t, err)

		res, err := m.SelectAction(s, "Send Legal Notice")
		require.NoError(t, err)
		assert.Equal(t, StateCollecting, res.State)
		require.NotNil(t, res.Question)
		assert.Equal(t, FieldCounterpartyAddress, res.Question.Field)

		res, err = m.Submit(ctx, s, Turn{Text: "He lives at 12 Anna Salai"})
		require.NoError(t, err)
		assert.Equal(t, StateConfirmation, res.State)
		assert.Equal(t, DomainTheft, res.Domain, "domain is frozen once choices exist")
		require.NotNil(t, res.Confirmation)
		assert.Equal(t, "12 Anna Salai", res.Confirmation.Entities[FieldCounterpartyAddress])

		res, err = m.Submit(ctx, s, Turn{Text: "Yes, proceed"})
		require.NoError(t, err)
		assert.Equal(t, StateComplete, res.State)
		assert.Equal(t, "Send Legal Notice", res.Complete.SelectedAction)
	})
}

const (
	turnFull       = "Full account"
	turnCorrection = "The date was 13/05/2025"
)

func confirmScript() script {
	return script{
		turnFull: {
			Domain:     DomainGeneralComplaint,
			Confidence: 0.9,
			Fields: map[string]Field{
				FieldName:        {Value: "Rahul", Explicit: true},
				FieldDate:        {Value: "12/05/2025", Explicit: true},
				FieldLocation:    {Value: "Chennai", Explicit: true},
				FieldAccused:     {Value: "Ravi", Explicit: true},
				FieldEvidence:    {Value: "written agreement and receipt", Explicit: true},
				FieldDescription: {Value: "Ravi refused to return my deposit."},
			},
		},
		turnCorrection: {
			Domain:     DomainGeneralComplaint,
			Confidence: 0.9,
			Fields: map[string]Field{
				FieldDate: {Value: "13/05/2025", Explicit: true},
			},
		},
	}
}

func TestMachineConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("accept completes", func(t *testing.T) {
		m := newTestMachine(confirmScript())
		s, res, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnFull})
		require.NoError(t, err)
		require.Equal(t, StateConfirmation, res.State)
		assert.Equal(t, 90, res.ReadinessScore)

		res, err = m.Confirm(s, true)
		require.NoError(t, err)
		assert.Equal(t, StateComplete, res.State)
		assert.NotNil(t, res.Complete)
	})

	t.Run("reject waits for a correction", func(t *testing.T) {
		m := newTestMachine(confirmScript())
		s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnFull})
		require.NoError(t, err)

		res, err := m.Confirm(s, false)
		require.NoError(t, err)
		assert.Equal(t, StateCollecting, res.State)
		assert.Equal(t, CorrectionPrompt, res.Question.Text)

		_, err = m.Confirm(s, true)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))

		res, err = m.Submit(ctx, s, Turn{Text: "nothing to add"})
		require.NoError(t, err)
		assert.Equal(t, StateCollecting, res.State, "no change means no re-confirmation")
		assert.Equal(t, CorrectionPrompt, res.Question.Text)

		res, err = m.Submit(ctx, s, Turn{Text: turnCorrection})
		require.NoError(t, err)
		assert.Equal(t, StateConfirmation, res.State)
		assert.Equal(t, "13/05/2025", res.Entities[FieldDate])
	})

	t.Run("keyword replies", func(t *testing.T) {
		m := newTestMachine(confirmScript())
		s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnFull})
		require.NoError(t, err)
		turns := len(s.Turns)

		res, err := m.Submit(ctx, s, Turn{Text: "hmm let me think"})
		require.NoError(t, err)
		assert.Equal(t, StateConfirmation, res.State)
		assert.Len(t, s.Turns, turns)

		res, err = m.Submit(ctx, s, Turn{Text: "No, the date is wrong"})
		require.NoError(t, err)
		assert.Equal(t, StateCollecting, res.State)
		assert.True(t, s.AwaitingCorrection)
	})
}

func TestMachineOracleFailureLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	healthy := confirmScript()
	failing := false
	oracle := OracleFunc(func(ctx context.Context, req OracleRequest) (*Extraction, error) {
		if failing {
			return nil, errors.New("connection refused")
		}
		return healthy.Extract(ctx, req)
	})
	m := newTestMachine(oracle)

	s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnOpening})
	require.NoError(t, err)
	before := s.Clone()

	failing = true
	_, err = m.Submit(ctx, s, Turn{Text: turnCorrection})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOracleUnavailable))
	assert.Equal(t, before, s)
}

func TestMachineOracleTimeout(t *testing.T) {
	blocking := OracleFunc(func(ctx context.Context, _ OracleRequest) (*Extraction, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	m := newTestMachine(blocking, WithOracleTimeout(10*time.Millisecond))

	s, res, err := m.Start(context.Background(), "s1", "9876543210", Turn{Text: turnOpening})

	assert.Nil(t, s)
	assert.Nil(t, res)
	assert.True(t, apperror.IsKind(err, apperror.KindOracleUnavailable))
}

func TestMachineRejectsBadInput(t *testing.T) {
	m := newTestMachine(generalScript())
	ctx := context.Background()

	_, _, err := m.Start(ctx, "s1", "", Turn{Text: turnOpening})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, _, err = m.Start(ctx, "s1", "9876543210", Turn{Text: "   "})
	assert.True(t, apperror.IsKind(err, apperror.KindValidationFailed))

	s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnOpening})
	require.NoError(t, err)
	_, err = m.SelectAction(s, "File FIR at Police Station")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestMachineNilExtractionIsUnavailable(t *testing.T) {
	m := newTestMachine(OracleFunc(func(context.Context, OracleRequest) (*Extraction, error) {
		return nil, nil
	}))

	_, _, err := m.Start(context.Background(), "s1", "9876543210", Turn{Text: turnOpening})

	assert.True(t, apperror.IsKind(err, apperror.KindOracleUnavailable))
}

func TestRecognizeReply(t *testing.T) {
	tests := []struct {
		text string
		want Reply
	}{
		{"Yes", ReplyAccept},
		{"ok go ahead", ReplyAccept},
		{"That is correct.", ReplyAccept},
		{"No", ReplyReject},
		{"wait, something is missing", ReplyReject},
		{"no, that is not correct", ReplyReject},
		{"maybe later", ReplyUnclear},
		{"nope", ReplyUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, RecognizeReply(tt.text))
		})
	}
}

func TestMachineAmend(t *testing.T) {
	ctx := context.Background()

	t.Run("merges evidence and replans", func(t *testing.T) {
		m := newTestMachine(generalScript())
		s, _, err := m.Start(ctx, "s1", "9876543210", Turn{Text: turnOpening})
		require.NoError(t, err)
		before := s.Readiness.Score

		res, err := m.Amend(s, map[string]Field{
			FieldEvidence: {Value: "receipt.pdf", Explicit: true},
		})

		require.NoError(t, err)
		assert.Equal(t, "receipt.pdf", s.Entities[FieldEvidence].Value)
		assert.Equal(t, 1, s.Entities[FieldEvidence].Turn)
		assert.GreaterOrEqual(t, s.Readiness.Score, before)
		assert.Equal(t, s.State, res.State)
	})

	t.Run("complete sessions cannot be amended", func(t *testing.T) {
		m := newTestMachine(generalScript())
		s := &Session{ID: "s1", Principal: "9876543210", State: StateComplete, Entities: EntityStore{}}

		_, err := m.Amend(s, map[string]Field{FieldEvidence: {Value: "x"}})

		assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	})
}
