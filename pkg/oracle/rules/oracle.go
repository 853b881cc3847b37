// Package rules is the offline extraction oracle. It reads the conversation
// with regular expressions and keyword tables, so it never fails for lack of a
// model and is the last link in the oracle chain.
package rules

import (
	"context"
	"strings"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

const (
	historyConfidence = 0.6
	latestConfidence  = 0.9
)

type Oracle struct{}

func New() *Oracle {
	return &Oracle{}
}

func (o *Oracle) Name() string {
	return "rules"
}

func (o *Oracle) Extract(ctx context.Context, req intake.OracleRequest) (*intake.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	turns := req.Turns
	if len(turns) == 0 && strings.TrimSpace(req.Latest) != "" {
		turns = []string{req.Latest}
	}
	narrative := req.Narrative
	if narrative == "" {
		narrative = intake.JoinSentences(turns)
	}

	// 1. Everything said so far, re-derived. These never override a denial.
	fields := map[string]intake.Field{}
	history := fold(turns)
	for f, v := range history {
		fields[f] = intake.Field{Value: v, Confidence: historyConfidence}
	}

	// 2. What the latest turn states is explicit.
	latest := read(req.Latest)
	if len(latest.values) == 0 && len(latest.denied) == 0 && req.Asked != "" {
		bindBareAnswer(&latest, req.Asked, req.Latest)
	}
	for f, v := range latest.values {
		if isSentenceField(f) && history[f] != "" {
			v = combine(f, history[f], v)
		}
		fields[f] = intake.Field{Value: v, Explicit: true, Confidence: latestConfidence}
	}
	for f := range latest.denied {
		fields[f] = intake.Field{Denied: true, Explicit: true, Confidence: latestConfidence}
	}

	fields[intake.FieldDescription] = intake.Field{Value: narrative, Confidence: latestConfidence}

	domain := ClassifyDomain(narrative)
	if domain == "" {
		domain = req.Domain
	}

	has := func(f string) bool {
		if fl, ok := fields[f]; ok && fl.Value != "" && !fl.Denied {
			return true
		}
		v := req.Known[f]
		return v != "" && v != intake.DeniedSentinel
	}

	return &intake.Extraction{
		Fields:            fields,
		Intent:            ClassifyIntent(narrative),
		Domain:            domain,
		Confidence:        Confidence(narrative, has),
		SuggestedSections: SuggestSections(narrative, domain),
	}, nil
}

func bindBareAnswer(r *reading, asked, text string) {
	text = strings.TrimRight(strings.TrimSpace(text), ".!?")
	if bareNegative.MatchString(text) {
		r.denied[asked] = true
		return
	}
	if v, ok := bareAnswer(asked, text); ok {
		r.values[asked] = v
	}
}
