package intake

import (
	"math"
	"strings"
)

type Band string

const (
	BandNotActionable   Band = "not_actionable"
	BandNeedsMoreDetail Band = "needs_more_detail"
	BandReady           Band = "ready"
)

// Readiness is the scorer output. Guidance is set only in the ready band.
type Readiness struct {
	Score    int       `json:"score"`
	Band     Band      `json:"status"`
	Guidance *Guidance `json:"filing_guidance,omitempty"`
}

func (r Readiness) clone() Readiness {
	if r.Guidance != nil {
		g := r.Guidance.clone()
		r.Guidance = &g
	}
	return r
}

const (
	completenessWeight = 60.0
	evidenceWeight     = 30.0
	evidencePerKeyword = 10.0
	deniedCredit       = 0.5
	// used when a profile has no required fields
	descriptionOnlyCredit = 40.0
)

var defaultEvidenceKeywords = []string{
	"written", "agreement", "contract", "deed", "bill", "invoice",
	"witness", "cctv", "recording", "photo", "police", "complaint",
	"receipt", "proof", "signed", "screenshot", "statement",
}

// Scorer computes readiness from an entity snapshot and a domain profile.
type Scorer struct {
	evidenceKeywords []string
}

func NewScorer(evidenceKeywords ...string) *Scorer {
	if len(evidenceKeywords) == 0 {
		evidenceKeywords = defaultEvidenceKeywords
	}
	return &Scorer{evidenceKeywords: evidenceKeywords}
}

func (s *Scorer) Score(entities EntityStore, p *Profile) Readiness {
	total := s.completeness(entities, p) + s.evidence(entities) + specificity(entities)
	score := int(math.Floor(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	r := Readiness{Score: score, Band: bandFor(score, p.Thresholds)}
	if r.Band == BandReady {
		g := GuidanceFor(p, entities)
		r.Guidance = &g
	}
	return r
}

func bandFor(score int, t Thresholds) Band {
	switch {
	case score >= t.Ready:
		return BandReady
	case score >= t.NeedsMoreDetail:
		return BandNeedsMoreDetail
	default:
		return BandNotActionable
	}
}

func (s *Scorer) completeness(entities EntityStore, p *Profile) float64 {
	if len(p.RequiredFields) == 0 {
		if entities.Filled(FieldDescription) {
			return descriptionOnlyCredit
		}
		return 0
	}
	credit := 0.0
	for _, f := range p.RequiredFields {
		switch entities.Presence(f) {
		case PresenceFilled:
			credit++
		case PresenceDenied:
			credit += deniedCredit
		}
	}
	return credit / float64(len(p.RequiredFields)) * completenessWeight
}

// evidence counts distinct keywords across filled values only, so adding a
// value can only add keywords and denying one can only remove them.
func (s *Scorer) evidence(entities EntityStore) float64 {
	var b strings.Builder
	for _, k := range entities.Keys() {
		if entities.Filled(k) {
			b.WriteString(strings.ToLower(entities[k].Value))
			b.WriteString(" ")
		}
	}
	text := b.String()

	points := 0.0
	for _, kw := range s.evidenceKeywords {
		if strings.Contains(text, kw) {
			points += evidencePerKeyword
		}
		if points >= evidenceWeight {
			return evidenceWeight
		}
	}
	return points
}

func specificity(entities EntityStore) float64 {
	if !entities.Filled(FieldDescription) {
		return 0
	}
	n := len(entities[FieldDescription].Value)
	switch {
	case n > 200:
		return 10
	case n > 100:
		return 5
	default:
		return 0
	}
}
