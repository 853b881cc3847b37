package rules

import (
	"strings"
	"unicode"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// reading is what a single turn says about each field.
type reading struct {
	values map[string]string
	denied map[string]bool
}

func read(text string) reading {
	r := reading{values: map[string]string{}, denied: map[string]bool{}}
	hits := map[string][]string{}

	for _, s := range splitSentences(text) {
		suppressed := map[string]bool{}
		for _, f := range denialFields {
			if denialPatterns[f].MatchString(s) {
				r.denied[f] = true
				suppressed[f] = true
			}
		}

		for f, v := range scalars(s) {
			if !suppressed[f] {
				r.values[f] = v
			}
		}

		lower := strings.ToLower(s)
		for _, f := range sentenceFields {
			if !suppressed[f] && containsAny(lower, sentenceKeywords[f]) {
				hits[f] = append(hits[f], s)
			}
		}
	}

	for f, sentences := range hits {
		r.values[f] = intake.JoinSentences(sentences)
	}
	// A value stated elsewhere in the same turn wins over a denial.
	for f := range r.denied {
		if _, ok := r.values[f]; ok {
			delete(r.denied, f)
		}
	}
	return r
}

// scalars pulls the single-valued facts out of one sentence.
func scalars(s string) map[string]string {
	out := map[string]string{}

	if m := namePattern.FindStringSubmatch(s); m != nil {
		if v := properNoun(m[1]); v != "" {
			out[intake.FieldName] = v
		}
	}

	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			out[intake.FieldDate] = m[1]
			break
		}
	}

	for _, m := range locationPattern.FindAllStringSubmatch(s, -1) {
		if v := properNoun(m[1]); v != "" && v != out[intake.FieldName] {
			out[intake.FieldLocation] = v
			break
		}
	}

	for _, re := range amountPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			out[intake.FieldAmount] = strings.TrimSpace(m[1])
			break
		}
	}

	for _, re := range accusedPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if v := properNoun(m[1]); v != "" && v != out[intake.FieldName] {
				out[intake.FieldAccused] = v
				break
			}
		}
	}

	if m := relationshipPattern.FindStringSubmatch(s); m != nil {
		out[intake.FieldRelationship] = strings.ToLower(m[1])
	}

	if m := counterpartyPattern.FindStringSubmatch(s); m != nil {
		v := strings.ToLower(m[1])
		if who := properNoun(m[2]); who != "" {
			v += " " + who
		}
		out[intake.FieldCounterparty] = v
	}

	if m := addressPattern.FindStringSubmatch(s); m != nil {
		out[intake.FieldCounterpartyAddress] = strings.TrimSpace(m[1])
	}

	if m := sellerPattern.FindStringSubmatch(s); m != nil {
		if v := properNoun(m[1]); v != "" {
			out[intake.FieldSeller] = v
		}
	}

	if m := productPattern.FindStringSubmatch(s); m != nil {
		out[intake.FieldProduct] = strings.TrimSpace(m[1])
	}

	return out
}

// fold replays the turns in order. Later turns replace scalar facts;
// sentence level facts accumulate.
func fold(turns []string) map[string]string {
	values := map[string]string{}
	for _, t := range turns {
		for f, v := range read(t).values {
			values[f] = combine(f, values[f], v)
		}
	}
	return values
}

func combine(field, current, incoming string) string {
	switch {
	case !isSentenceField(field) || current == "":
		return incoming
	case strings.Contains(current, incoming):
		return current
	case strings.Contains(incoming, current):
		return incoming
	}
	return intake.JoinSentences([]string{current, incoming})
}

func isSentenceField(field string) bool {
	_, ok := sentenceKeywords[field]
	return ok
}

// bareAnswer binds a short reply with no recognisable structure to the field
// the previous prompt asked about.
func bareAnswer(field, text string) (string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 40 {
		return "", false
	}

	switch field {
	case intake.FieldEvidence, intake.FieldDescription:
		return "", false
	case intake.FieldName:
		if len(words) > 4 {
			return "", false
		}
		for i, w := range words {
			for _, r := range w {
				if !unicode.IsLetter(r) && r != '.' {
					return "", false
				}
			}
			words[i] = capitalise(w)
		}
		return strings.Join(words, " "), true
	case intake.FieldDate:
		if digitPattern.MatchString(text) {
			return text, true
		}
		for _, re := range datePatterns {
			if m := re.FindStringSubmatch(text); m != nil {
				return m[1], true
			}
		}
		return "", false
	case intake.FieldAmount:
		if m := amountDigits.FindString(text); m != "" {
			return m, true
		}
		return "", false
	case intake.FieldLocation:
		if len(words) > 8 {
			return "", false
		}
	}
	return text, true
}

func capitalise(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
