package rules

import (
	"strings"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

// Intents reported alongside the extraction.
const (
	IntentComplaint    = "File FIR / Complaint"
	IntentLegalNotice  = "Send Legal Notice"
	IntentAffidavit    = "Create Affidavit"
	IntentRTI          = "File RTI Application"
	IntentProperty     = "Property Dispute"
	IntentConsultation = "General Consultation"
)

type keywordRule struct {
	label string
	words []string
}

// First match wins, so the order matters.
var intentRules = []keywordRule{
	{IntentComplaint, []string{"police", "fir", "arrest", "theft", "stolen", "attack", "harassment", "abuse", "beat", "hit"}},
	{IntentLegalNotice, []string{"legal notice", "sue", "defamation", "breach", "cheat", "fraud"}},
	{IntentAffidavit, []string{"affidavit", "declare", "oath", "name change"}},
	{IntentRTI, []string{"rti", "information", "public master"}},
	{IntentProperty, []string{"landlord", "tenant", "rent", "eviction", "property", "house owner", "lease", "advance", "deposit"}},
}

var domainRules = []keywordRule{
	{intake.DomainTheft, []string{"theft", "stolen", "stole", "snatched", "snatching", "robbed", "robbery", "burglary", "pickpocket", "broke into"}},
	{intake.DomainCyberFraud, []string{"cyber", "online fraud", "upi", "otp", "phishing", "hacked", "scam", "fraud call", "fraudulent transaction", "unauthorised transaction", "unauthorized transaction"}},
	{intake.DomainPropertyDispute, []string{"landlord", "tenant", "rent", "eviction", "property", "lease", "deposit", "encroach", "plot", "land"}},
	{intake.DomainConsumer, []string{"defective", "warranty", "refund", "replacement", "product", "seller", "service centre", "service center", "bought", "purchased"}},
}

// ClassifyIntent names the legal remedy the narrative most likely wants.
func ClassifyIntent(text string) string {
	return firstMatch(intentRules, strings.ToLower(text), IntentConsultation)
}

// ClassifyDomain returns the profile key for the narrative, or "" when no
// keyword matches.
func ClassifyDomain(text string) string {
	return firstMatch(domainRules, strings.ToLower(text), "")
}

func firstMatch(rules []keywordRule, lower, fallback string) string {
	for _, r := range rules {
		for _, w := range r.words {
			if wordMatch(lower, w) {
				return r.label
			}
		}
	}
	return fallback
}

// wordMatch finds w starting at a word boundary, so "rent" does not match
// "current". Words of three letters or fewer must also end at one, so "fir"
// does not match "first".
func wordMatch(lower, w string) bool {
	for i := 0; ; {
		j := strings.Index(lower[i:], w)
		if j < 0 {
			return false
		}
		at := i + j
		end := at + len(w)
		left := at == 0 || !isLetter(lower[at-1])
		right := len(w) > 3 || end == len(lower) || !isLetter(lower[end])
		if left && right {
			return true
		}
		i = at + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// SuggestSections maps the narrative to statutory provisions.
func SuggestSections(text, domain string) []string {
	lower := strings.ToLower(text)
	var out []string

	if strings.Contains(lower, "theft") || strings.Contains(lower, "stole") {
		out = append(out, "IPC Section 378 (Theft)", "IPC Section 379 (Punishment for Theft)")
	}
	if strings.Contains(lower, "cheat") || strings.Contains(lower, "fraud") {
		out = append(out, "IPC Section 420 (Cheating and dishonestly inducing delivery of property)")
	}
	if strings.Contains(lower, "assault") || wordMatch(lower, "beat") || wordMatch(lower, "hit") {
		out = append(out, "IPC Section 323 (Punishment for voluntarily causing hurt)", "IPC Section 351 (Assault)")
	}
	if strings.Contains(lower, "murder") || wordMatch(lower, "kill") {
		out = append(out, "IPC Section 302 (Punishment for murder) - ALERT: HIGH SEVERITY")
	}
	if strings.Contains(lower, "dowry") {
		out = append(out, "Dowry Prohibition Act, 1961", "IPC Section 498A (Cruelty by husband or relatives)")
	}
	if strings.Contains(lower, "cyber") || (strings.Contains(lower, "online") && strings.Contains(lower, "fraud")) {
		out = append(out, "IT Act Section 66D (Punishment for cheating by personation by using computer resource)")
	}
	if domain == intake.DomainConsumer {
		out = append(out, "Consumer Protection Act, 2019 - Section 35 (Filing a complaint)")
	}
	if strings.Contains(lower, "check bounce") || strings.Contains(lower, "cheque") {
		out = append(out, "Negotiable Instruments Act - Section 138")
	}
	return out
}

// Confidence rates how much usable detail the conversation carries. The
// anchor facts are name, date and location.
func Confidence(narrative string, has func(field string) bool) float64 {
	score := 0.0
	if len(strings.Fields(narrative)) > 10 {
		score += 0.2
	}
	for _, f := range []string{intake.FieldName, intake.FieldDate, intake.FieldLocation} {
		if has(f) {
			score += 0.2
		}
	}
	if digitPattern.MatchString(narrative) {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	return score
}
