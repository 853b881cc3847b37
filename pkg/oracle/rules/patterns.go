package rules

import (
	"regexp"
	"strings"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
)

const months = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*`

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+\s+|\n+`)
	abbreviation  = regexp.MustCompile(`(?i)\b(rs|mr|mrs|ms|dr|st)\.\s+`)
	digitPattern  = regexp.MustCompile(`\d`)

	namePattern = regexp.MustCompile(`(?:[Mm]y name is|I am|I'm|[Nn]ame\s*[:\-])\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)*)`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + months + `,?\s+\d{4})\b`),
		regexp.MustCompile(`(?i)\b(` + months + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})\b`),
		regexp.MustCompile(`(?i)\b(yesterday|today|last night|this morning|last week)\b`),
	}

	locationPattern = regexp.MustCompile(`\b(?:at|in|near)\s+([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*)`)

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)\b([\d,]+(?:\.\d+)?\s*(?:lakh|lakhs|crore))\b`),
		regexp.MustCompile(`(?i)\b([\d,]+(?:\.\d+)?)\s*(?:rupees|rs)\b`),
	}
	amountDigits = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

	accusedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i:stolen|taken|snatched|cheated|attacked|beaten|harassed|threatened|robbed)\s+by\s+(?i:my\s+\w+\s+|the\s+|a\s+)?([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`),
		regexp.MustCompile(`(?i:accused|culprit|thief)\s+(?i:is|was)\s+(?i:my\s+\w+\s+)?([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)`),
		regexp.MustCompile(`(?i:it was)\s+(?i:my\s+\w+\s+)?([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+(?i:who)`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)\s+(?:stole|took|snatched|cheated|attacked|beat|hit|harassed|threatened|robbed)\b`),
	}

	relationshipPattern = regexp.MustCompile(`(?i)\b(?:my|the|our)\s+(landlord|tenant|wife|husband|neighbou?r|boss|employer|employee|brother|sister|relative)\b`)
	counterpartyPattern = regexp.MustCompile(`(?i:\b(?:my|the|our)\s+(landlord|tenant|neighbou?r|employer|builder|brother|sister|relative))(?:\s*,?\s*(?:Mr\.?|Mrs\.?|Ms\.?)?\s*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?))?`)
	addressPattern      = regexp.MustCompile(`(?i:lives at|lives in|resides at|residing at|address is|staying at)\s+([^.\n]+)`)

	sellerPattern  = regexp.MustCompile(`(?i:bought|purchased|ordered)\b[^.]*?\s(?i:from)\s+([A-Z][\w&]*(?:\s[A-Z][\w&]*)*)`)
	productPattern = regexp.MustCompile(`(?i:bought|purchased|ordered)\s+(?:(?i:an|a|the|my|some)\s+)?([a-zA-Z][a-zA-Z ]{1,40}?)\s+(?i:from|on|for|at|online)\b`)
)

// Sentence level facts keep the whole sentence that mentions them.
var sentenceKeywords = map[string][]string{
	intake.FieldEvidence: {
		"bill", "receipt", "invoice", "cctv", "photo", "screenshot", "recording", "video",
		"agreement", "deed", "proof", "statement", "email", "chat", "message", "document",
	},
	intake.FieldWitness: {
		"witness", "saw it", "saw the", "saw him", "saw her", "saw them", "was with me", "were present",
	},
	intake.FieldTransactionDetails: {
		"upi", "transaction", "transferred", "bank", "account", "otp", "card", "paytm", "gpay",
		"phonepe", "neft", "imps", "wallet",
	},
	intake.FieldPropertyDetails: {
		"house", "flat", "apartment", "plot", "land", "property", "building", "survey no", "premises",
	},
	intake.FieldPropertyDocuments: {
		"sale deed", "patta", "encumbrance", "title deed", "chitta", "lease deed", "rental agreement",
		"registration document",
	},
	intake.FieldPoliceApproached: {
		"went to the police", "approached the police", "complained to the police", "police refused",
		"police station", "police did not", "filed an fir", "lodged a complaint",
	},
}

// sentenceFields fixes the evaluation order of sentenceKeywords.
var sentenceFields = []string{
	intake.FieldEvidence,
	intake.FieldWitness,
	intake.FieldTransactionDetails,
	intake.FieldPropertyDetails,
	intake.FieldPropertyDocuments,
	intake.FieldPoliceApproached,
}

// Denials found in a sentence suppress that sentence as a source of a value.
var denialPatterns = map[string]*regexp.Regexp{
	intake.FieldAccused: regexp.MustCompile(`(?i)\b(?:don'?t|do not|did not|didn'?t)\s+(?:know|see|recogni[sz]e)\s+(?:who|the person|the thief|him|her|them)\b|\bno idea who\b|\bunknown (?:person|persons|people|man|woman|thief)\b|\bnot sure who\b|\bcould(?:n'?t| not) see (?:who|the)\b`),
	intake.FieldWitness: regexp.MustCompile(`(?i)\bno ?(?:one|body) (?:saw|was there|was around|witnessed)\b|\bno witness(?:es)?\b|\bwas alone\b`),
	intake.FieldEvidence: regexp.MustCompile(`(?i)\bno (?:proof|evidence|receipt|bill|documents?|cctv|photos?)\b|\b(?:don'?t|do not) have (?:any )?(?:proof|evidence|receipt|bill|documents?)\b|\blost the (?:bill|receipt)\b`),
	intake.FieldDate: regexp.MustCompile(`(?i)\b(?:don'?t|do not) (?:remember|know|recall) (?:the )?(?:exact )?(?:date|when)\b`),
	intake.FieldAmount: regexp.MustCompile(`(?i)\bno (?:money|financial) (?:loss|involved)\b|\bno money was (?:lost|taken)\b`),
	intake.FieldCounterpartyAddress: regexp.MustCompile(`(?i)\b(?:don'?t|do not) know (?:his|her|their|the) address\b`),
	intake.FieldPoliceApproached: regexp.MustCompile(`(?i)\b(?:have not|haven'?t|did not|didn'?t|not yet) (?:go(?:ne)? to|approach(?:ed)?|contact(?:ed)?|inform(?:ed)?) (?:the )?police\b`),
	intake.FieldPropertyDocuments: regexp.MustCompile(`(?i)\b(?:don'?t|do not) have (?:any )?(?:property )?(?:documents?|papers|deeds?)\b`),
}

// denialFields fixes the evaluation order of denialPatterns.
var denialFields = []string{
	intake.FieldAccused,
	intake.FieldWitness,
	intake.FieldEvidence,
	intake.FieldDate,
	intake.FieldAmount,
	intake.FieldCounterpartyAddress,
	intake.FieldPoliceApproached,
	intake.FieldPropertyDocuments,
}

// A bare negative reply denies whatever field was asked.
var bareNegative = regexp.MustCompile(`(?i)^(?:no|none|nobody|no one|nothing|not sure|nil|na|n/a|not applicable|no idea|i don'?t know|don'?t know|dont know)[.!]*$`)

// Capitalised words that open sentences or name things other than people
// and places.
var notProperNouns = map[string]bool{
	"I": true, "He": true, "She": true, "They": true, "We": true, "It": true, "My": true,
	"The": true, "This": true, "That": true, "Then": true, "Someone": true, "Somebody": true,
	"Police": true, "Station": true, "Not": true, "Very": true, "From": true, "Also": true,
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true, "Friday": true,
	"Saturday": true, "Sunday": true, "January": true, "February": true, "March": true,
	"April": true, "May": true, "June": true, "July": true, "August": true, "September": true,
	"October": true, "November": true, "December": true, "Morning": true, "Evening": true,
}

// splitSentences breaks a turn into sentences. Abbreviation dots are dropped
// first so "Rs. 5000" stays in one piece.
func splitSentences(text string) []string {
	text = abbreviation.ReplaceAllString(text, "$1 ")
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		if s = strings.TrimRight(strings.TrimSpace(s), ".!?"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// properNoun drops leading words that are capitalised only because they open
// a sentence. It returns "" when nothing is left.
func properNoun(candidate string) string {
	words := strings.Fields(candidate)
	for len(words) > 0 && notProperNouns[words[0]] {
		words = words[1:]
	}
	return strings.Join(words, " ")
}
