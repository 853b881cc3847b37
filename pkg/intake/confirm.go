package intake

import (
	"strings"
	"unicode"
)

// Reply is the reading of a free-text answer to the confirmation prompt.
type Reply int

const (
	ReplyUnclear Reply = iota
	ReplyAccept
	ReplyReject
)

var (
	rejectWords = []string{"no", "wait", "stop", "wrong", "missing", "incorrect"}
	acceptWords = []string{"yes", "proceed", "go", "correct", "continue", "right", "agree"}
)

// RecognizeReply classifies a confirmation answer by keyword. Rejection wins
// when both appear, so "no, that is not correct" is a rejection.
func RecognizeReply(text string) Reply {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	}) {
		words[w] = true
	}
	for _, w := range rejectWords {
		if words[w] {
			return ReplyReject
		}
	}
	for _, w := range acceptWords {
		if words[w] {
			return ReplyAccept
		}
	}
	return ReplyUnclear
}
