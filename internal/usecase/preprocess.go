package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Preprocessor rewrites input text before it reaches a model
type Preprocessor func(text string) string

// shortInputWords is the largest word count treated as a fragment
const shortInputWords = 2

// PunctuateShortInput appends a period to inputs of two words or fewer that
// do not already end in punctuation. Translation models tend to handle such
// fragments better as sentences; this is a heuristic only.
func PunctuateShortInput(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > shortInputWords {
		return text
	}

	trimmed := strings.TrimSpace(text)
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	if unicode.IsPunct(last) {
		return text
	}
	return trimmed + "."
}

// normalize trims the input and composes it to NFC
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
