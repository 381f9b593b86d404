package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

var pronounIPattern = regexp.MustCompile(`\bi\b('(?:m|d|ll|ve|re|s)\b)?`)

// Normalize applies light dictation formatting to recognizer output:
// sentence starts are capitalized and the standalone pronoun "i" (with its
// common contractions) is uppercased. Recognizer punctuation is kept as-is.
func Normalize(text string) string {
	text = Clean(text)
	if text == "" {
		return ""
	}
	text = capitalizeSentences(text)
	return pronounIPattern.ReplaceAllStringFunc(text, func(match string) string {
		return "I" + match[1:]
	})
}

func capitalizeSentences(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalize := true
	for i, r := range runes {
		if capitalize && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
			capitalize = false
		}
		out.WriteRune(r)

		switch r {
		case '!', '?':
			capitalize = true
		case '.':
			// Periods inside decimals and initialisms do not end a sentence.
			if !isEmbeddedPeriod(runes, i) && !endsInitialism(runes, i) {
				capitalize = true
			}
		}
	}

	return out.String()
}

func isEmbeddedPeriod(runes []rune, idx int) bool {
	if idx+1 >= len(runes) {
		return false
	}
	next := runes[idx+1]
	return unicode.IsLetter(next) || unicode.IsDigit(next) || next == '.'
}

// endsInitialism reports whether the period at idx closes a token like
// "u.s." whose trailing period rarely ends the sentence in dictated text.
func endsInitialism(runes []rune, idx int) bool {
	start := idx - 1
	for start >= 0 {
		if r := runes[start]; unicode.IsLetter(r) || r == '.' {
			start--
			continue
		}
		break
	}

	token := string(runes[start+1 : idx])
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		pr := []rune(part)
		if len(pr) != 1 || !unicode.IsLetter(pr[0]) {
			return false
		}
	}
	return true
}
