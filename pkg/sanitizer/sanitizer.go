package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// SanitizeText is used for single line descriptive fields such as titles,
// names and offices.
func SanitizeText(input string) string {
	return Pipeline{dropControl, TrimAndNormalize}.Apply(input)
}

// SanitizeNotes keeps line breaks but trims the surrounding whitespace.
func SanitizeNotes(input string) string {
	return Pipeline{dropControl, strings.TrimSpace}.Apply(input)
}

// SanitizeMobile strips every non-digit, so "0917-123 4567" becomes
// "09171234567".
func SanitizeMobile(input string) string {
	return keepDigits(input)
}

func SanitizeEmail(input string) string {
	return Pipeline{strings.TrimSpace, strings.ToLower}.Apply(input)
}
