package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is a filename case style.
type Style int

const (
	StyleSnake Style = iota
	StyleCamel
	StylePascal
	StyleKebab
	StyleLower
	StyleUpper
)

func (s Style) String() string {
	switch s {
	case StyleCamel:
		return "camelCase"
	case StylePascal:
		return "PascalCase"
	case StyleKebab:
		return "kebab-case"
	case StyleLower:
		return "lowercase"
	case StyleUpper:
		return "uppercase"
	default:
		return "snake_case"
	}
}

// ParseStyle maps a user-supplied style name to a Style. Matching is
// case-insensitive and accepts both "snakecase" and "snake_case" spellings.
// Unrecognized names fall back to StyleSnake.
func ParseStyle(name string) Style {
	normalized := strings.ToLower(name)
	normalized = strings.ReplaceAll(normalized, "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")

	switch normalized {
	case "camelcase", "camel":
		return StyleCamel
	case "pascalcase", "pascal":
		return StylePascal
	case "kebabcase", "kebab":
		return StyleKebab
	case "lowercase", "lower":
		return StyleLower
	case "uppercase", "upper":
		return StyleUpper
	default:
		return StyleSnake
	}
}

// Convert normalizes text into the requested case style.
func Convert(text string, style Style) string {
	switch style {
	case StyleCamel:
		return toCamel(text)
	case StylePascal:
		return toPascal(text)
	case StyleKebab:
		return strings.ReplaceAll(toSnake(text), "_", "-")
	case StyleLower:
		return strings.ToLower(toSnake(text))
	case StyleUpper:
		return strings.ToUpper(toSnake(text))
	default:
		return toSnake(text)
	}
}

// toSnake scans left to right: an uppercase letter starts a new word unless
// it is the first emitted character, follows another uppercase letter, or
// follows a separator. Space, hyphen and underscore collapse to a single
// underscore; anything else non-alphanumeric is dropped.
func toSnake(text string) string {
	var b strings.Builder
	prevUpper := false
	prevSep := false

	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 && !prevUpper && !prevSep {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUpper = true
			prevSep = false
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevUpper = false
			prevSep = false
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !prevSep {
				b.WriteByte('_')
			}
			prevUpper = false
			prevSep = true
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// splitWords splits on runs of non-alphanumeric characters, dropping
// empty segments.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func toCamel(text string) string {
	words := splitWords(text)
	if len(words) == 0 {
		return ""
	}

	caser := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		b.WriteString(caser.String(strings.ToLower(word)))
	}
	return b.String()
}

func toPascal(text string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, word := range splitWords(text) {
		b.WriteString(caser.String(strings.ToLower(word)))
	}
	return b.String()
}
