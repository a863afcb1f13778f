// Package textfilter keeps user-supplied hero names and quest titles
// family friendly before they are echoed back on rendered screens.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps filtered words to tame alternatives.
var replacements = map[string]string{
	"fuck":    "fudge",
	"shit":    "shoot",
	"damn":    "dang",
	"hell":    "heck",
	"ass":     "butt",
	"bitch":   "jerk",
	"bastard": "jerk",
	"crap":    "crud",
	"asshole": "jerk",
	"bullshit": "baloney",
}

// Filter replaces profanity in user text with tame alternatives.
type Filter struct {
	regexes map[string]*regexp.Regexp
}

// New precompiles a word-boundary pattern per filtered word.
func New() *Filter {
	f := &Filter{regexes: make(map[string]*regexp.Regexp, len(replacements))}
	for word := range replacements {
		f.regexes[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Clean returns the text with filtered words replaced, matching the
// casing of the original word.
func (f *Filter) Clean(text string) string {
	result := text
	for word, re := range f.regexes {
		replacement := replacements[word]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if len(original) == 0 {
		return replacement
	}

	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(replacement)
	}

	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}

	// Mixed case: carry casing over character by character.
	result := make([]rune, 0, len(replacement))
	originalRunes := []rune(original)
	for i, r := range replacement {
		if i < len(originalRunes) && unicode.IsUpper(originalRunes[i]) {
			result = append(result, unicode.ToUpper(r))
		} else {
			result = append(result, unicode.ToLower(r))
		}
	}
	return string(result)
}
