package engine

import (
	"regexp"
	"strings"
)

// placeholderPattern matches non-greedy {{NAME}} occurrences. NAME is
// trimmed of surrounding whitespace before the variable lookup.
var placeholderPattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// maxSubstitutionPasses bounds the nested-reference resolution loop.
// Preserved literally from the source's defensive fixed point (§9):
// templates nested deeper than this remain partially unresolved.
const maxSubstitutionPasses = 5

// Substitute replaces every {{name}} occurrence in text with
// vars[name], repeating up to maxSubstitutionPasses times so a
// variable whose value is itself a template gets expanded too. A
// placeholder whose name has no entry in vars is left exactly as
// written, so a later pass (or a later node) may still resolve it.
// A nil *string input returns nil.
func Substitute(text *string, vars map[string]string) *string {
	if text == nil {
		return nil
	}
	current := *text
	for i := 0; i < maxSubstitutionPasses; i++ {
		next := placeholderPattern.ReplaceAllStringFunc(current, func(match string) string {
			name := placeholderPattern.FindStringSubmatch(match)[1]
			name = strings.TrimSpace(name)
			if v, ok := vars[name]; ok {
				return v
			}
			return match
		})
		if next == current {
			break
		}
		current = next
	}
	return &current
}

// SubstituteString is the non-pointer convenience form used by node
// handlers operating on plain strings.
func SubstituteString(text string, vars map[string]string) string {
	out := Substitute(&text, vars)
	if out == nil {
		return ""
	}
	return *out
}
