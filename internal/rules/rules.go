// Package rules holds the ordered (tag, pattern) tables used to classify
// statement text. Tables are plain data so their priority order can be read
// and tested on its own.
package rules

import (
	"regexp"
	"strings"
)

// Rule pairs a tag with the pattern that triggers it.
type Rule[T ~string] struct {
	Tag     T
	Pattern *regexp.Regexp
}

// First returns the tag of the first rule whose pattern matches text, or fallback.
func First[T ~string](table []Rule[T], text string, fallback T) T {
	for _, r := range table {
		if r.Pattern.MatchString(text) {
			return r.Tag
		}
	}
	return fallback
}

// All returns the tags of every matching rule in table order, without duplicates.
func All[T ~string](table []Rule[T], text string) []T {
	var tags []T
	seen := make(map[T]bool)
	for _, r := range table {
		if seen[r.Tag] || !r.Pattern.MatchString(text) {
			continue
		}
		seen[r.Tag] = true
		tags = append(tags, r.Tag)
	}
	return tags
}

// Words compiles a case-insensitive pattern matching any of words as a whole
// word. Word boundaries are Unicode-aware, unlike \b.
func Words(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + alternation(words) + `)(?:[^\p{L}\p{N}]|$)`)
}

// Stems is like Words but leaves the right edge open so inflected forms
// ("faturası", "komisyonu") still match.
func Stems(stems ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + alternation(stems) + `)`)
}

func alternation(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		// Internal spaces match any run of whitespace.
		fields := strings.Fields(w)
		for j, f := range fields {
			fields[j] = regexp.QuoteMeta(f)
		}
		parts[i] = strings.Join(fields, `\s+`)
	}
	return strings.Join(parts, "|")
}
