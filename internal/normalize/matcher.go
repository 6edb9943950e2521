package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Matcher reports whether a cleaned line is non-content and should be dropped.
type Matcher interface {
	Match(line string) bool
}

// Literal drops lines containing the text, ignoring case.
type Literal string

func (l Literal) Match(line string) bool {
	if l == "" {
		return false
	}
	return strings.Contains(strings.ToLower(line), strings.ToLower(string(l)))
}

// Regex drops lines matching the pattern.
type Regex struct {
	*regexp.Regexp
}

func (r Regex) Match(line string) bool {
	return r.MatchString(line)
}

// CompileRegex builds a Regex matcher.
func CompileRegex(pattern string) (Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Regex{}, fmt.Errorf("compiling exclude pattern %q: %w", pattern, err)
	}
	return Regex{re}, nil
}

// Fuzzy drops whole lines within MaxDistance edits of Text. Extraction
// often garbles repeated letterheads a little differently on every page.
type Fuzzy struct {
	Text        string
	MaxDistance int
}

func (f Fuzzy) Match(line string) bool {
	if f.Text == "" {
		return false
	}
	a, b := strings.ToLower(line), strings.ToLower(f.Text)
	diff := utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > f.MaxDistance {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= f.MaxDistance
}

// DefaultMatchers returns the exclusions for the supported statement family.
func DefaultMatchers() []Matcher {
	return []Matcher{
		// Page markers such as "3/12" or "3 / 12".
		Regex{regexp.MustCompile(`^\d{1,3}\s*/\s*\d{1,3}$`)},
		// Column header banner.
		Regex{regexp.MustCompile(`(?i)^(?:[iİ][şs]lem\s+)?tarih(?:i)?\s.*(?:tutar|bakiye)`)},
		Regex{regexp.MustCompile(`(?i)^(?:transaction\s+)?date\s.*(?:amount|balance)`)},
		// Running-balance and pending-items separators.
		Regex{regexp.MustCompile(`(?i)^(?:devreden|önceki|onceki|kalan)\s+bakiye\b`)},
		Regex{regexp.MustCompile(`(?i)^(?:bakiye\s+bilgileri|bekleyen\s+\S+lemler|pending\s+(?:items|transactions)|balance\s+information)\s*:?$`)},
		// Letterhead and footer.
		Literal("Hesap Hareketleri"),
		Literal("Hesap Ekstresi"),
		Literal("Account Activity"),
		Literal("Bu belge elektronik ortamda"),
		Fuzzy{Text: "Bu hesap özeti bilgi amaçlıdır", MaxDistance: 3},
	}
}
