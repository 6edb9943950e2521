// Package normalize cleans raw statement text lines before stitching.
package normalize

import (
	"regexp"
	"strings"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// DefaultCurrencies are the codes recognized when none are configured.
var DefaultCurrencies = []string{"TL", "TRY", "USD", "EUR", "GBP", "CHF", "JPY"}

var (
	nbspReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2007", " ")
	hspaceRe     = regexp.MustCompile(`[ \t\f\v]+`)
	signSymbolRe = regexp.MustCompile(`(^|[^\p{L}\p{N}])-([₺€$£]) *(\d)`)
)

// Options configures a Normalizer.
type Options struct {
	// Currencies restricts code/digit splitting to known codes so IBANs
	// ("TR" + digits) stay intact. Defaults to DefaultCurrencies.
	Currencies []string
	// LocalCurrency replaces the lira sign. Defaults to model.DefaultCurrency.
	LocalCurrency string
	// Exclude drops any line a matcher accepts. Nil means DefaultMatchers.
	Exclude []Matcher
}

// Normalizer cleans lines. Safe for concurrent use.
type Normalizer struct {
	symbols   *strings.Replacer
	signCode  *regexp.Regexp
	codeDigit *regexp.Regexp
	digitCode *regexp.Regexp
	exclude   []Matcher
}

// New builds a Normalizer from opts.
func New(opts Options) *Normalizer {
	codes := opts.Currencies
	if len(codes) == 0 {
		codes = DefaultCurrencies
	}
	local := opts.LocalCurrency
	if local == "" {
		local = model.DefaultCurrency
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultMatchers()
	}

	quoted := make([]string, len(codes))
	for i, c := range codes {
		quoted[i] = regexp.QuoteMeta(strings.ToUpper(c))
	}
	alt := strings.Join(quoted, "|")

	return &Normalizer{
		symbols: strings.NewReplacer(
			"₺", " "+local+" ",
			"€", " EUR ",
			"$", " USD ",
			"£", " GBP ",
		),
		signCode:  regexp.MustCompile(`(^|[^\p{L}\p{N}])-(` + alt + `) *(\d)`),
		codeDigit: regexp.MustCompile(`(^|[^\p{L}])(` + alt + `)(-?\d)`),
		digitCode: regexp.MustCompile(`(\d)(` + alt + `)([^\p{L}]|$)`),
		exclude:   exclude,
	}
}

// Line returns the cleaned line, or "" if it should be dropped.
func (n *Normalizer) Line(raw string) string {
	line := collapse(nbspReplacer.Replace(raw))
	if line == "" {
		return ""
	}

	// Move a sign written before the currency marker onto the number.
	line = signSymbolRe.ReplaceAllString(line, "${1}${2} -${3}")
	line = n.symbols.Replace(line)
	line = n.signCode.ReplaceAllString(line, "${1}${2} -${3}")
	line = n.digitCode.ReplaceAllString(line, "${1} ${2}${3}")
	line = n.codeDigit.ReplaceAllString(line, "${1}${2} ${3}")
	line = collapse(line)

	for _, m := range n.exclude {
		if m.Match(line) {
			return ""
		}
	}
	return line
}

// Lines cleans every line and drops the empty results.
func (n *Normalizer) Lines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if l := n.Line(r); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func collapse(s string) string {
	return strings.TrimSpace(hspaceRe.ReplaceAllString(s, " "))
}
