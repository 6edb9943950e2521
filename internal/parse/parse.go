// Package parse extracts typed transaction fields from a stitched record.
package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/normalize"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/rules"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/stitch"
)

// anchorLayout matches the six anchor groups rejoined as "DD/MM/YYYY HH:MM:SS".
const anchorLayout = "02/01/2006 15:04:05"

var (
	anchorRe = regexp.MustCompile(stitch.AnchorPattern)
	// European format: "." groups thousands, "," separates two decimals.
	moneyRe = regexp.MustCompile(`-?(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}`)
	wordRe  = regexp.MustCompile(`\p{L}+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Options configures a Parser.
type Options struct {
	DefaultCurrency string   // defaults to model.DefaultCurrency
	Currencies      []string // defaults to normalize.DefaultCurrencies
	EchoPrefixes    []string // defaults to DefaultEchoPrefixes
}

// Parser turns stitched records into transactions. Safe for concurrent use.
type Parser struct {
	defaultCurrency string
	currencies      map[string]bool
	echoRe          *regexp.Regexp
}

// New builds a Parser from opts.
func New(opts Options) *Parser {
	p := &Parser{
		defaultCurrency: opts.DefaultCurrency,
		currencies:      make(map[string]bool),
	}
	if p.defaultCurrency == "" {
		p.defaultCurrency = model.DefaultCurrency
	}

	codes := opts.Currencies
	if len(codes) == 0 {
		codes = normalize.DefaultCurrencies
	}
	for _, c := range codes {
		p.currencies[strings.ToUpper(c)] = true
	}

	prefixes := opts.EchoPrefixes
	if prefixes == nil {
		prefixes = DefaultEchoPrefixes
	}
	if len(prefixes) > 0 {
		quoted := make([]string, len(prefixes))
		for i, e := range prefixes {
			quoted[i] = regexp.QuoteMeta(e)
		}
		p.echoRe = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)\s*-\s*`)
	}
	return p
}

type span struct{ start, end int }

// Parse extracts a Transaction from rec. It returns false when the record
// has no valid date-time anchor or fewer than two monetary tokens.
func (p *Parser) Parse(rec model.StitchedRecord) (model.Transaction, bool) {
	text := rec.Text

	m := anchorRe.FindStringSubmatchIndex(text)
	if m == nil {
		return model.Transaction{}, false
	}
	g := func(i int) string { return text[m[2*i]:m[2*i+1]] }
	ts, err := time.Parse(anchorLayout, fmt.Sprintf("%s/%s/%s %s:%s:%s", g(1), g(2), g(3), g(4), g(5), g(6)))
	if err != nil {
		return model.Transaction{}, false
	}
	anchor := span{m[0], m[1]}

	money := moneyTokens(text)
	if len(money) < 2 {
		return model.Transaction{}, false
	}
	amountSpan, balanceSpan := money[len(money)-2], money[len(money)-1]

	amount, err := ParseAmount(text[amountSpan.start:amountSpan.end])
	if err != nil {
		return model.Transaction{}, false
	}
	balance, err := ParseAmount(text[balanceSpan.start:balanceSpan.end])
	if err != nil {
		return model.Transaction{}, false
	}

	codes := p.currencyTokens(text)
	currency := p.defaultCurrency
	if len(codes) > 0 {
		last := codes[len(codes)-1]
		currency = text[last.start:last.end]
	}
	balanceCurrency := currency
	for _, c := range codes {
		if c.start >= balanceSpan.end && strings.TrimSpace(text[balanceSpan.end:c.start]) == "" {
			balanceCurrency = text[c.start:c.end]
			break
		}
	}

	tx := model.Transaction{
		Timestamp:       ts,
		TimestampISO:    ts.Format(model.ISOLayout),
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Amount:          amount,
		Currency:        currency,
		Balance:         balance,
		BalanceCurrency: balanceCurrency,
		Operation:       rules.First(Operations, text, model.OperationOther),
		Channel:         rules.First(Channels, text, model.ChannelOther),
		Direction:       rules.First(Directions, text, model.DirectionNone),
		Raw:             text,
	}
	if amount.IsNegative() {
		tx.Debit = amount.Neg()
	} else {
		tx.Credit = amount
	}

	cut := append([]span{anchor}, money...)
	cut = append(cut, codes...)
	tx.Description = p.description(text, cut)

	return tx, true
}

// ParseAmount converts a European-format token such as "3.026,20" or
// "-14,00" to a decimal.
func ParseAmount(token string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(token), ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", token, err)
	}
	return d, nil
}

// moneyTokens returns monetary token spans that are not part of a longer
// digit run, such as a reference number with a comma in it.
func moneyTokens(text string) []span {
	var out []span
	for _, loc := range moneyRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if end < len(text) && isDigit(text[end]) {
			continue
		}
		digitStart := start
		if text[start] == '-' {
			digitStart++
		}
		if digitStart > 0 && (isDigit(text[digitStart-1]) || text[digitStart-1] == '.' || text[digitStart-1] == ',') {
			continue
		}
		out = append(out, span{start, end})
	}
	return out
}

func (p *Parser) currencyTokens(text string) []span {
	var out []span
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		if p.currencies[text[loc[0]:loc[1]]] {
			out = append(out, span{loc[0], loc[1]})
		}
	}
	return out
}

func (p *Parser) description(text string, cut []span) string {
	sort.Slice(cut, func(i, j int) bool { return cut[i].start < cut[j].start })

	var b strings.Builder
	pos := 0
	for _, c := range cut {
		if c.start < pos {
			// Overlapping spans: skip the part already removed.
			if c.end > pos {
				pos = c.end
			}
			continue
		}
		b.WriteString(text[pos:c.start])
		b.WriteByte(' ')
		pos = c.end
	}
	b.WriteString(text[pos:])

	desc := strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " "))
	if p.echoRe != nil {
		desc = p.echoRe.ReplaceAllString(desc, "")
	}
	return strings.Trim(desc, " -")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
