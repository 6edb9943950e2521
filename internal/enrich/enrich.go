// Package enrich derives a category and counterparty from parsed
// transactions. Both passes are pure.
package enrich

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/rules"
)

// Tag is a categorization label. A transaction may carry several.
type Tag string

const (
	TagIncoming Tag = "incoming"
	TagOutgoing Tag = "outgoing"
	TagFee      Tag = "fee"
	TagPOS      Tag = "pos"
	TagInvoice  Tag = "invoice"
	TagCash     Tag = "cash"
	TagSalary   Tag = "salary"
)

// Rules is matched against "operation direction description". Every
// matching rule contributes its tag.
var Rules = []rules.Rule[Tag]{
	{Tag: TagIncoming, Pattern: rules.Words("inbound", "incoming")},
	{Tag: TagIncoming, Pattern: rules.Stems("gelen")},
	{Tag: TagOutgoing, Pattern: rules.Words("outbound", "outgoing")},
	{Tag: TagOutgoing, Pattern: rules.Stems("giden")},
	{Tag: TagFee, Pattern: rules.Stems("ücret", "ucret", "komisyon", "masraf", "bsmv", "commission")},
	{Tag: TagFee, Pattern: rules.Words("fee", "fees", "charge")},
	{Tag: TagPOS, Pattern: rules.Words("pos", "card purchase")},
	{Tag: TagPOS, Pattern: rules.Stems("kart harcama", "pos satış")},
	{Tag: TagInvoice, Pattern: rules.Words("bill", "invoice", "iski", "igdas", "electric", "electricity", "water", "gas")},
	{Tag: TagInvoice, Pattern: rules.Stems("fatura", "elektrik", "doğalgaz", "dogalgaz", "telekom")},
	{Tag: TagCash, Pattern: rules.Words("ATM", "cash")},
	{Tag: TagCash, Pattern: rules.Stems("nakit")},
	{Tag: TagSalary, Pattern: rules.Words("salary", "payroll")},
	{Tag: TagSalary, Pattern: rules.Stems("maaş", "maas")},
}

// Precedence resolves matched tags to one category, highest first.
var Precedence = []struct {
	Tag      Tag
	Category model.Category
}{
	{TagIncoming, model.CategoryIncoming},
	{TagOutgoing, model.CategoryOutgoing},
	{TagFee, model.CategoryFee},
	{TagPOS, model.CategoryPOS},
	{TagInvoice, model.CategoryInvoice},
}

var (
	ibanRe = regexp.MustCompile(`[A-Z]{2}\d{24}`)
	// "Giden FAST - NAME - ..." and "outbound wire - NAME".
	prefixRe = regexp.MustCompile(`(?i)^(?:gelen|giden|incoming|outgoing|inbound|outbound)\s+(?:fast|eft|havale|virman|wire|transfer|swift)\s*-\s*`)
)

// Categorize returns the resolved category and every matched tag.
func Categorize(tx model.Transaction) (model.Category, []Tag) {
	text := string(tx.Operation) + " " + string(tx.Direction) + " " + tx.Description
	tags := rules.All(Rules, text)
	return Resolve(tags), tags
}

// Resolve picks the category of the highest-precedence tag present.
func Resolve(tags []Tag) model.Category {
	for _, p := range Precedence {
		for _, t := range tags {
			if t == p.Tag {
				return p.Category
			}
		}
	}
	return model.CategoryOther
}

// ExtractIBAN returns the first IBAN-shaped token in desc, or nil.
func ExtractIBAN(desc string) *string {
	return model.StringPtr(ibanRe.FindString(desc))
}

// ExtractCounterpartyName returns a best-effort counterparty name, or nil.
func ExtractCounterpartyName(desc string) *string {
	var name string
	if loc := prefixRe.FindStringIndex(desc); loc != nil {
		name, _, _ = strings.Cut(desc[loc[1]:], "-")
	} else {
		var segments []string
		for _, s := range strings.Split(desc, "-") {
			if s = strings.TrimSpace(s); s != "" {
				segments = append(segments, s)
			}
		}
		if len(segments) >= 2 {
			name = segments[1]
		}
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return nil
	}
	return &name
}

// Enrich returns tx with category, tags and counterparty fields set.
func Enrich(tx model.Transaction) model.Transaction {
	category, tags := Categorize(tx)
	tx.Category = category
	tx.Tags = nil
	for _, t := range tags {
		tx.Tags = append(tx.Tags, string(t))
	}
	tx.CounterpartyIBAN = ExtractIBAN(tx.Description)
	tx.CounterpartyName = ExtractCounterpartyName(tx.Description)
	return tx
}
