package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ISOLayout is the wall-clock form of Transaction.TimestampISO.
const ISOLayout = "2006-01-02T15:04:05"

// DefaultCurrency is the local currency code assumed when a record names none.
const DefaultCurrency = "TL"

// StitchedRecord is the text of one transaction reassembled from wrapped lines.
type StitchedRecord struct {
	Text      string
	FirstLine int // index of the anchor line in the normalized input
	LastLine  int // inclusive
}

// Transaction is one parsed statement row.
type Transaction struct {
	Timestamp        time.Time // wall clock, no zone conversion
	TimestampISO     string
	Description      string
	Debit            decimal.Decimal // zero if credit side
	Credit           decimal.Decimal // zero if debit side
	Amount           decimal.Decimal // negative = debit
	Currency         string
	Balance          decimal.Decimal
	BalanceCurrency  string
	Operation        Operation
	Channel          Channel
	Direction        Direction
	CounterpartyName *string
	CounterpartyIBAN *string
	Category         Category
	Tags             []string // every matched categorization tag
	Hash             string
	Raw              string
}

// IsDebit reports whether money left the account.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// Anomaly is a running-balance mismatch found during reconciliation.
type Anomaly struct {
	Index           int // position in the timestamp-sorted sequence
	PreviousBalance decimal.Decimal
	Balance         decimal.Decimal
	Expected        decimal.Decimal
	Difference      decimal.Decimal // Balance - Expected
	Transaction     Transaction
}

// Summary totals one statement or ledger slice.
type Summary struct {
	DebitTotal       decimal.Decimal
	CreditTotal      decimal.Decimal
	TransactionCount int
	RecordCount      int
	RejectedCount    int
}

// StringPtr returns nil for "" and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
