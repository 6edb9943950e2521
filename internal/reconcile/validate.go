package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/fingerprint"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Hash        string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, short(e.Hash), e.Description)
}

// Validate enforces per-transaction invariants:
//
//  1. debit and credit are non-negative
//  2. at most one of debit and credit is nonzero
//  3. amount == credit - debit
//  4. money fields carry no more than 2 decimal places
//  5. hash is the fingerprint of the hashed fields
//  6. the ISO timestamp matches the parsed timestamp
func Validate(txs []model.Transaction) []ValidationError {
	var errs []ValidationError
	add := func(inv int, tx model.Transaction, format string, args ...any) {
		errs = append(errs, ValidationError{
			Invariant:   inv,
			Hash:        tx.Hash,
			Description: fmt.Sprintf(format, args...),
		})
	}

	for _, tx := range txs {
		if tx.Debit.IsNegative() || tx.Credit.IsNegative() {
			add(1, tx, "negative debit (%s) or credit (%s)", tx.Debit, tx.Credit)
		}
		if !tx.Debit.IsZero() && !tx.Credit.IsZero() {
			add(2, tx, "both debit (%s) and credit (%s) set", tx.Debit, tx.Credit)
		}
		if !tx.Amount.Equal(tx.Credit.Sub(tx.Debit)) {
			add(3, tx, "amount %s != credit %s - debit %s", tx.Amount, tx.Credit, tx.Debit)
		}
		if !twoPlaces(tx.Amount) {
			add(4, tx, "amount %s has more than 2 decimal places", tx.Amount)
		}
		if !twoPlaces(tx.Balance) {
			add(4, tx, "balance %s has more than 2 decimal places", tx.Balance)
		}
		if tx.Hash == "" {
			add(5, tx, "missing fingerprint")
		} else if want := fingerprint.Compute(tx); tx.Hash != want {
			add(5, tx, "fingerprint %s does not match fields (%s)", short(tx.Hash), short(want))
		}
		if tx.TimestampISO != tx.Timestamp.Format(model.ISOLayout) {
			add(6, tx, "timestamp %q does not match %s", tx.TimestampISO, tx.Timestamp.Format(model.ISOLayout))
		}
	}
	return errs
}

func twoPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
