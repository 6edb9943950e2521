// Package reconcile checks a transaction sequence against its own stated
// running balance. It reports; it never corrects.
package reconcile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// DefaultTolerance absorbs sub-minor-unit rounding noise.
var DefaultTolerance = decimal.New(1, -2)

// Sorted returns a copy of txs ordered by TimestampISO, ties in input order.
func Sorted(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampISO < out[j].TimestampISO
	})
	return out
}

// Reconcile replays the sorted sequence and reports every transaction whose
// balance differs from prev.Balance + Credit - Debit by more than tolerance.
//
// After an anomaly the replayed balance is carried forward as a second
// reference, so one corrupted balance is reported once rather than also
// flagging its successor.
func Reconcile(txs []model.Transaction, tolerance decimal.Decimal) []model.Anomaly {
	sorted := Sorted(txs)

	var (
		anomalies []model.Anomaly
		replay    *decimal.Decimal
	)
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		expected := prev.Balance.Add(curr.Credit).Sub(curr.Debit)
		diff := curr.Balance.Sub(expected)
		if diff.Abs().LessThanOrEqual(tolerance) {
			replay = nil
			continue
		}

		next := expected
		if replay != nil {
			alt := replay.Add(curr.Credit).Sub(curr.Debit)
			if curr.Balance.Sub(alt).Abs().LessThanOrEqual(tolerance) {
				replay = nil
				continue
			}
			next = alt
		}

		anomalies = append(anomalies, model.Anomaly{
			Index:           i,
			PreviousBalance: prev.Balance,
			Balance:         curr.Balance,
			Expected:        expected,
			Difference:      diff,
			Transaction:     curr,
		})
		replay = &next
	}
	return anomalies
}

// Summarize totals txs. records is the number of stitched records the
// transactions were parsed from; records-len(txs) were rejected.
func Summarize(txs []model.Transaction, records int) model.Summary {
	s := model.Summary{
		DebitTotal:       decimal.Zero,
		CreditTotal:      decimal.Zero,
		TransactionCount: len(txs),
		RecordCount:      records,
	}
	for _, tx := range txs {
		s.DebitTotal = s.DebitTotal.Add(tx.Debit)
		s.CreditTotal = s.CreditTotal.Add(tx.Credit)
	}
	if records > len(txs) {
		s.RejectedCount = records - len(txs)
	}
	return s
}
