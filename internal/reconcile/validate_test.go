package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/fingerprint"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

func validTx() model.Transaction {
	ts := time.Date(2025, 8, 11, 17, 39, 14, 0, time.UTC)
	t := model.Transaction{
		Timestamp:    ts,
		TimestampISO: ts.Format(model.ISOLayout),
		Description:  "ISKI WATER",
		Debit:        d("14.00"),
		Credit:       decimal.Zero,
		Amount:       d("-14.00"),
		Balance:      d("499.40"),
	}
	t.Hash = fingerprint.Compute(t)
	return t
}

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate([]model.Transaction{validTx()}))
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		want   []int
	}{
		{"negative debit", func(tx *model.Transaction) {
			tx.Debit = d("-14.00")
			tx.Amount = d("14.00")
			tx.Hash = fingerprint.Compute(*tx)
		}, []int{1}},
		{"both sides", func(tx *model.Transaction) {
			tx.Credit = d("1.00")
			tx.Amount = d("-13.00")
			tx.Hash = fingerprint.Compute(*tx)
		}, []int{2}},
		{"amount mismatch", func(tx *model.Transaction) { tx.Debit = d("15.00") }, []int{3}},
		{"three decimals", func(tx *model.Transaction) {
			tx.Balance = d("499.401")
			tx.Hash = fingerprint.Compute(*tx)
		}, []int{4}},
		{"missing hash", func(tx *model.Transaction) { tx.Hash = "" }, []int{5}},
		{"stale hash", func(tx *model.Transaction) { tx.Description = "changed" }, []int{5}},
		{"timestamp drift", func(tx *model.Transaction) { tx.Timestamp = tx.Timestamp.Add(time.Hour) }, []int{6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx()
			tt.mutate(&tx)
			assert.Equal(t, tt.want, invariants(Validate([]model.Transaction{tx})))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tx := validTx()
	tx.Hash = ""
	errs := Validate([]model.Transaction{tx})
	require.Len(t, errs, 1)
	assert.Equal(t, "invariant 5 []: missing fingerprint", errs[0].Error())
}
