package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/fingerprint"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
)

func openTemp(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "ekstre.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sampleTx(day int, amount, balance, desc string) model.Transaction {
	ts := time.Date(2025, 8, day, 10, 0, 0, 0, time.UTC)
	a := decimal.RequireFromString(amount)
	tx := model.Transaction{
		Timestamp:       ts,
		TimestampISO:    ts.Format(model.ISOLayout),
		Description:     desc,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Amount:          a,
		Currency:        "TL",
		Balance:         decimal.RequireFromString(balance),
		BalanceCurrency: "TL",
		Operation:       model.OperationEFT,
		Channel:         model.ChannelDigital,
		Direction:       model.DirectionInbound,
		Category:        model.CategoryIncoming,
		Raw:             "raw " + desc,
	}
	if a.IsNegative() {
		tx.Debit = a.Neg()
	} else {
		tx.Credit = a
	}
	tx.Hash = fingerprint.Compute(tx)
	return tx
}

func TestOpen_CreatesSchema(t *testing.T) {
	s, path := openTemp(t)
	assert.Equal(t, path, s.Path())

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ekstre.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are already applied; reopening is a no-op for the schema.
	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestLoad_DedupAcrossLoads(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	batch := []model.Transaction{
		sampleTx(1, "100.00", "100.00", "Gelen EFT - ACME"),
		sampleTx(2, "-14.00", "86.00", "ISKI WATER"),
		sampleTx(2, "-14.00", "86.00", "ISKI WATER"), // same statement line twice
		sampleTx(3, "-6.00", "80.00", "POS MARKET"),
	}

	first, err := pipeline.Load(ctx, s, batch)
	require.NoError(t, err)
	assert.Equal(t, pipeline.LoadResult{Inserted: 3, Skipped: 1}, first)

	second, err := pipeline.Load(ctx, s, batch)
	require.NoError(t, err)
	assert.Equal(t, pipeline.LoadResult{Inserted: 0, Skipped: 4}, second)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// A fresh handle on the same file sees the same state.
	require.NoError(t, s.Close())
	again, err := Open(ctx, path)
	require.NoError(t, err)
	defer again.Close()
	third, err := pipeline.Load(ctx, again, batch[:1])
	require.NoError(t, err)
	assert.Equal(t, 0, third.Inserted)
}

func TestBatch_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	b, err := s.Begin(ctx)
	require.NoError(t, err)
	inserted, err := b.InsertIgnore(ctx, sampleTx(1, "1.00", "1.00", "x"))
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, b.Rollback())

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBegin_ClosedStore(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Close())

	_, err := s.Begin(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beginning transaction")
}

func TestList_RoundTripAndFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	name := "ACME"
	iban := "TR330006100519786457841326"
	withParty := sampleTx(1, "100.00", "100.00", "Gelen EFT - ACME")
	withParty.CounterpartyName = &name
	withParty.CounterpartyIBAN = &iban
	withParty.Tags = []string{"incoming", "invoice"}

	txs := []model.Transaction{
		sampleTx(3, "-6.00", "80.00", "POS MARKET"),
		withParty,
		sampleTx(2, "-14.00", "86.00", "ISKI WATER"),
	}
	_, err := pipeline.Load(ctx, s, txs)
	require.NoError(t, err)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	got := all[0]
	assert.Equal(t, withParty.Hash, got.Hash)
	assert.Equal(t, withParty.Timestamp, got.Timestamp)
	assert.Equal(t, withParty.TimestampISO, got.TimestampISO)
	assert.True(t, withParty.Amount.Equal(got.Amount))
	assert.True(t, withParty.Credit.Equal(got.Credit))
	assert.True(t, got.Debit.IsZero())
	assert.True(t, withParty.Balance.Equal(got.Balance))
	assert.Equal(t, "TL", got.Currency)
	assert.Equal(t, model.OperationEFT, got.Operation)
	assert.Equal(t, model.ChannelDigital, got.Channel)
	assert.Equal(t, model.DirectionInbound, got.Direction)
	assert.Equal(t, model.CategoryIncoming, got.Category)
	assert.Equal(t, []string{"incoming", "invoice"}, got.Tags)
	require.NotNil(t, got.CounterpartyName)
	assert.Equal(t, "ACME", *got.CounterpartyName)
	require.NotNil(t, got.CounterpartyIBAN)
	assert.Equal(t, iban, *got.CounterpartyIBAN)
	assert.Equal(t, "raw Gelen EFT - ACME", got.Raw)
	assert.Equal(t, fingerprint.Compute(got), got.Hash)

	assert.Nil(t, all[1].CounterpartyName)
	assert.Nil(t, all[1].Tags)
	assert.Equal(t, "2025-08-03T10:00:00", all[2].TimestampISO)

	window, err := s.List(ctx, Filter{
		From: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "ISKI WATER", window[0].Description)
}
