package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/logger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// ErrMissingFingerprint is returned by Load when a transaction has no hash.
var ErrMissingFingerprint = errors.New("transaction has no fingerprint")

// Store opens all-or-nothing write batches.
//
//go:generate mockgen -destination=mocks/mock_store.go -source=store.go Store,Batch
type Store interface {
	Begin(ctx context.Context) (Batch, error)
}

// Batch inserts transactions keyed by hash, ignoring keys already present.
type Batch interface {
	// InsertIgnore reports whether tx was inserted (false = key existed).
	InsertIgnore(ctx context.Context, tx model.Transaction) (bool, error)
	Commit() error
	Rollback() error
}

// LoadResult counts the outcome of one Load.
type LoadResult struct {
	Inserted int
	Skipped  int
}

// Load writes txs in a single batch. Transactions are not deduplicated
// against each other here; repeats collapse at the store. On any failure
// the batch is rolled back and nothing is persisted.
func Load(ctx context.Context, store Store, txs []model.Transaction) (LoadResult, error) {
	for i, tx := range txs {
		if tx.Hash == "" {
			return LoadResult{}, fmt.Errorf("transaction %d: %w", i, ErrMissingFingerprint)
		}
	}

	batch, err := store.Begin(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("beginning batch: %w", err)
	}

	var res LoadResult
	for i, tx := range txs {
		inserted, err := batch.InsertIgnore(ctx, tx)
		if err != nil {
			_ = batch.Rollback()
			return LoadResult{}, fmt.Errorf("inserting transaction %d (%s): %w", i, tx.TimestampISO, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}

	if err := batch.Commit(); err != nil {
		return LoadResult{}, fmt.Errorf("committing batch: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("batch loaded")
	return res, nil
}
