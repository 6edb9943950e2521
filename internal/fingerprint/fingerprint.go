// Package fingerprint computes the content hash that identifies a
// transaction across re-imports of the same statement.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// DescriptionPrefix is how many characters of the description are hashed.
const DescriptionPrefix = 120

const separator = "|"

// Compute returns the hex SHA-256 of timestamp, amount, balance and the
// description prefix.
func Compute(tx model.Transaction) string {
	parts := []string{
		tx.TimestampISO,
		tx.Amount.StringFixed(2),
		tx.Balance.StringFixed(2),
		prefix(tx.Description, DescriptionPrefix),
	}
	h := sha256.Sum256([]byte(strings.Join(parts, separator)))
	return hex.EncodeToString(h[:])
}

// Apply sets Hash on every transaction in place.
func Apply(txs []model.Transaction) {
	for i := range txs {
		txs[i].Hash = Compute(txs[i])
	}
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
