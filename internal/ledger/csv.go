// Package ledger reads and writes transactions as a fixed-column CSV.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

// Header is the CSV header for exported ledgers.
const Header = "hash,timestamp,description,debit,credit,amount,currency,balance,balance_currency,operation,channel,direction,counterparty_name,counterparty_iban,category,tags,raw"

const (
	numFields     = 17
	tagSep        = ";"
	colHash       = 0
	colTimestamp  = 1
	colDesc       = 2
	colDebit      = 3
	colCredit     = 4
	colAmount     = 5
	colCurrency   = 6
	colBalance    = 7
	colBalanceCur = 8
	colOperation  = 9
	colChannel    = 10
	colDirection  = 11
	colCpartyName = 12
	colCpartyIBAN = 13
	colCategory   = 14
	colTags       = 15
	colRaw        = 16
)

// ReadTransactions reads all rows from a ledger CSV reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes txs to w, header first.
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row. Zero debit or
// credit is written as an empty cell.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colHash] = tx.Hash
	row[colTimestamp] = tx.TimestampISO
	row[colDesc] = tx.Description

	if !tx.Debit.IsZero() {
		row[colDebit] = tx.Debit.StringFixed(2)
	}
	if !tx.Credit.IsZero() {
		row[colCredit] = tx.Credit.StringFixed(2)
	}

	row[colAmount] = tx.Amount.StringFixed(2)
	row[colCurrency] = tx.Currency
	row[colBalance] = tx.Balance.StringFixed(2)
	row[colBalanceCur] = tx.BalanceCurrency
	row[colOperation] = string(tx.Operation)
	row[colChannel] = string(tx.Channel)
	row[colDirection] = string(tx.Direction)
	row[colCpartyName] = model.Deref(tx.CounterpartyName)
	row[colCpartyIBAN] = model.Deref(tx.CounterpartyIBAN)
	row[colCategory] = string(tx.Category)
	row[colTags] = strings.Join(tx.Tags, tagSep)
	row[colRaw] = tx.Raw

	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(model.ISOLayout, record[colTimestamp])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	debit, err := optionalDecimal("debit", record[colDebit])
	if err != nil {
		return model.Transaction{}, err
	}
	credit, err := optionalDecimal("credit", record[colCredit])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	var tags []string
	if record[colTags] != "" {
		tags = strings.Split(record[colTags], tagSep)
	}

	return model.Transaction{
		Hash:             record[colHash],
		Timestamp:        ts,
		TimestampISO:     record[colTimestamp],
		Description:      record[colDesc],
		Debit:            debit,
		Credit:           credit,
		Amount:           amount,
		Currency:         record[colCurrency],
		Balance:          balance,
		BalanceCurrency:  record[colBalanceCur],
		Operation:        model.Operation(record[colOperation]),
		Channel:          model.Channel(record[colChannel]),
		Direction:        model.Direction(record[colDirection]),
		CounterpartyName: model.StringPtr(record[colCpartyName]),
		CounterpartyIBAN: model.StringPtr(record[colCpartyIBAN]),
		Category:         model.Category(record[colCategory]),
		Tags:             tags,
		Raw:              record[colRaw],
	}, nil
}

func optionalDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
