// Package runlog records one CSV row per imported statement.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status values for Entry.Status.
const (
	StatusLoaded   = "loaded"
	StatusDryRun   = "dry_run"
	StatusRejected = "rejected" // strict mode refused a statement with anomalies
	StatusFailed   = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	RunID     string
	Timestamp time.Time
	Source    string
	Records   int
	Parsed    int
	Rejected  int
	Inserted  int
	Skipped   int
	Anomalies int
	Status    string
}

// Header is the CSV header for import-log.csv.
const Header = "run_id,timestamp,source,records,parsed,rejected,inserted,skipped,anomalies,status"

const (
	numFields    = 10
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colRunID     = 0
	colTimestamp = 1
	colSource    = 2
	colRecords   = 3
	colParsed    = 4
	colRejected  = 5
	colInserted  = 6
	colSkipped   = 7
	colAnomalies = 8
	colStatus    = 9
)

// NewRunID returns a fresh identifier shared by every entry of one import.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSource] = e.Source
	row[colRecords] = strconv.Itoa(e.Records)
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colInserted] = strconv.Itoa(e.Inserted)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colAnomalies] = strconv.Itoa(e.Anomalies)
	row[colStatus] = e.Status
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 0, colAnomalies-colRecords+1)
	for col := colRecords; col <= colAnomalies; col++ {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing column %d %q: %w", col, record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		RunID:     record[colRunID],
		Timestamp: ts,
		Source:    record[colSource],
		Records:   counts[0],
		Parsed:    counts[1],
		Rejected:  counts[2],
		Inserted:  counts[3],
		Skipped:   counts[4],
		Anomalies: counts[5],
		Status:    record[colStatus],
	}, nil
}

// Append writes entries to <root>/logs/import-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
