package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/ledger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/runlog"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/store"
)

const (
	augustFixture  = "../../testdata/ekstre_2025_08.txt"
	anomalyFixture = "../../testdata/ekstre_anomaly.txt"
)

func copyFixture(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func storedCount(t *testing.T, dir string) int {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(dir, "data", "ekstre.db"))
	require.NoError(t, err)
	defer db.Close()
	n, err := db.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestImport_Inbox(t *testing.T) {
	dir, cfg := initWorkspace(t)
	copyFixture(t, augustFixture, filepath.Join(dir, "inbox", "ekstre_2025_08.txt"))

	out, err := runEkstre(t, "import", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "5 records, 4 parsed, 1 rejected")
	assert.Contains(t, out, "loaded: 4 inserted, 0 already present")
	assert.Equal(t, 4, storedCount(t, dir))

	_, err = os.Stat(filepath.Join(dir, "inbox", "ekstre_2025_08.txt"))
	assert.True(t, os.IsNotExist(err), "statement should leave the inbox")
	processed := filepath.Join(dir, "inbox", "processed", "ekstre_2025_08.txt")
	_, err = os.Stat(processed)
	require.NoError(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusLoaded, entries[0].Status)
	assert.Equal(t, 4, entries[0].Inserted)
	assert.NotEmpty(t, entries[0].RunID)

	// Re-importing the same statement is idempotent.
	out, err = runEkstre(t, "import", "--config", cfg, processed)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded: 0 inserted, 4 already present")
	assert.Equal(t, 4, storedCount(t, dir))
	_, err = os.Stat(processed)
	assert.NoError(t, err, "explicit paths are not moved")
}

func TestImport_NoStatements(t *testing.T) {
	_, cfg := initWorkspace(t)
	out, err := runEkstre(t, "import", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No statements to import.")
}

func TestImport_DryRun(t *testing.T) {
	dir, cfg := initWorkspace(t)
	inbox := filepath.Join(dir, "inbox", "ekstre_2025_08.txt")
	copyFixture(t, augustFixture, inbox)

	out, err := runEkstre(t, "import", "--config", cfg, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "4 parsed")
	assert.NotContains(t, out, "loaded:")
	assert.Equal(t, 0, storedCount(t, dir))

	_, err = os.Stat(inbox)
	assert.NoError(t, err, "dry run leaves the inbox alone")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusDryRun, entries[0].Status)
}

func TestImport_StrictRejectsAnomalies(t *testing.T) {
	dir, cfg := initWorkspace(t)

	out, err := runEkstre(t, "import", "--config", cfg, "--strict", anomalyFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "anomaly #2 2025-09-03T11:00:00")
	assert.Contains(t, out, "diff 20.00")
	assert.Contains(t, out, "not loaded")
	assert.Equal(t, 0, storedCount(t, dir))

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.StatusRejected, entries[0].Status)
	assert.Equal(t, 1, entries[0].Anomalies)
}

func TestImport_NonStrictLoadsAnomalies(t *testing.T) {
	dir, cfg := initWorkspace(t)

	out, err := runEkstre(t, "import", "--config", cfg, anomalyFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "anomaly #2")
	assert.Contains(t, out, "loaded: 4 inserted")
	assert.Equal(t, 4, storedCount(t, dir))
}

func TestImport_MissingFile(t *testing.T) {
	dir, cfg := initWorkspace(t)

	out, err := runEkstre(t, "import", "--config", cfg, filepath.Join(dir, "missing.txt"), augustFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 statements failed")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "loaded: 4 inserted")

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.Equal(t, runlog.StatusLoaded, entries[1].Status)
}

func TestImport_UnknownFormat(t *testing.T) {
	_, cfg := initWorkspace(t)
	_, err := runEkstre(t, "import", "--config", cfg, "--format", "mt940", augustFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "mt940" (available: ekstre)`)
}

func TestReconcile_StoredLedger(t *testing.T) {
	_, cfg := initWorkspace(t)
	_, err := runEkstre(t, "import", "--config", cfg, anomalyFixture)
	require.NoError(t, err)

	out, err := runEkstre(t, "reconcile", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled 4 transactions")
	assert.Contains(t, out, "1 anomalies")

	_, err = runEkstre(t, "reconcile", "--config", cfg, "--fail-on-anomaly")
	require.Error(t, err)

	out, err = runEkstre(t, "reconcile", "--config", cfg, "--from", "2025-09-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled 2 transactions")
	assert.Contains(t, out, "0 anomalies")
}

func TestReconcile_BadRange(t *testing.T) {
	_, cfg := initWorkspace(t)
	_, err := runEkstre(t, "reconcile", "--config", cfg, "--from", "2025-09-03", "--to", "2025-09-01")
	assert.Error(t, err)

	_, err = runEkstre(t, "reconcile", "--config", cfg, "--from", "03/09/2025")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir, cfg := initWorkspace(t)
	_, err := runEkstre(t, "import", "--config", cfg, augustFixture)
	require.NoError(t, err)

	out, err := runEkstre(t, "export", "--config", cfg, "--out", "-")
	require.NoError(t, err)
	txs, err := ledger.ReadTransactions(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, "2025-08-09T09:00:00", txs[0].TimestampISO)

	path := filepath.Join(dir, "export.csv")
	_, err = runEkstre(t, "export", "--config", cfg, "--out", path, "--from", "2025-08-11", "--to", "2025-08-12")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	txs, err = ledger.ReadTransactions(f)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestExport_WriteFailures(t *testing.T) {
	dir, cfg := initWorkspace(t)
	_, err := runEkstre(t, "import", "--config", cfg, augustFixture)
	require.NoError(t, err)

	_, err = runEkstre(t, "export", "--config", cfg, "--out", filepath.Join(dir, "missing", "export.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating export file")

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("no /dev/full on this system")
	}
	_, err = runEkstre(t, "export", "--config", cfg, "--out", "/dev/full")
	require.Error(t, err, "a write that never reaches the disk must not report success")
	assert.Contains(t, err.Error(), "exporting")
}

func TestExport_RequiresOut(t *testing.T) {
	_, cfg := initWorkspace(t)
	_, err := runEkstre(t, "export", "--config", cfg)
	assert.Error(t, err)
}
