package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
)

func TestEkstre_Parse(t *testing.T) {
	data, err := os.ReadFile("../../testdata/ekstre_2025_08.txt")
	require.NoError(t, err)

	f := NewEkstre(pipeline.Options{})
	res, err := f.Parse(context.Background(), string(data))
	require.NoError(t, err)

	assert.Equal(t, "ekstre", res.Source)
	assert.Len(t, res.Transactions, 4)
	assert.Len(t, res.Rejected, 1)
	assert.Empty(t, res.Anomalies)
	assert.Equal(t, 5, res.Summary.RecordCount)
}

func TestEkstre_ParseAnomaly(t *testing.T) {
	data, err := os.ReadFile("../../testdata/ekstre_anomaly.txt")
	require.NoError(t, err)

	res, err := NewEkstre(pipeline.Options{}).Parse(context.Background(), string(data))
	require.NoError(t, err)

	require.Len(t, res.Transactions, 4)
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, 2, res.Anomalies[0].Index)
	assert.Equal(t, "20.00", res.Anomalies[0].Difference.StringFixed(2))
}

func TestEkstre_Name(t *testing.T) {
	assert.Equal(t, "ekstre", NewEkstre(pipeline.Options{}).Name())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(NewEkstre(pipeline.Options{}))
	f := r.Get("ekstre")
	require.NotNil(t, f)
	assert.Equal(t, "ekstre", f.Name())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(NewEkstre(pipeline.Options{}))
	assert.NotNil(t, r.Get("Ekstre"))
	assert.NotNil(t, r.Get("EKSTRE"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewEkstre(pipeline.Options{}))
	assert.Panics(t, func() { r.Register(NewEkstre(pipeline.Options{})) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(pipeline.Options{})
	assert.NotNil(t, r.Get("ekstre"))
	assert.Equal(t, []string{"ekstre"}, r.Names())
}

func TestScan_FindsStatements(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.TXT"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.TXT", files[0].Name)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.pdf"), files[1].Path)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, ProcessedDir)
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.txt", files[0].Name)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "inbox"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ekstre.pdf"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "ekstre.pdf"))

	_, err := os.Stat(filepath.Join(dir, "ekstre.pdf"))
	assert.True(t, os.IsNotExist(err))

	info, err := os.Stat(filepath.Join(dir, ProcessedDir, "ekstre.pdf"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMarkProcessed_Missing(t *testing.T) {
	err := MarkProcessed(t.TempDir(), "missing.pdf")
	assert.Error(t, err)
}
