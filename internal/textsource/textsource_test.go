package textsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	got, err := Decode("statement.TXT", []byte("\xef\xbb\xbf11/08/2025 17:39:14 ISKI\n"))
	require.NoError(t, err)
	assert.Equal(t, "11/08/2025 17:39:14 ISKI\n", got)

	_, err = Decode("statement.txt", []byte{0xff, 0xfe, 0x00})
	assert.Error(t, err)

	_, err = Decode("statement.xlsx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Decode("statement.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestFile_Extract(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ekstre.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two"), 0o644))

	got, err := File{}.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)

	got, err = File{}.Extract(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)

	_, err = File{}.Extract(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeSource struct {
	text string
	uris []string
}

func (f *fakeSource) Extract(_ context.Context, uri string) (string, error) {
	f.uris = append(f.uris, uri)
	return f.text, nil
}

func TestRouter(t *testing.T) {
	files := &fakeSource{text: "local"}
	cloud := &fakeSource{text: "cloud"}
	r := Router{"file": files, "gs": cloud}

	got, err := r.Extract(context.Background(), "/tmp/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "local", got)

	got, err = r.Extract(context.Background(), "GS://bucket/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "cloud", got)
	assert.Equal(t, []string{"GS://bucket/a.pdf"}, cloud.uris)

	_, err = r.Extract(context.Background(), "s3://bucket/a.pdf")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := ParseGCSURI("gs://statements/2025/08/ekstre.pdf")
	require.NoError(t, err)
	assert.Equal(t, "statements", bucket)
	assert.Equal(t, "2025/08/ekstre.pdf", object)

	for _, bad := range []string{"statements/ekstre.pdf", "gs://statements", "gs://statements/", "gs:///x.pdf"} {
		_, _, err := ParseGCSURI(bad)
		assert.Error(t, err, bad)
	}
}
