// Package textsource fetches a statement document and returns its text.
package textsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dslipak/pdf"
)

// ErrUnsupported is returned for document types or URI schemes with no extractor.
var ErrUnsupported = errors.New("unsupported statement source")

// Source returns the decoded text of the document at uri.
type Source interface {
	Extract(ctx context.Context, uri string) (string, error)
}

// Decode converts raw document bytes to text based on the file extension
// of name. Plain text must be UTF-8.
func Decode(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return pdfText(data)
	case ".txt", ".text":
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: text is not valid UTF-8", name)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting PDF text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}
	return buf.String(), nil
}

// File reads documents from the local filesystem. Accepts plain paths and
// file:// URIs.
type File struct{}

func (File) Extract(ctx context.Context, uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading statement: %w", err)
	}
	return Decode(path, data)
}

// Router dispatches on the URI scheme. Paths without a scheme use "file".
type Router map[string]Source

func (r Router) Extract(ctx context.Context, uri string) (string, error) {
	scheme := "file"
	if i := strings.Index(uri, "://"); i > 0 {
		scheme = strings.ToLower(uri[:i])
	}
	src, ok := r[scheme]
	if !ok {
		return "", fmt.Errorf("scheme %q: %w", scheme, ErrUnsupported)
	}
	return src.Extract(ctx, uri)
}

// readAll drains rc and closes it.
func readAll(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}
