package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/pipeline"
)

// Format turns one statement's extracted text into a pipeline result.
type Format interface {
	Name() string
	Parse(ctx context.Context, text string) (pipeline.Result, error)
}

// Registry holds named statement formats.
type Registry struct {
	formats map[string]Format
}

// FileInfo describes a statement file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name())
	if _, ok := r.formats[key]; ok {
		panic("duplicate statement format: " + key)
	}
	r.formats[key] = f
}

// Get returns the format registered under name, or nil.
func (r *Registry) Get(name string) Format {
	return r.formats[strings.ToLower(name)]
}

// Names lists registered formats in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for k := range r.formats {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the built-in formats.
func DefaultRegistry(opts pipeline.Options) *Registry {
	r := NewRegistry()
	r.Register(NewEkstre(opts))
	return r
}

// ProcessedDir is the inbox subdirectory holding imported statements.
const ProcessedDir = "processed"

var statementExts = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".text": true,
}

// Scan returns statement files directly inside dir, sorted by name.
// A missing directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !statementExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName to dir/processed/fileName.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
