package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// ErrUnsupportedFileType is returned for extensions no reader handles.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Reader converts one file format into a ParseResult body. Tabular readers
// fill Rows; the others fill Transactions.
type Reader interface {
	Read(data []byte, ext string, opts model.Options) (model.ParseResult, error)
	FileType() model.FileType
	Extensions() []string
}

// Registry holds readers keyed by lowercased file extension.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes a file in the import directory.
type FileInfo struct {
	Name     string
	Path     string
	Size     int64
	FileType model.FileType
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader under each of its extensions. Panics on a duplicate
// extension.
func (r *Registry) Register(rd Reader) {
	for _, ext := range rd.Extensions() {
		key := strings.ToLower(ext)
		if _, ok := r.readers[key]; ok {
			panic("duplicate reader extension: " + key)
		}
		r.readers[key] = rd
	}
}

// Get returns the reader for ext (with its leading dot), or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[strings.ToLower(ext)]
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DetectFileType reports the file type for path by extension alone.
func (r *Registry) DetectFileType(path string) model.FileType {
	rd := r.Get(filepath.Ext(path))
	if rd == nil {
		return model.FileTypeUnknown
	}
	return rd.FileType()
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(delimitedReader{})
	r.Register(workbookReader{})
	r.Register(qifReader{})
	r.Register(ofxReader{})
	r.Register(camtReader{})
	return r
}

// Scan returns the files in dir that a registered reader can handle.
// A missing directory yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ft := r.DetectFileType(e.Name())
		if ft == model.FileTypeUnknown {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:     e.Name(),
			Path:     filepath.Join(dir, e.Name()),
			Size:     info.Size(),
			FileType: ft,
		})
	}
	return files, nil
}

// MarkProcessed moves fileName from dir into processedDir, creating it if
// needed, and returns the new path.
func MarkProcessed(dir, processedDir, fileName string) (string, error) {
	src := filepath.Join(dir, fileName)

	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return "", fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(processedDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return dst, nil
}
