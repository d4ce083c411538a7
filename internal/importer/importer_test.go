package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/stmtimport/internal/model"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{".csv", ".ofx", ".qfx", ".qif", ".tsv", ".xlsx", ".xml"}, r.Extensions())
	assert.Equal(t, model.FileTypeCSV, r.DetectFileType("a.TSV"))
	assert.Equal(t, model.FileTypeOFX, r.DetectFileType("statement.QFX"))
	assert.Equal(t, model.FileTypeCAMT, r.DetectFileType("camt053.xml"))
	assert.Equal(t, model.FileTypeXLSX, r.DetectFileType("book.xlsx"))
	assert.Equal(t, model.FileTypeUnknown, r.DetectFileType("notes.txt"))
	assert.Equal(t, model.FileTypeUnknown, r.DetectFileType("README"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(qifReader{})
	assert.Panics(t, func() { r.Register(qifReader{}) })
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.QIF", "c.qfx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "processed.csv"), 0o755))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, model.FileTypeCSV, files[0].FileType)
	assert.Equal(t, model.FileTypeQIF, files[1].FileType)
	assert.Equal(t, model.FileTypeOFX, files[2].FileType)
	assert.Equal(t, int64(1), files[2].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	processed := filepath.Join(dir, "processed")
	dst, err := MarkProcessed(dir, processed, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(processed, "a.csv"), dst)

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dst)
	assert.NoError(t, err)
}

func TestMarkProcessed_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := MarkProcessed(dir, filepath.Join(dir, "processed"), "missing.csv")
	assert.Error(t, err)
}
