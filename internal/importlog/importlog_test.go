package importlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 7, 20, 9, 15, 0, 0, time.UTC)

const testRun = "6f1c1a52-8a3e-4d8e-9a52-0b8e2f7f4c11"

func testEntry() Entry {
	return Entry{
		RunID:        testRun,
		Timestamp:    testTime,
		File:         "checking.csv",
		FileType:     "csv",
		Status:       StatusImported,
		Transactions: 12,
		RowErrors:    1,
		Message:      "row 4: Transaction has no amount",
	}
}

func logPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "logs", "import-log.csv")
}

func TestAppend_NewFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "checking.csv", entries[0].File)
	assert.Equal(t, 12, entries[0].Transactions)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := logPath(t)
	require.NoError(t, Append(path, []Entry{testEntry()}))

	e2 := testEntry()
	e2.File = "card.qfx"
	e2.FileType = "ofx"
	e2.Status = StatusFailed
	require.NoError(t, Append(path, []Entry{e2}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "checking.csv", entries[0].File)
	assert.Equal(t, StatusFailed, entries[1].Status)
}

func TestRead_RoundTrip(t *testing.T) {
	path := logPath(t)
	original := testEntry()
	require.NoError(t, Append(path, []Entry{original}))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	got.Timestamp = original.Timestamp
	assert.Equal(t, original, got)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(logPath(t))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import-log.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected 8 fields")
}

func TestUnmarshalEntry_BadRunID(t *testing.T) {
	row := MarshalEntry(testEntry())
	row[colRunID] = "not-a-uuid"
	_, err := UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestTimestampFormat(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-07-20T09:15:00Z", row[colTimestamp])
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestRuns(t *testing.T) {
	a1, a2, b1 := testEntry(), testEntry(), testEntry()
	a2.File = "second.csv"
	b1.RunID = "other"

	runs := Runs([]Entry{a1, b1, a2})
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Equal(t, "second.csv", runs[0][1].File)
	assert.Equal(t, "other", runs[1][0].RunID)
}
