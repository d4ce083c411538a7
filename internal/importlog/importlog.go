// Package importlog keeps a CSV record of every file an import run handled.
package importlog

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
	StatusImported = "imported"
	StatusFailed   = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	RunID        string
	Timestamp    time.Time
	File         string
	FileType     string
	Status       string
	Transactions int
	RowErrors    int
	Message      string
}

// Header is the CSV header of the import log.
const Header = "run_id,timestamp,file,file_type,status,transactions,row_errors,message"

const (
	numFields       = 8
	colRunID        = 0
	colTimestamp    = 1
	colFile         = 2
	colFileType     = 3
	colStatus       = 4
	colTransactions = 5
	colRowErrors    = 6
	colMessage      = 7
)

// NewRunID returns a fresh identifier shared by all entries of one run.
func NewRunID() string {
	return uuid.NewString()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colFileType] = e.FileType
	row[colStatus] = e.Status
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colRowErrors] = strconv.Itoa(e.RowErrors)
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run id %q: %w", record[colRunID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	txns, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}
	rowErrs, err := strconv.Atoi(record[colRowErrors])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing row_errors %q: %w", record[colRowErrors], err)
	}

	return Entry{
		RunID:        record[colRunID],
		Timestamp:    ts,
		File:         record[colFile],
		FileType:     record[colFileType],
		Status:       record[colStatus],
		Transactions: txns,
		RowErrors:    rowErrs,
		Message:      record[colMessage],
	}, nil
}

// Append writes entries to the log at path, creating the file, its
// directory and the header if needed.
func Append(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

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
	defer cw.Flush()

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

// Read returns all entries of the log at path. A missing file yields none.
func Read(path string) ([]Entry, error) {
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

// Runs groups entries by run id, keeping the order runs first appear in.
func Runs(entries []Entry) [][]Entry {
	index := make(map[string]int)
	var runs [][]Entry
	for _, e := range entries {
		i, ok := index[e.RunID]
		if !ok {
			i = len(runs)
			index[e.RunID] = i
			runs = append(runs, nil)
		}
		runs[i] = append(runs[i], e)
	}
	return runs
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
