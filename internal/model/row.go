package model

import "strconv"

// RawRow is one record from a delimited file, either positional or keyed by
// header name.
type RawRow interface {
	// Cell returns the value referenced by ref: a header name or a
	// numeric column index.
	Cell(ref string) (string, bool)
	// Entries returns the row's key/value pairs in column order.
	Entries() []Entry
}

// Entry is one key/value pair of a RawRow. For IndexedRow the key is the
// decimal column index.
type Entry struct {
	Key   string
	Value string
}

// IndexedRow is a row read without a header.
type IndexedRow []string

// Cell implements RawRow.
func (r IndexedRow) Cell(ref string) (string, bool) {
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Entries implements RawRow.
func (r IndexedRow) Entries() []Entry {
	entries := make([]Entry, len(r))
	for i, v := range r {
		entries[i] = Entry{Key: strconv.Itoa(i), Value: v}
	}
	return entries
}

// NamedRow is a row read with a header. Headers and Cells are positional;
// a header repeated in the file resolves to its last occurrence.
type NamedRow struct {
	Headers []string
	Cells   []string
}

// Cell implements RawRow. Names are tried first, then numeric refs are
// treated as positional indices.
func (r NamedRow) Cell(ref string) (string, bool) {
	for i := len(r.Headers) - 1; i >= 0; i-- {
		if r.Headers[i] == ref {
			if i >= len(r.Cells) {
				return "", false
			}
			return r.Cells[i], true
		}
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= len(r.Cells) {
		return "", false
	}
	return r.Cells[i], true
}

// Entries implements RawRow. Each distinct header appears once, at its first
// position, carrying the value of its last occurrence.
func (r NamedRow) Entries() []Entry {
	seen := make(map[string]bool, len(r.Headers))
	var entries []Entry
	for _, h := range r.Headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		v, _ := r.Cell(h)
		entries = append(entries, Entry{Key: h, Value: v})
	}
	return entries
}
