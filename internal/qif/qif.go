// Package qif reads Quicken Interchange Format files: a !Type: header line
// followed by records of single-letter detail codes terminated by "^".
package qif

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingType is returned when the first non-empty line is not a
	// !Type: header.
	ErrMissingType = errors.New("file does not appear to be a valid qif file")

	// ErrUnknownDetailCode is returned for a record line whose leading code
	// is not recognized.
	ErrUnknownDetailCode = errors.New("Unknown Detail Code")
)

var typeHeader = regexp.MustCompile(`^!Type:(.*)$`)

// Division is one split line of a transaction.
type Division struct {
	Category    string
	Description string
	Amount      string
}

// Transaction is one record, with fields kept as they appear in the file.
type Transaction struct {
	Date          string
	Amount        string
	Number        string
	Memo          string
	Address       []string
	Payee         string
	Category      string
	Subcategory   string
	ClearedStatus string
	Divisions     []Division
}

// CategoryPath is "category" or "category:subcategory".
func (t Transaction) CategoryPath() string {
	if t.Subcategory == "" {
		return t.Category
	}
	return t.Category + ":" + t.Subcategory
}

func (t Transaction) populated() bool {
	return t.Date != "" || t.Amount != "" || t.Number != "" || t.Memo != "" ||
		len(t.Address) > 0 || t.Payee != "" || t.Category != "" ||
		t.Subcategory != "" || t.ClearedStatus != "" || len(t.Divisions) > 0
}

// File is a parsed QIF document.
type File struct {
	Type         string
	Transactions []Transaction
}

// Parse reads text into records. A missing type header or an unknown detail
// code fails the whole file.
func Parse(text string) (*File, error) {
	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var f *File
	var txn Transaction
	var div Division
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if f == nil {
			m := typeHeader.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("%w: %q", ErrMissingType, line)
			}
			f = &File{Type: strings.TrimSpace(m[1])}
			continue
		}

		if line == "^" {
			f.Transactions = append(f.Transactions, txn)
			txn, div = Transaction{}, Division{}
			continue
		}

		value := line[1:]
		switch line[0] {
		case 'D':
			txn.Date = value
		case 'T':
			txn.Amount = value
		case 'N':
			txn.Number = value
		case 'M':
			txn.Memo = value
		case 'A':
			txn.Address = append(txn.Address, value)
		case 'P':
			txn.Payee = strings.ReplaceAll(value, "&amp;", "&")
		case 'L':
			cat, sub, _ := strings.Cut(value, ":")
			txn.Category, txn.Subcategory = cat, sub
		case 'C':
			txn.ClearedStatus = value
		case 'S':
			div.Category = value
		case 'E':
			div.Description = value
		case '$':
			div.Amount = value
			txn.Divisions = append(txn.Divisions, div)
			div = Division{}
		default:
			return nil, fmt.Errorf("line %d: %w: %c", lineNo, ErrUnknownDetailCode, line[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading qif: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: empty input", ErrMissingType)
	}
	if txn.populated() {
		f.Transactions = append(f.Transactions, txn)
	}
	return f, nil
}
