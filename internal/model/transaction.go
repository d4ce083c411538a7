package model

import (
	"github.com/shopspring/decimal"
)

// FileType identifies the reader that produced a ParseResult.
type FileType string

const (
	FileTypeCSV     FileType = "csv"
	FileTypeQIF     FileType = "qif"
	FileTypeOFX     FileType = "ofx"
	FileTypeCAMT    FileType = "camt"
	FileTypeXLSX    FileType = "xlsx"
	FileTypeUnknown FileType = "unknown"
)

// Tabular reports whether results of this type carry RawRows that still need
// column mapping before they become transactions.
func (t FileType) Tabular() bool {
	return t == FileTypeCSV || t == FileTypeXLSX
}

// StructuredTransaction is the canonical unit handed to the ledger.
type StructuredTransaction struct {
	Date          string              `json:"date"` // YYYY-MM-DD, empty when unknown
	Amount        decimal.NullDecimal `json:"amount"`
	PayeeName     string              `json:"payee_name,omitempty"`
	ImportedPayee string              `json:"imported_payee,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Category      string              `json:"category,omitempty"`
	ImportedID    string              `json:"imported_id,omitempty"`
}

// Usable reports whether the transaction has both a date and an amount.
func (t StructuredTransaction) Usable() bool {
	return t.Date != "" && t.Amount.Valid
}

// ParseError is a file-level failure reported by the dispatcher.
// Message is for users; Internal carries the underlying error text.
type ParseError struct {
	Message  string `json:"message"`
	Internal string `json:"internal,omitempty"`
}

func (e ParseError) Error() string {
	if e.Internal == "" {
		return e.Message
	}
	return e.Message + ": " + e.Internal
}

// ParseResult is what the dispatcher returns for one file. Tabular file types
// fill Rows, all others fill Transactions.
type ParseResult struct {
	FileType     FileType                `json:"file_type"`
	Errors       []ParseError            `json:"errors"`
	Transactions []StructuredTransaction `json:"transactions"`
	Rows         []RawRow                `json:"-"`
}

// OK reports whether the result can proceed to insertion.
func (r ParseResult) OK() bool {
	return len(r.Errors) == 0
}
