package importer

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtimport/internal/amount"
	"github.com/cleared-dev/stmtimport/internal/camt"
	"github.com/cleared-dev/stmtimport/internal/dates"
	"github.com/cleared-dev/stmtimport/internal/delimited"
	"github.com/cleared-dev/stmtimport/internal/model"
	"github.com/cleared-dev/stmtimport/internal/ofx"
	"github.com/cleared-dev/stmtimport/internal/qif"
)

type delimitedReader struct{}

func (delimitedReader) FileType() model.FileType { return model.FileTypeCSV }
func (delimitedReader) Extensions() []string     { return []string{".csv", ".tsv"} }

func (delimitedReader) Read(data []byte, ext string, opts model.Options) (model.ParseResult, error) {
	fallback := ','
	if ext == ".tsv" {
		fallback = '\t'
	}
	contents, err := delimited.ApplyLineSkips(string(data), opts.SkipStartLines, opts.SkipEndLines)
	if err != nil {
		return model.ParseResult{}, err
	}
	rows, err := delimited.Parse(contents, delimited.Options{
		HasHeader: opts.HasHeaderRow,
		Delimiter: delimited.ParseDelimiter(opts.Delimiter, fallback),
	})
	if err != nil {
		return model.ParseResult{}, err
	}
	return model.ParseResult{Rows: rows}, nil
}

type workbookReader struct{}

func (workbookReader) FileType() model.FileType { return model.FileTypeXLSX }
func (workbookReader) Extensions() []string     { return []string{".xlsx"} }

func (workbookReader) Read(data []byte, _ string, opts model.Options) (model.ParseResult, error) {
	rows, err := delimited.ParseWorkbook(bytes.NewReader(data), opts.HasHeaderRow, opts.SkipStartLines, opts.SkipEndLines)
	if err != nil {
		return model.ParseResult{}, err
	}
	return model.ParseResult{Rows: rows}, nil
}

type qifReader struct{}

func (qifReader) FileType() model.FileType { return model.FileTypeQIF }
func (qifReader) Extensions() []string     { return []string{".qif"} }

func (qifReader) Read(data []byte, _ string, opts model.Options) (model.ParseResult, error) {
	f, err := qif.Parse(string(data))
	if err != nil {
		return model.ParseResult{}, err
	}

	order, err := qifDateOrder(f.Transactions, opts.DateFormat)
	if err != nil {
		return model.ParseResult{}, err
	}

	txns := make([]model.StructuredTransaction, 0, len(f.Transactions))
	for _, t := range f.Transactions {
		var st model.StructuredTransaction
		if order != "" {
			st.Date, _ = dates.Parse(t.Date, order)
		}
		if v, ok := amount.ParseLoose(t.Amount); ok {
			st.Amount = decimal.NewNullDecimal(v)
		}
		st.PayeeName = t.Payee
		st.ImportedPayee = t.Payee
		st.Notes = t.Memo
		st.Category = t.CategoryPath()
		txns = append(txns, st)
	}
	return model.ParseResult{Transactions: txns}, nil
}

// qifDateOrder is the configured order, or the one detected from the first
// dated record. An empty order means no record's date can be read.
func qifDateOrder(txns []qif.Transaction, configured string) (dates.FieldOrder, error) {
	if configured != "" {
		return dates.ParseFieldOrder(configured)
	}
	for _, t := range txns {
		if t.Date == "" {
			continue
		}
		order, _ := dates.DetectFormat(t.Date)
		return order, nil
	}
	return "", nil
}

type ofxReader struct{}

func (ofxReader) FileType() model.FileType { return model.FileTypeOFX }
func (ofxReader) Extensions() []string     { return []string{".ofx", ".qfx"} }

func (ofxReader) Read(data []byte, _ string, opts model.Options) (model.ParseResult, error) {
	st, err := ofx.Parse(string(data))
	if err != nil {
		return model.ParseResult{}, err
	}

	txns := make([]model.StructuredTransaction, 0, len(st.Transactions))
	for _, t := range st.Transactions {
		payee, notes := t.Name, t.Memo
		if payee == "" && opts.FallbackMissingPayeeToMemo {
			payee, notes = t.Memo, ""
		}
		out := model.StructuredTransaction{
			Date:          t.Date,
			PayeeName:     payee,
			ImportedPayee: payee,
			Notes:         notes,
			ImportedID:    t.FITID,
		}
		if v, ok := amount.ParseStatement(t.Amount); ok {
			out.Amount = decimal.NewNullDecimal(v)
		}
		txns = append(txns, out)
	}
	return model.ParseResult{Transactions: txns}, nil
}

type camtReader struct{}

func (camtReader) FileType() model.FileType { return model.FileTypeCAMT }
func (camtReader) Extensions() []string     { return []string{".xml"} }

func (camtReader) Read(data []byte, _ string, _ model.Options) (model.ParseResult, error) {
	txns, err := camt.Parse(string(data))
	if err != nil {
		return model.ParseResult{}, fmt.Errorf("reading camt: %w", err)
	}
	return model.ParseResult{Transactions: txns}, nil
}
