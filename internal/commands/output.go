package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/cleared-dev/stmtimport/internal/importer"
	"github.com/cleared-dev/stmtimport/internal/model"
)

type parseOutput struct {
	FileType     model.FileType                `json:"file_type"`
	Transactions []model.StructuredTransaction `json:"transactions"`
	Errors       []string                      `json:"errors,omitempty"`
}

type detectOutput struct {
	FileType model.FileType `json:"file_type"`
	Rows     int            `json:"rows"`
	Plan     *importer.Plan `json:"plan,omitempty"`
}

// csvRow is the flat CSV rendering of a transaction.
type csvRow struct {
	Date          string `csv:"date"`
	Amount        string `csv:"amount"`
	PayeeName     string `csv:"payee_name"`
	ImportedPayee string `csv:"imported_payee"`
	Notes         string `csv:"notes"`
	Category      string `csv:"category"`
	ImportedID    string `csv:"imported_id"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, txns []model.StructuredTransaction) error {
	rows := make([]*csvRow, len(txns))
	for i, t := range txns {
		rows[i] = &csvRow{
			Date:          t.Date,
			PayeeName:     t.PayeeName,
			ImportedPayee: t.ImportedPayee,
			Notes:         t.Notes,
			Category:      t.Category,
			ImportedID:    t.ImportedID,
		}
		if t.Amount.Valid {
			rows[i].Amount = t.Amount.Decimal.String()
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
