package importer

import (
	"fmt"

	"github.com/cleared-dev/stmtimport/internal/amount"
	"github.com/cleared-dev/stmtimport/internal/dates"
	"github.com/cleared-dev/stmtimport/internal/delimited"
	"github.com/cleared-dev/stmtimport/internal/model"
)

// Plan is how the rows of one tabular file are read: the resolved column
// mapping and date order, and the amount composition mode.
type Plan struct {
	Mapping   model.ColumnMapping `json:"mapping"`
	DateOrder dates.FieldOrder    `json:"date_order"`
	SplitMode bool                `json:"split_mode"`
	InOutMode bool                `json:"in_out_mode"`
}

// Built is the outcome of turning rows into transactions. Errors holds one
// message per rejected row.
type Built struct {
	Plan         Plan                          `json:"plan"`
	Transactions []model.StructuredTransaction `json:"transactions"`
	Errors       []string                      `json:"errors"`
}

// ResolvePlan detects the column mapping from the first row, applies the
// explicit column overrides, and settles the date order. Only an invalid
// configured date format is an error.
func ResolvePlan(rows []model.RawRow, opts model.Options) (Plan, error) {
	p := Plan{Mapping: delimited.DetectColumnMapping(rows).Override(opts.Columns)}

	explicitSplit := opts.Columns.Outflow != "" || opts.Columns.Inflow != ""
	detectedSplit := p.Mapping.Amount == "" && (p.Mapping.Outflow != "" || p.Mapping.Inflow != "")
	p.SplitMode = explicitSplit || detectedSplit
	p.InOutMode = p.Mapping.InOut != "" && opts.OutValue != ""

	if opts.DateFormat != "" {
		order, err := dates.ParseFieldOrder(opts.DateFormat)
		if err != nil {
			return Plan{}, err
		}
		p.DateOrder = order
		return p, nil
	}
	if len(rows) > 0 {
		if sample, ok := delimited.ReadCell(rows[0], p.Mapping.Date); ok {
			p.DateOrder, _ = dates.DetectFormat(sample)
		}
	}
	return p, nil
}

// Build turns tabular rows into transactions. Rows without a readable date
// or amount are reported in Errors and left out.
func Build(rows []model.RawRow, opts model.Options) (Built, error) {
	p, err := ResolvePlan(rows, opts)
	if err != nil {
		return Built{}, fmt.Errorf("resolving columns: %w", err)
	}

	out := Built{
		Plan:         p,
		Transactions: make([]model.StructuredTransaction, 0, len(rows)),
		Errors:       []string{},
	}
	composeOpts := amount.ComposeOptions{
		SplitMode:  p.SplitMode,
		InOutMode:  p.InOutMode,
		OutValue:   opts.OutValue,
		Flip:       opts.FlipAmount,
		Multiplier: opts.Multiplier,
	}

	for i, row := range rows {
		cell := func(role model.Role) string {
			v, _ := delimited.ReadCell(row, p.Mapping.Get(role))
			return v
		}

		var date string
		ok := false
		if p.DateOrder != "" {
			date, ok = dates.Parse(cell(model.RoleDate), p.DateOrder)
		}
		if !ok {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: Transaction has no date", i+1))
			continue
		}

		c := amount.Compose(amount.Fields{
			Amount:  cell(model.RoleAmount),
			Outflow: cell(model.RoleOutflow),
			Inflow:  cell(model.RoleInflow),
			InOut:   cell(model.RoleInOut),
		}, composeOpts)
		if !c.Amount.Valid {
			out.Errors = append(out.Errors, fmt.Sprintf("row %d: Transaction has no amount", i+1))
			continue
		}

		t := model.StructuredTransaction{
			Date:          date,
			Amount:        c.Amount,
			PayeeName:     cell(model.RolePayee),
			ImportedPayee: cell(model.RolePayee),
			Category:      cell(model.RoleCategory),
		}
		if opts.ImportNotes {
			t.Notes = cell(model.RoleNotes)
		}
		out.Transactions = append(out.Transactions, t)
	}
	return out, nil
}

// Transactions returns the structured transactions of a dispatcher result,
// running Build for tabular results. Row-level rejections come back as
// messages.
func Transactions(res model.ParseResult, opts model.Options) ([]model.StructuredTransaction, []string, error) {
	if !res.FileType.Tabular() {
		return res.Transactions, nil, nil
	}
	b, err := Build(res.Rows, opts)
	if err != nil {
		return nil, nil, err
	}
	return b.Transactions, b.Errors, nil
}
