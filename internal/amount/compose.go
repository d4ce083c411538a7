package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fields holds the raw cell text of the amount-bearing columns of one row.
type Fields struct {
	Amount  string
	Outflow string
	Inflow  string
	InOut   string
}

// ComposeOptions selects how Fields are combined.
type ComposeOptions struct {
	// SplitMode reads separate outflow and inflow columns.
	SplitMode bool
	// InOutMode takes direction from the InOut marker instead of the sign.
	InOutMode bool
	// OutValue is the marker text meaning money left the account.
	OutValue string
	// Flip swaps the direction of every amount.
	Flip bool
	// Multiplier scales both legs. Unparsable or zero means 1.
	Multiplier string
}

// Composition is the result of Compose. Outflow and Inflow are only valid in
// split mode; Amount is invalid when a single amount column could not be
// parsed.
type Composition struct {
	Amount  decimal.NullDecimal
	Outflow decimal.NullDecimal
	Inflow  decimal.NullDecimal
}

// Compose reconciles a single signed amount, split outflow/inflow columns,
// and an in/out marker column into one signed amount.
func Compose(f Fields, opts ComposeOptions) Composition {
	var outflow, inflow decimal.Decimal
	parsed := true

	if opts.SplitMode && !opts.InOutMode {
		if v, ok := ParseLoose(f.Outflow); ok {
			outflow = v.Abs().Neg()
		}
		// Outflow wins when a malformed export fills both columns.
		if outflow.IsZero() {
			if v, ok := ParseLoose(f.Inflow); ok {
				inflow = v.Abs()
			}
		}
	} else {
		v, ok := ParseLoose(f.Amount)
		parsed = ok
		if v.IsNegative() {
			outflow = v
		} else {
			inflow = v
		}
	}

	if opts.InOutMode {
		magnitude := inflow
		if !outflow.IsZero() {
			magnitude = outflow
		}
		magnitude = magnitude.Abs()
		if f.InOut == opts.OutValue {
			outflow, inflow = magnitude.Neg(), decimal.Zero
		} else {
			outflow, inflow = decimal.Zero, magnitude
		}
	}

	if opts.Flip {
		outflow, inflow = inflow.Abs().Neg(), outflow.Abs()
	}

	m := multiplier(opts.Multiplier)
	outflow = outflow.Mul(m)
	inflow = inflow.Mul(m)

	total := inflow
	if !outflow.IsZero() {
		total = outflow
	}

	c := Composition{Amount: decimal.NullDecimal{Decimal: total, Valid: parsed}}
	if opts.SplitMode {
		c.Outflow = decimal.NewNullDecimal(outflow)
		c.Inflow = decimal.NewNullDecimal(inflow)
	}
	return c
}

func multiplier(text string) decimal.Decimal {
	v, ok := parseNumber(strings.TrimSpace(text))
	if !ok || v.IsZero() {
		return decimal.NewFromInt(1)
	}
	return v
}
