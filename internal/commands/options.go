package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtimport/internal/model"
)

// optionFlags are per-file import options. Only flags the user set override
// the configured profile.
type optionFlags struct {
	noHeader       bool
	delimiter      string
	skipStart      int
	skipEnd        int
	dateFormat     string
	multiplier     string
	flip           bool
	outValue       string
	noNotes        bool
	noMemoFallback bool
	columns        map[string]string
}

func (o *optionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.noHeader, "no-header", false, "treat the first row as data")
	f.StringVar(&o.delimiter, "delimiter", "", `field delimiter ("tab" for tab)`)
	f.IntVar(&o.skipStart, "skip-start", 0, "lines to drop from the start")
	f.IntVar(&o.skipEnd, "skip-end", 0, "lines to drop from the end")
	f.StringVar(&o.dateFormat, "date-format", "", `date field order, e.g. "dd mm yyyy" (detected when empty)`)
	f.StringVar(&o.multiplier, "multiplier", "", "scale every amount")
	f.BoolVar(&o.flip, "flip", false, "swap inflow and outflow")
	f.StringVar(&o.outValue, "out-value", "", "in/out column value that marks an outflow")
	f.BoolVar(&o.noNotes, "no-notes", false, "drop notes from every transaction")
	f.BoolVar(&o.noMemoFallback, "no-memo-fallback", false, "do not use the OFX memo as payee when the name is empty")
	f.StringToStringVar(&o.columns, "column", nil, "column override role=ref (date, amount, payee, notes, category, outflow, inflow, inOut)")
}

// apply overlays the flags the user changed onto opts.
func (o *optionFlags) apply(cmd *cobra.Command, opts model.Options) (model.Options, error) {
	f := cmd.Flags()
	if f.Changed("no-header") {
		opts.HasHeaderRow = !o.noHeader
	}
	if f.Changed("delimiter") {
		opts.Delimiter = o.delimiter
	}
	if f.Changed("skip-start") {
		opts.SkipStartLines = o.skipStart
	}
	if f.Changed("skip-end") {
		opts.SkipEndLines = o.skipEnd
	}
	if f.Changed("date-format") {
		opts.DateFormat = o.dateFormat
	}
	if f.Changed("multiplier") {
		opts.Multiplier = o.multiplier
	}
	if f.Changed("flip") {
		opts.FlipAmount = o.flip
	}
	if f.Changed("out-value") {
		opts.OutValue = o.outValue
	}
	if f.Changed("no-notes") {
		opts.ImportNotes = !o.noNotes
	}
	if f.Changed("no-memo-fallback") {
		opts.FallbackMissingPayeeToMemo = !o.noMemoFallback
	}
	for role, ref := range o.columns {
		if !knownRole(model.Role(role)) {
			return model.Options{}, fmt.Errorf("unknown column role %q", role)
		}
		opts.Columns.Set(model.Role(role), ref)
	}
	return opts, nil
}

func knownRole(r model.Role) bool {
	for _, known := range model.Roles {
		if r == known {
			return true
		}
	}
	return false
}
