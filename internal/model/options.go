package model

// Options is the full set of import options a caller can pass to the
// dispatcher and the CSV build step.
type Options struct {
	HasHeaderRow               bool          `yaml:"has_header_row"`
	Delimiter                  string        `yaml:"delimiter,omitempty"`
	SkipStartLines             int           `yaml:"skip_start_lines,omitempty"`
	SkipEndLines               int           `yaml:"skip_end_lines,omitempty"`
	DateFormat                 string        `yaml:"date_format,omitempty"` // empty = detect
	Multiplier                 string        `yaml:"multiplier,omitempty"`
	FlipAmount                 bool          `yaml:"flip_amount"`
	Columns                    ColumnMapping `yaml:"columns,omitempty"`
	OutValue                   string        `yaml:"csv_out_value,omitempty"`
	FallbackMissingPayeeToMemo bool          `yaml:"fallback_missing_payee_to_memo"`
	ImportNotes                bool          `yaml:"import_notes"`
}

// DefaultOptions returns options matching the behavior of a plain CSV export
// with a header row.
func DefaultOptions() Options {
	return Options{
		HasHeaderRow:               true,
		FallbackMissingPayeeToMemo: true,
		ImportNotes:                true,
	}
}
