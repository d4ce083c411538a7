package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmtimport/internal/logger"
	"github.com/cleared-dev/stmtimport/internal/model"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseFile_CSVScenario(t *testing.T) {
	path := writeFile(t, "export.csv", "Date,Amount,Payee\n2025-07-15,-45.99,Whole Foods\n")
	opts := model.DefaultOptions()

	res := ParseFile(context.Background(), path, opts)
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, model.FileTypeCSV, res.FileType)
	require.Len(t, res.Rows, 1)

	txns, rowErrs, err := Transactions(res, opts)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, txns, 1)
	assert.Equal(t, "2025-07-15", txns[0].Date)
	assert.Equal(t, "-45.99", txns[0].Amount.Decimal.String())
	assert.Equal(t, "Whole Foods", txns[0].PayeeName)
}

func TestParseFile_TSVDefaultsToTab(t *testing.T) {
	path := writeFile(t, "export.TSV", "Date\tAmount\n2025-07-15\t1,5\n")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	require.True(t, res.OK())
	assert.Equal(t, model.FileTypeCSV, res.FileType)
	v, _ := res.Rows[0].Cell("Amount")
	assert.Equal(t, "1,5", v)
}

func TestParseFile_UnknownExtension(t *testing.T) {
	path := writeFile(t, "statement.pdf", "%PDF")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	assert.Equal(t, model.FileTypeUnknown, res.FileType)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Invalid file type", res.Errors[0].Message)
	assert.Contains(t, res.Errors[0].Internal, "unsupported file type")
	assert.NotNil(t, res.Transactions)
	assert.Empty(t, res.Transactions)
}

func TestParseFile_MissingFile(t *testing.T) {
	res := ParseFile(context.Background(), filepath.Join(t.TempDir(), "gone.csv"), model.DefaultOptions())
	assert.Equal(t, model.FileTypeCSV, res.FileType)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Failed reading file", res.Errors[0].Message)
}

func TestParseFile_SkipTooMany(t *testing.T) {
	path := writeFile(t, "a.csv", "Date,Amount\n2025-01-01,1\n")
	opts := model.DefaultOptions()
	opts.SkipStartLines = 2

	res := ParseFile(context.Background(), path, opts)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Internal, "skip count exceeds line count")
	assert.Empty(t, res.Transactions)
	assert.Empty(t, res.Rows)
}

func TestParseFile_QIF(t *testing.T) {
	res := ParseFile(context.Background(), "../../testdata/checking.qif", model.DefaultOptions())
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, model.FileTypeQIF, res.FileType)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "2025-07-15", first.Date)
	assert.Equal(t, "-45.99", first.Amount.Decimal.String())
	assert.Equal(t, "Barnes & Noble", first.PayeeName)
	assert.Equal(t, "gift", first.Notes)
	assert.Equal(t, "Books", first.Category)

	assert.Equal(t, "Groceries:Produce", res.Transactions[1].Category)
	assert.Equal(t, "1500", res.Transactions[2].Amount.Decimal.String())
}

func TestParseFile_QIFDropsBadRows(t *testing.T) {
	path := writeFile(t, "a.qif", "!Type:Bank\nD07/15/2025\nT-1.00\n^\nDgarbage\nT-2.00\n^\nD07/16/2025\nTabc\n^\nD07/17/2025\nT3\n^\n")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	require.True(t, res.OK())
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "2025-07-17", res.Transactions[1].Date)
}

func TestParseFile_QIFUnknownDetailCode(t *testing.T) {
	path := writeFile(t, "a.qif", "!Type:Bank\nD07/15/2025\nZ1234\n^\n")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	assert.Equal(t, model.FileTypeQIF, res.FileType)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "Unknown Detail Code: Z")
	assert.Empty(t, res.Transactions)
}

func TestParseFile_QIFMissingType(t *testing.T) {
	path := writeFile(t, "a.qif", "D07/15/2025\nT1\n^\n")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Failed parsing: doesn't look like a valid QIF file.", res.Errors[0].Message)
}

func TestParseFile_QIFDateFormat(t *testing.T) {
	path := writeFile(t, "a.qif", "!Type:Bank\nD03/04/2025\nT1\n^\n")
	opts := model.DefaultOptions()
	opts.DateFormat = "dd mm yyyy"

	res := ParseFile(context.Background(), path, opts)
	require.True(t, res.OK())
	assert.Equal(t, "2025-04-03", res.Transactions[0].Date)

	opts.DateFormat = "yyyy"
	res = ParseFile(context.Background(), path, opts)
	assert.False(t, res.OK())
}

func TestParseFile_OFX(t *testing.T) {
	res := ParseFile(context.Background(), "../../testdata/bank_sgml.ofx", model.DefaultOptions())
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, model.FileTypeOFX, res.FileType)
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "2025-07-15", first.Date)
	assert.Equal(t, "-12.50", first.Amount.Decimal.StringFixed(2))
	assert.Equal(t, "Coffee Shop", first.PayeeName)
	assert.Equal(t, "Latte & scone", first.Notes)
	assert.Equal(t, "abc123", first.ImportedID)

	atm := res.Transactions[2]
	assert.Equal(t, "ATM WITHDRAWAL", atm.PayeeName)
	assert.Equal(t, "", atm.Notes)
}

func TestParseFile_OFXNoMemoFallback(t *testing.T) {
	opts := model.DefaultOptions()
	opts.FallbackMissingPayeeToMemo = false

	res := ParseFile(context.Background(), "../../testdata/bank_sgml.ofx", opts)
	require.True(t, res.OK())
	atm := res.Transactions[2]
	assert.Equal(t, "", atm.PayeeName)
	assert.Equal(t, "ATM WITHDRAWAL", atm.Notes)
}

func TestParseFile_ImportNotesOff(t *testing.T) {
	opts := model.DefaultOptions()
	opts.ImportNotes = false

	for _, path := range []string{"../../testdata/bank_sgml.ofx", "../../testdata/checking.qif", "../../testdata/camt053.xml"} {
		res := ParseFile(context.Background(), path, opts)
		require.True(t, res.OK(), path)
		for _, txn := range res.Transactions {
			assert.Empty(t, txn.Notes, path)
		}
	}
}

func TestParseFile_CAMT(t *testing.T) {
	res := ParseFile(context.Background(), "../../testdata/camt053.xml", model.DefaultOptions())
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, model.FileTypeCAMT, res.FileType)
	assert.Len(t, res.Transactions, 5)
}

func TestParseFile_BrokenXML(t *testing.T) {
	path := writeFile(t, "camt.xml", "<Document><Ntry>")

	res := ParseFile(context.Background(), path, model.DefaultOptions())
	assert.Equal(t, model.FileTypeCAMT, res.FileType)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Failed importing CAMT file", res.Errors[0].Message)
	assert.NotEmpty(t, res.Errors[0].Internal)
}

func TestParseFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Date", "Payee", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2025-07-15", "Whole Foods", "-45.99"}))
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))

	opts := model.DefaultOptions()
	res := ParseFile(context.Background(), path, opts)
	require.True(t, res.OK(), "%v", res.Errors)
	assert.Equal(t, model.FileTypeXLSX, res.FileType)

	txns, _, err := Transactions(res, opts)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Whole Foods", txns[0].PayeeName)
	assert.Equal(t, "-45.99", txns[0].Amount.Decimal.String())
}

type panicReader struct{}

func (panicReader) FileType() model.FileType { return model.FileTypeQIF }
func (panicReader) Extensions() []string     { return []string{".boom"} }
func (panicReader) Read([]byte, string, model.Options) (model.ParseResult, error) {
	panic("index out of range")
}

func TestParseFile_RecoversPanic(t *testing.T) {
	r := NewRegistry()
	r.Register(panicReader{})
	path := writeFile(t, "x.boom", "data")

	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewJSON(buf, zerolog.DebugLevel))

	var res model.ParseResult
	require.NotPanics(t, func() { res = r.ParseFile(ctx, path, model.DefaultOptions()) })
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Internal, "index out of range")
	assert.Empty(t, res.Transactions)
	assert.Contains(t, buf.String(), "reader failed")
}

func TestParseFile_Cancelled(t *testing.T) {
	path := writeFile(t, "a.csv", "Date,Amount\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := ParseFile(ctx, path, model.DefaultOptions())
	assert.False(t, res.OK())
}
