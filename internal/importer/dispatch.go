package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/stmtimport/internal/logger"
	"github.com/cleared-dev/stmtimport/internal/model"
	"github.com/cleared-dev/stmtimport/internal/qif"
)

// ParseFile parses path with the default registry.
func ParseFile(ctx context.Context, path string, opts model.Options) model.ParseResult {
	return DefaultRegistry().ParseFile(ctx, path, opts)
}

// ParseFile picks a reader by the lowercased extension of path and runs it.
// It never returns an error or panics: every failure, including a reader
// panic, becomes one ParseError with no transactions. Records of non-tabular
// types that lack a date or amount are dropped.
func (r *Registry) ParseFile(ctx context.Context, path string, opts model.Options) model.ParseResult {
	log := logger.FromContext(ctx).With().Str("file", path).Logger()
	ext := strings.ToLower(filepath.Ext(path))

	rd := r.Get(ext)
	if rd == nil {
		log.Debug().Str("ext", ext).Msg("no reader for extension")
		return failed(model.FileTypeUnknown, "Invalid file type", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext))
	}
	ft := rd.FileType()

	if err := ctx.Err(); err != nil {
		return failed(ft, "Import cancelled", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Err(err).Msg("reading file")
		return failed(ft, "Failed reading file", err)
	}

	res, err := safeRead(rd, data, ext, opts)
	if err != nil {
		log.Debug().Err(err).Str("file_type", string(ft)).Msg("reader failed")
		return failed(ft, failureMessage(ft, err), err)
	}

	res.FileType = ft
	res.Errors = []model.ParseError{}
	if ft.Tabular() {
		res.Transactions = []model.StructuredTransaction{}
		log.Debug().Int("rows", len(res.Rows)).Msg("read rows")
		return res
	}

	kept := make([]model.StructuredTransaction, 0, len(res.Transactions))
	for _, t := range res.Transactions {
		if !t.Usable() {
			continue
		}
		if !opts.ImportNotes {
			t.Notes = ""
		}
		kept = append(kept, t)
	}
	if dropped := len(res.Transactions) - len(kept); dropped > 0 {
		log.Debug().Int("dropped", dropped).Msg("dropped records without date or amount")
	}
	res.Transactions = kept
	return res
}

func safeRead(rd Reader, data []byte, ext string, opts model.Options) (res model.ParseResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("reader panic: %v", p)
		}
	}()
	return rd.Read(data, ext, opts)
}

func failed(ft model.FileType, message string, err error) model.ParseResult {
	return model.ParseResult{
		FileType:     ft,
		Errors:       []model.ParseError{{Message: message, Internal: err.Error()}},
		Transactions: []model.StructuredTransaction{},
	}
}

func failureMessage(ft model.FileType, err error) string {
	switch {
	case errors.Is(err, qif.ErrMissingType):
		return "Failed parsing: doesn't look like a valid QIF file."
	case errors.Is(err, qif.ErrUnknownDetailCode):
		return "Failed parsing: " + err.Error()
	}
	return fmt.Sprintf("Failed importing %s file", strings.ToUpper(string(ft)))
}
