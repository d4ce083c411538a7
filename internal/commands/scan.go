package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtimport/internal/config"
	"github.com/cleared-dev/stmtimport/internal/importer"
	"github.com/cleared-dev/stmtimport/internal/importlog"
	"github.com/cleared-dev/stmtimport/internal/logger"
	"github.com/cleared-dev/stmtimport/internal/model"
)

func newScanCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "List importable files in the import directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.ImportDir
			if len(args) > 0 {
				dir = args[0]
			}

			files, err := importer.DefaultRegistry().Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No importable files in %s\n", dir)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tTYPE\tSIZE")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", f.Name, f.FileType, f.Size)
			}
			return tw.Flush()
		},
	}
}

func newImportCommand(g *globalFlags) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Parse every file in the import directory and move it to processed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			return runImport(cmd, cfg, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without moving files or writing results")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()

	reg := importer.DefaultRegistry()
	files, err := reg.Scan(cfg.ImportDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No importable files in %s\n", cfg.ImportDir)
		return nil
	}

	runID := importlog.NewRunID()
	var entries []importlog.Entry
	failures := 0

	for _, f := range files {
		entry := importlog.Entry{
			RunID:     runID,
			Timestamp: time.Now().UTC(),
			File:      f.Name,
			FileType:  string(f.FileType),
		}

		txns, rowErrs, err := importOne(cmd, cfg, reg, f, dryRun)
		if err != nil {
			failures++
			entry.Status = importlog.StatusFailed
			entry.Message = err.Error()
			log.Warn().Err(err).Str("file", f.Name).Msg("import failed")
			fmt.Fprintf(out, "%s: failed: %v\n", f.Name, err)
		} else {
			entry.Status = importlog.StatusImported
			entry.Transactions = len(txns)
			entry.RowErrors = len(rowErrs)
			entry.Message = strings.Join(rowErrs, "; ")
			log.Info().Str("file", f.Name).Int("transactions", len(txns)).Int("row_errors", len(rowErrs)).Msg("imported")
			fmt.Fprintf(out, "%s: %d transactions, %d rejected rows\n", f.Name, len(txns), len(rowErrs))
		}
		entries = append(entries, entry)
	}

	if !dryRun {
		if err := importlog.Append(cfg.LogFile, entries); err != nil {
			return err
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed to import", failures, len(files))
	}
	return nil
}

// importOne parses one file and, unless dryRun, writes <name>.json into the
// processed directory before moving the file there. A file whose result
// cannot be written stays in the import directory.
func importOne(cmd *cobra.Command, cfg *config.Config, reg *importer.Registry, f importer.FileInfo, dryRun bool) ([]model.StructuredTransaction, []string, error) {
	opts, err := cfg.OptionsFor(f.Name)
	if err != nil {
		return nil, nil, err
	}

	res := reg.ParseFile(cmd.Context(), f.Path, opts)
	if !res.OK() {
		return nil, nil, parseFailure(f.Name, res)
	}
	txns, rowErrs, err := importer.Transactions(res, opts)
	if err != nil {
		return nil, nil, err
	}
	if dryRun {
		return txns, rowErrs, nil
	}

	if err := os.MkdirAll(cfg.ProcessedDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating processed dir: %w", err)
	}
	resultPath := filepath.Join(cfg.ProcessedDir, f.Name+".json")
	if err := writeResult(resultPath, parseOutput{FileType: res.FileType, Transactions: txns, Errors: rowErrs}); err != nil {
		return nil, nil, err
	}
	if _, err := importer.MarkProcessed(cfg.ImportDir, cfg.ProcessedDir, f.Name); err != nil {
		os.Remove(resultPath)
		return nil, nil, err
	}
	return txns, rowErrs, nil
}

func writeResult(path string, out parseOutput) error {
	rf, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := writeJSON(rf, out); err != nil {
		rf.Close()
		os.Remove(path)
		return err
	}
	if err := rf.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
