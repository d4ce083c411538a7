package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtimport/internal/importer"
	"github.com/cleared-dev/stmtimport/internal/model"
)

func newParseCommand(g *globalFlags) *cobra.Command {
	var of optionFlags
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one bank export and print its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown output format %q (want json or csv)", format)
			}
			opts, err := resolveOptions(cmd, g, &of, args[0])
			if err != nil {
				return err
			}

			res := importer.ParseFile(cmd.Context(), args[0], opts)
			if !res.OK() {
				return parseFailure(args[0], res)
			}
			txns, rowErrs, err := importer.Transactions(res, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "csv" {
				return writeCSV(out, txns)
			}
			return writeJSON(out, parseOutput{
				FileType:     res.FileType,
				Transactions: txns,
				Errors:       rowErrs,
			})
		},
	}

	of.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, csv)")

	return cmd
}

func newDetectCommand(g *globalFlags) *cobra.Command {
	var of optionFlags

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Show the detected file type, column mapping and date order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd, g, &of, args[0])
			if err != nil {
				return err
			}

			res := importer.ParseFile(cmd.Context(), args[0], opts)
			if !res.OK() {
				return parseFailure(args[0], res)
			}
			out := detectOutput{FileType: res.FileType}
			if res.FileType.Tabular() {
				plan, err := importer.ResolvePlan(res.Rows, opts)
				if err != nil {
					return err
				}
				out.Plan = &plan
				out.Rows = len(res.Rows)
			} else {
				out.Rows = len(res.Transactions)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	of.register(cmd)

	return cmd
}

// resolveOptions layers config defaults, the matching profile, and flags.
func resolveOptions(cmd *cobra.Command, g *globalFlags, of *optionFlags, file string) (model.Options, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return model.Options{}, err
	}
	opts, err := cfg.OptionsFor(file)
	if err != nil {
		return model.Options{}, err
	}
	return of.apply(cmd, opts)
}

func parseFailure(file string, res model.ParseResult) error {
	msgs := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		msgs[i] = e.Message
	}
	return fmt.Errorf("parsing %s: %s", file, strings.Join(msgs, "; "))
}
