package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtimport/internal/importlog"
)

func newHistoryCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Summarize past import runs from the import log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			entries, err := importlog.Read(cfg.LogFile)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No import runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tFILES\tFAILED\tTRANSACTIONS")
			for _, run := range importlog.Runs(entries) {
				failed, txns := 0, 0
				for _, e := range run {
					if e.Status == importlog.StatusFailed {
						failed++
					}
					txns += e.Transactions
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
					run[0].RunID[:8], run[0].Timestamp.Format("2006-01-02 15:04"), len(run), failed, txns)
			}
			return tw.Flush()
		},
	}
}
