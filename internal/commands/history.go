package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"finsheet/internal/cli"
	"finsheet/internal/core"
	"finsheet/internal/log"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled import runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.cfg.SQLiteDBPath == "" {
				return fmt.Errorf("history needs SQLITE_DB_PATH to be set")
			}

			j, err := cli.OpenJournal(a.logger, a.cfg)
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			a.logger.WithFields(log.NewFields().WithOperation(log.OpHistory)).
				Debug("Listed import runs", "limit", limit, "runs", len(runs))
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func printRuns(w io.Writer, runs []core.ImportRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No import runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tSTATUS\tPERIOD\tBANK\tROWS\tMASTER ROW\tERROR")
	for _, r := range runs {
		period := "-"
		if r.Period.Year != 0 {
			period = r.Period.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.ID,
			r.Status,
			period,
			r.Bank,
			r.Rows,
			r.SummaryRow,
			r.Error,
		)
	}
	return tw.Flush()
}
