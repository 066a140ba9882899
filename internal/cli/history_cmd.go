package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/soyeahso/basicagent/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded questions and answers",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func openHistory() (*store.DB, *store.ExchangeLog, error) {
	db, err := store.Open(paths.HistoryPath(cfg.History), log)
	if err != nil {
		return nil, nil, err
	}
	return db, store.NewExchangeLog(db), nil
}

func newHistoryListCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent questions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, xlog, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			exchanges, err := xlog.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(exchanges)
			}

			if len(exchanges) == 0 {
				fmt.Fprintln(out, "No history.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tMODEL\tQUESTION")
			for _, ex := range exchanges {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					ex.ID[:min(8, len(ex.ID))],
					ex.CreatedAt.Local().Format("2006-01-02 15:04"),
					ex.Model,
					truncate(oneLine(ex.Question), 60),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded question and its answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, xlog, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			ex, err := xlog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", ex.ID)
			fmt.Fprintf(out, "Agent:    %s\n", ex.Agent)
			fmt.Fprintf(out, "Model:    %s\n", ex.Model)
			fmt.Fprintf(out, "When:     %s\n", ex.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Tokens:   %d+%d\n", ex.InputTokens, ex.OutputTokens)
			fmt.Fprintf(out, "Duration: %dms\n", ex.DurationMS)
			fmt.Fprintf(out, "\nQ: %s\n\nA: %s\n", ex.Question, ex.Answer)
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, xlog, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := xlog.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		},
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
