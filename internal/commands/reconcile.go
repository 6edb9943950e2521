package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/reconcile"
)

func newReconcileCommand(root *rootOptions) *cobra.Command {
	var from, to string
	var failOnAnomaly bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check running balances of stored transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := root.loadWorkspace(cmd)
			if err != nil {
				return err
			}

			filter, err := dateRange(from, to)
			if err != nil {
				return err
			}
			tol, err := ws.cfg.Tolerance()
			if err != nil {
				return err
			}

			db, err := ws.openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			txs, err := db.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			anomalies := reconcile.Reconcile(txs, tol)
			sum := reconcile.Summarize(txs, len(txs))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reconciled %d transactions (debit %s, credit %s): %d anomalies\n",
				sum.TransactionCount, sum.DebitTotal.StringFixed(2), sum.CreditTotal.StringFixed(2), len(anomalies))
			printAnomalies(out, anomalies)

			ws.log.Debug().Int("transactions", len(txs)).Int("anomalies", len(anomalies)).Msg("reconcile finished")
			if failOnAnomaly && len(anomalies) > 0 {
				return fmt.Errorf("%d balance anomalies", len(anomalies))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "first day to exclude (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&failOnAnomaly, "fail-on-anomaly", false, "exit non-zero when any anomaly is found")

	return cmd
}

func printAnomalies(w io.Writer, anomalies []model.Anomaly) {
	for _, a := range anomalies {
		fmt.Fprintf(w, "  anomaly #%d %s %q: balance %s, expected %s (previous %s, diff %s)\n",
			a.Index, a.Transaction.TimestampISO, a.Transaction.Description,
			a.Balance.StringFixed(2), a.Expected.StringFixed(2),
			a.PreviousBalance.StringFixed(2), a.Difference.StringFixed(2))
	}
}
