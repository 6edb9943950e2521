package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/ledger"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
)

func newExportCommand(root *rootOptions) *cobra.Command {
	var outPath, from, to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored transactions as CSV",
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

			db, err := ws.openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			txs, err := db.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if outPath == "-" {
				if err := ledger.WriteTransactions(cmd.OutOrStdout(), txs); err != nil {
					return fmt.Errorf("exporting: %w", err)
				}
				return nil
			}

			if err := exportFile(outPath, txs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d transactions to %s\n", len(txs), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output CSV file, - for stdout")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "first day to exclude (YYYY-MM-DD)")

	return cmd
}

// exportFile writes txs to path. The close error is returned since it may
// carry a failed write.
func exportFile(path string, txs []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := ledger.WriteTransactions(f, txs); err != nil {
		_ = f.Close()
		return fmt.Errorf("exporting: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}
