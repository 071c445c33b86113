package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/ledger"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute the balance chain from a date",
	Long: `Re-derive day P/L, balances and week P/L for every journal day on or
after the anchor date. Normally this happens automatically with each trade
mutation; the command exists for repairs and imports.

Example:
  tradebook recompute --from 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: runRecompute,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the balance chain invariants without writing",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var (
	recomputeFrom string
	verifyFrom    string
)

func init() {
	rootCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(verifyCmd)

	recomputeCmd.Flags().StringVar(&recomputeFrom, "from", "", "anchor date YYYY-MM-DD (required)")
	recomputeCmd.MarkFlagRequired("from")
	verifyCmd.Flags().StringVar(&verifyFrom, "from", "0001-01-01", "first date to check")
}

func runRecompute(cmd *cobra.Command, args []string) error {
	anchor, err := ledger.ParseDate(recomputeFrom)
	if err != nil {
		return fmt.Errorf("bad --from: %w", err)
	}

	lgr, store, err := openLedger()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := lgr.RecomputeFrom(cmd.Context(), anchor); err != nil {
		return fmt.Errorf("recompute: %w", err)
	}

	fmt.Printf("✓ Balances recomputed from %s\n", recomputeFrom)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	from, err := ledger.ParseDate(verifyFrom)
	if err != nil {
		return fmt.Errorf("bad --from: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	engine := ledger.NewEngine(log)
	if err := engine.Verify(cmd.Context(), store, from); err != nil {
		return err
	}

	fmt.Println("✓ Balance chain consistent")
	return nil
}
