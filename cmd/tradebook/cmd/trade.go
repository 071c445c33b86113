package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/ledger"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Add, edit, delete and inspect journal trades",
	Long: `Manage trades in the journal.

Every mutation recomputes the balance chain from the trade's date inside the
same transaction, so balances are never left stale relative to the trades.

Subcommands:
  add     - Record a new trade
  edit    - Rewrite an existing trade
  delete  - Remove a trade
  show    - Print a trade and its realized P/L
  export  - Write trades to CSV

Examples:
  tradebook trade add --symbol EURUSD --size 1000 --entry 1.0850 --exit 1.0900 --date 2024-03-01
  tradebook trade edit 01HTZ... --symbol EURUSD --size 1000 --entry 1.0850 --exit 1.0800 --date 2024-03-05
  tradebook trade delete 01HTZ...`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Rewrite an existing trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeEdit,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Remove a trade and rebalance",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Print a trade and its realized P/L",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write trades to CSV on stdout",
	Args:  cobra.NoArgs,
	RunE:  runTradeExport,
}

var tradeDraft ledger.TradeDraft

var (
	exportFrom string
	exportTo   string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeEditCmd)
	tradeCmd.AddCommand(tradeDeleteCmd)
	tradeCmd.AddCommand(tradeShowCmd)
	tradeCmd.AddCommand(tradeExportCmd)

	for _, c := range []*cobra.Command{tradeAddCmd, tradeEditCmd} {
		c.Flags().StringVar(&tradeDraft.Symbol, "symbol", "", "instrument symbol (required)")
		c.Flags().StringVar(&tradeDraft.PositionSize, "size", "", "position size (required)")
		c.Flags().StringVar(&tradeDraft.EntryPrice, "entry", "", "entry price (required)")
		c.Flags().StringVar(&tradeDraft.ExitPrice, "exit", "", "exit price (required)")
		c.Flags().StringVar(&tradeDraft.StopLoss, "stop", "", "stop loss price")
		c.Flags().StringVar(&tradeDraft.TakeProfit, "target", "", "take profit price")
		c.Flags().StringVar(&tradeDraft.Date, "date", "", "trade date YYYY-MM-DD (default today)")
	}

	tradeExportCmd.Flags().StringVar(&exportFrom, "from", "0001-01-01", "first trade date to export")
	tradeExportCmd.Flags().StringVar(&exportTo, "to", "9999-12-31", "last trade date to export")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	if tradeDraft.Date == "" {
		tradeDraft.Date = time.Now().In(cfg.Location()).Format(ledger.DateFormat)
	}

	lgr, store, err := openLedger()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	t, err := lgr.AddTrade(cmd.Context(), tradeDraft)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Trade %s added: %s %s on %s (P/L %s)\n",
		t.ID, t.Symbol, t.PositionSize, t.Date.Format(ledger.DateFormat), ledger.Profit(t))
	return nil
}

func runTradeEdit(cmd *cobra.Command, args []string) error {
	if tradeDraft.Date == "" {
		return fmt.Errorf("--date is required for edit")
	}

	lgr, store, err := openLedger()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	t, err := lgr.UpdateTrade(cmd.Context(), args[0], tradeDraft)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Trade %s updated (P/L %s)\n", t.ID, ledger.Profit(t))
	return nil
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	lgr, store, err := openLedger()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if err := lgr.DeleteTrade(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Trade %s deleted\n", args[0])
	return nil
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	t, err := store.TradeByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Trade    %s\n", t.ID)
	fmt.Printf("Symbol   %s\n", t.Symbol)
	fmt.Printf("Size     %s\n", t.PositionSize)
	fmt.Printf("Entry    %s\n", t.EntryPrice)
	fmt.Printf("Exit     %s\n", t.ExitPrice)
	if t.StopLoss != nil {
		fmt.Printf("Stop     %s\n", t.StopLoss)
	}
	if t.TakeProfit != nil {
		fmt.Printf("Target   %s\n", t.TakeProfit)
	}
	fmt.Printf("Date     %s\n", t.Date.Format(ledger.DateFormat))
	fmt.Printf("P/L      %s\n", ledger.Profit(*t))
	return nil
}

func runTradeExport(cmd *cobra.Command, args []string) error {
	from, err := ledger.ParseDate(exportFrom)
	if err != nil {
		return fmt.Errorf("bad --from: %w", err)
	}
	to, err := ledger.ParseDate(exportTo)
	if err != nil {
		return fmt.Errorf("bad --to: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	trades, err := store.TradesBetween(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	return journal.WriteTradesCSV(os.Stdout, trades)
}
