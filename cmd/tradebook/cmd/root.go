package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradebook/config"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/ledger"
	"github.com/rustyeddy/tradebook/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "A personal trading journal with a running balance calendar",
	Long: `Tradebook keeps a journal of closed trades and maintains the derived
balance chain: every day's entry balance equals the previous day's closing
balance, day P/L is the sum of that day's trades, and week P/L is the sum of
its days. The calendar view renders a month as a 6x7 grid with day and week
totals.

Examples:
  tradebook trade add --symbol EURUSD --size 1000 --entry 1.0850 --exit 1.0900 --date 2024-03-01
  tradebook calendar --year 2024 --month 3
  tradebook recompute --from 2024-03-01`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional, same as the original deployment
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		log = logger.New()
		return nil
	},
}

var (
	cfgFile string
	cfg     *config.Config
	log     *zap.SugaredLogger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml or json)")
}

// openStore opens the configured journal database. Callers own Close.
func openStore() (*journal.SQLite, error) {
	return journal.Open(cfg.Journal.DBPath)
}

// openLedger wires the store, engine and mutation service together.
func openLedger() (*ledger.Ledger, *journal.SQLite, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	engine := ledger.NewEngine(log)
	return ledger.New(store, engine, cfg.StartingBalance(), log), store, nil
}
