package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/rebalancer/alpaca"
	"github.com/rustyeddy/rebalancer/broker"
	"github.com/rustyeddy/rebalancer/config"
	"github.com/rustyeddy/rebalancer/journal"
	"github.com/rustyeddy/rebalancer/paper"
	"github.com/rustyeddy/rebalancer/pkg/logger"
	"github.com/rustyeddy/rebalancer/rebalance"
	"github.com/rustyeddy/rebalancer/strategies"
	"github.com/rustyeddy/rebalancer/yahoo"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one portfolio rebalance pass",
	Long: `Run a single rebalance cycle: fetch history, compute target weights
with the configured strategy, size orders against the current account
and submit them to the broker.

Example:
  rebalancer run --symbols AAPL,MSFT,GOOG --broker paper --budget 10000`,
	RunE: runRun,
}

var (
	runConfigPath string
	runSymbols    []string
	runBroker     string
	runBudget     float64
	runWarmup     int
	runShortSMA   int
	runLongSMA    int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringSliceVarP(&runSymbols, "symbols", "s", nil, "ticker symbols to rebalance (required)")
	runCmd.Flags().StringVarP(&runBroker, "broker", "b", "", "broker to trade through: paper or alpaca")
	runCmd.Flags().Float64Var(&runBudget, "budget", 0, "starting cash for a fresh paper account (USD)")
	runCmd.Flags().IntVar(&runWarmup, "warmup", 0, "history bars fed to the strategy")
	runCmd.Flags().IntVar(&runShortSMA, "short-sma", 0, "short SMA window")
	runCmd.Flags().IntVar(&runLongSMA, "long-sma", 0, "long SMA window")
	runCmd.MarkFlagRequired("symbols")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if runBroker != "" {
		cfg.Broker = runBroker
	}
	if runWarmup > 0 {
		cfg.Strategy.Warmup = runWarmup
	}
	if runShortSMA > 0 {
		cfg.Strategy.ShortSMA = runShortSMA
	}
	if runLongSMA > 0 {
		cfg.Strategy.LongSMA = runLongSMA
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	brk, err := initBroker(cfg)
	if err != nil {
		return err
	}

	if eng, ok := brk.(*paper.Engine); ok && runBudget > 0 {
		if err := eng.SeedCash(runBudget); err != nil {
			return fmt.Errorf("seed cash: %w", err)
		}
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.Params{
		ShortWindow: cfg.Strategy.ShortSMA,
		LongWindow:  cfg.Strategy.LongSMA,
	})
	if err != nil {
		return err
	}

	jnl, err := initJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jnl.Close()

	runner := &rebalance.Runner{
		Broker:   brk,
		Data:     yahoo.NewClient(),
		Strategy: strat,
		Journal:  jnl,
		Log:      log,
	}

	summary, err := runner.Run(context.Background(), rebalance.Params{
		Symbols:        runSymbols,
		Warmup:         cfg.Strategy.Warmup,
		MinCashReserve: cfg.Rebalance.MinCashReserve,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nRebalance pass %s complete:\n", summary.RunID)
	fmt.Printf("  Orders placed: %d\n", summary.Placed)
	if summary.Failed > 0 {
		fmt.Printf("  Orders failed: %d\n", summary.Failed)
	}
	fmt.Printf("  Portfolio equity: $%.2f\n", summary.Equity)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return config.LoadFromFile(path)
}

func initBroker(cfg *config.Config) (broker.Broker, error) {
	switch cfg.Broker {
	case "paper":
		return paper.NewEngine(filepath.Join(cfg.StateDir, "paper_state.json"))
	case "alpaca":
		return alpaca.NewClient(cfg.Alpaca.BaseURL, cfg.Alpaca.KeyID, cfg.Alpaca.SecretKey), nil
	default:
		return nil, fmt.Errorf("unknown broker: %s", cfg.Broker)
	}
}

func initJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.OrdersFile, cfg.Journal.EquityFile)
	case "sqlite":
		if dir := filepath.Dir(cfg.Journal.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
