package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rebalancer",
	Short: "A single-cycle portfolio rebalancing tool",
	Long: `Rebalancer moves a stock portfolio toward the target weights of a
trend-following strategy, one cycle at a time.

It provides tools for:
  - Computing target weights from SMA trend filters
  - Sizing the minimal buy/sell orders to reach those weights
  - Simulated execution against a persisted paper account
  - Live execution through the Alpaca API
  - Journaling orders and equity to SQLite or CSV`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
