package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/rebalancer/paper"
	"github.com/rustyeddy/rebalancer/yahoo"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the paper account's cash, positions and equity",
	RunE:  runStatus,
}

var statusConfigPath string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(statusConfigPath)
	if err != nil {
		return err
	}

	eng, err := paper.NewEngine(filepath.Join(cfg.StateDir, "paper_state.json"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	cash, _ := eng.GetCash(ctx)
	positions, _ := eng.GetPositions(ctx)

	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	prices := map[string]float64{}
	if len(symbols) > 0 {
		prices, err = yahoo.NewClient().GetLastPrices(ctx, symbols)
		if err != nil {
			return fmt.Errorf("get last prices: %w", err)
		}
	}

	fmt.Printf("Paper account (%s)\n", cfg.StateDir)
	fmt.Printf("  Cash: $%.2f\n", cash)
	if len(symbols) == 0 {
		fmt.Println("  Positions: none")
	} else {
		fmt.Println("  Positions:")
		for _, symbol := range symbols {
			pos := positions[symbol]
			line := fmt.Sprintf("    %-6s %6d @ avg $%.2f", symbol, pos.Quantity, pos.AveragePrice)
			if price, ok := prices[symbol]; ok {
				line += fmt.Sprintf("  (last $%.2f, value $%.2f)", price, pos.MarketValue(price))
			}
			fmt.Println(line)
		}
	}
	fmt.Printf("  Equity: $%.2f\n", eng.TotalEquity(prices))
	return nil
}
