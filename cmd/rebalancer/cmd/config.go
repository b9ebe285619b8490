package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/rebalancer/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration, or write it to a file",
	RunE:  runConfig,
}

var configOutputPath string

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOutputPath, "output", "o", "", "write the default config to this path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if configOutputPath != "" {
		if err := cfg.SaveToFile(configOutputPath); err != nil {
			return err
		}
		fmt.Printf("Default config written to %s\n", configOutputPath)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
