package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "tickercast",
		Short: "Short-horizon stock forecasts with currency conversion",
		Long: `TickerCast fetches a year of daily prices for a ticker, extrapolates
the next seven business days from its moving averages and reports the
latest figures in two currencies.`,
		SilenceUsage: true,
	}
)

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the YAML config file (env CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd, predictCmd, requestsCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
