package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"TickerCast/internal/config"
	"TickerCast/internal/recorder"
)

var (
	requestsLimit int

	requestsCmd = &cobra.Command{
		Use:   "requests",
		Short: "List recent journaled prediction requests",
		Args:  cobra.NoArgs,
		RunE:  runRequests,
	}
)

func init() {
	requestsCmd.Flags().IntVarP(&requestsLimit, "limit", "n", 20, "number of requests to show")
}

func runRequests(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is not configured, no journal to read")
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()

	reqs, err := rec.Recent(requestsLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTICKER\tSTATUS\tRATE\tPOINTS\tDURATION\tCHANNEL\tID")
	for _, r := range reqs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Ticker, r.Status, r.RateSource,
			r.Points, r.Duration, r.Channel, r.ID)
	}
	return w.Flush()
}
