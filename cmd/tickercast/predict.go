package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"TickerCast/internal/collector"
	"TickerCast/internal/model"
)

var (
	predictTimeout time.Duration

	predictCmd = &cobra.Command{
		Use:   "predict <TICKER>",
		Short: "Run the pipeline once and print the snapshot and forecast as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runPredict,
	}
)

func init() {
	predictCmd.Flags().DurationVar(&predictTimeout, "timeout", time.Minute, "overall deadline for the feed calls")
}

type forecastJSON struct {
	Date           string  `json:"date"`
	PredictedClose float64 `json:"predicted_close"`
}

type predictOutput struct {
	RequestID  string                    `json:"request_id"`
	Ticker     string                    `json:"ticker"`
	RateSource model.RateSource          `json:"rate_source"`
	Data       *model.StatisticsSnapshot `json:"data"`
	Forecast   []forecastJSON            `json:"forecast"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec := newRecorder(cfg)
	defer rec.Close()
	col := newCollector(cfg, rec)

	ctx, cancel := context.WithTimeout(cmd.Context(), predictTimeout)
	defer cancel()

	pred, err := col.Predict(collector.WithChannel(ctx, collector.ChannelCLI), args[0])
	if err != nil {
		return errors.New(collector.UserMessage(err))
	}

	out := predictOutput{
		RequestID:  pred.RequestID,
		Ticker:     pred.Ticker,
		RateSource: pred.Rate.Source,
		Data:       pred.Snapshot,
	}
	for _, f := range pred.Forecast {
		out.Forecast = append(out.Forecast, forecastJSON{Date: f.Date.Format("2006-01-02"), PredictedClose: f.PredictedClose})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
