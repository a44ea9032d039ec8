package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akashjainn/propsage-sub000/internal/provider"
	"github.com/akashjainn/propsage-sub000/internal/scheduler"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

var (
	priceInput    string
	priceOutput   string
	priceTextfile string
)

func init() {
	priceCmd.Flags().StringVarP(&priceInput, "input", "i", "", "Market snapshot JSON file or http(s) URL")
	priceCmd.Flags().StringVarP(&priceOutput, "output", "o", "", "Write the batch report here instead of stdout")
	priceCmd.Flags().StringVar(&priceTextfile, "textfile", "", "Override metrics.textfile_path")
	_ = priceCmd.MarkFlagRequired("input")
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price every market in a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := provider.Open(priceInput, log)
		batch := service.NewBatchPricer(newPricingService(), cfg.Pricing.Workers, log)
		sched := scheduler.NewScheduler(batch, scheduler.Sources{Quotes: src, Features: src, Evidence: src}, log)

		report, err := sched.RunOnce(cmd.Context(), scheduler.TriggerManual)
		if err != nil {
			return err
		}

		textfile := cfg.Metrics.TextfilePath
		if priceTextfile != "" {
			textfile = priceTextfile
		}
		exportMetrics(textfile)

		if err := writeOutput(priceOutput, report); err != nil {
			return err
		}
		if report.Succeeded == 0 && report.Failed > 0 {
			return fmt.Errorf("all %d markets failed to price", report.Failed)
		}
		return nil
	},
}
