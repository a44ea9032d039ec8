package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/akashjainn/propsage-sub000/internal/health"
	"github.com/akashjainn/propsage-sub000/internal/metrics"
	"github.com/akashjainn/propsage-sub000/internal/provider"
	"github.com/akashjainn/propsage-sub000/internal/scheduler"
	"github.com/akashjainn/propsage-sub000/internal/service"
)

var (
	watchInput  string
	watchOutput string
	watchCron   string
	watchAddr   string
)

func init() {
	watchCmd.Flags().StringVarP(&watchInput, "input", "i", "", "Market snapshot JSON file or http(s) URL, re-read on every run")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Write each batch report here instead of stdout")
	watchCmd.Flags().StringVar(&watchCron, "cron", "", "Override schedule.reprice_cron")
	watchCmd.Flags().StringVar(&watchAddr, "addr", "", "Override metrics.addr for the health and metrics server")
	_ = watchCmd.MarkFlagRequired("input")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-price a snapshot on a cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cronExpr := cfg.Schedule.RepriceCron
		if watchCron != "" {
			cronExpr = watchCron
		}

		src := provider.Open(watchInput, log)
		batch := service.NewBatchPricer(newPricingService(), cfg.Pricing.Workers, log)
		sched := scheduler.NewScheduler(batch, scheduler.Sources{Quotes: src, Features: src, Evidence: src}, log)
		sched.OnReport(func(report *service.BatchReport) {
			exportMetrics(cfg.Metrics.TextfilePath)
			if err := writeOutput(watchOutput, report); err != nil {
				log.WithError(err).Error("Failed to write batch report")
			}
		})
		if err := sched.ScheduleRepricing(cronExpr); err != nil {
			return err
		}

		addr := cfg.Metrics.Addr
		if watchAddr != "" {
			addr = watchAddr
		}
		var server *health.Server
		if addr != "" {
			serverCfg := health.Config{
				ServiceName: cfg.App.Name,
				Version:     Version,
				Commit:      GitCommit,
				Addr:        addr,
				Logger:      log,
				Checks:      map[string]health.Checker{"scheduler": sched},
			}
			if cfg.Metrics.Enabled {
				serverCfg.Metrics = metrics.Handler()
			}
			server = health.NewServer(serverCfg)
			if err := server.Start(ctx); err != nil {
				return err
			}
		}

		if _, err := sched.RunOnce(ctx, scheduler.TriggerManual); err != nil {
			log.WithError(err).Error("Initial pricing run failed")
		}
		if err := sched.Start(); err != nil {
			return err
		}
		if server != nil {
			server.SetReady(true)
		}
		log.WithFields(logrus.Fields{
			"cron":     cronExpr,
			"input":    watchInput,
			"next_run": sched.GetNextRun(),
		}).Info("Watching markets")

		<-ctx.Done()
		if server != nil {
			server.SetReady(false)
		}
		return sched.Stop("shutdown")
	},
}
