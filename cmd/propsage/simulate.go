package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashjainn/propsage-sub000/internal/models"
	"github.com/akashjainn/propsage-sub000/internal/montecarlo"
)

var (
	simLine        float64
	simMu          float64
	simSigma       float64
	simSimulations int
	simSeed        int64
	simWorkers     int
	simEvidence    string
)

func init() {
	simulateCmd.Flags().Float64Var(&simLine, "line", 0, "Market line")
	simulateCmd.Flags().Float64Var(&simMu, "mu", 0, "Prior mean")
	simulateCmd.Flags().Float64Var(&simSigma, "sigma", 0, "Prior standard deviation")
	simulateCmd.Flags().IntVar(&simSimulations, "simulations", 0, "Number of draws (default from config)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "RNG seed (default from config)")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Parallel partitions (default from config)")
	simulateCmd.Flags().StringVar(&simEvidence, "evidence", "", "JSON file with a list of news evidence")
	_ = simulateCmd.MarkFlagRequired("line")
	_ = simulateCmd.MarkFlagRequired("mu")
	_ = simulateCmd.MarkFlagRequired("sigma")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte Carlo evidence path for one prior",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.PricingOptions().MonteCarlo
		if simSimulations > 0 {
			opts.Simulations = simSimulations
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed = simSeed
		}
		if simWorkers > 0 {
			opts.Workers = simWorkers
		}

		evidence, err := loadEvidence(simEvidence)
		if err != nil {
			return err
		}

		prior := models.PlayerPrior{Mu: simMu, Sigma: simSigma}
		result, err := montecarlo.MonteCarloFairValue(cmd.Context(), simLine, prior, evidence, opts)
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, result)
	},
}

func loadEvidence(path string) ([]models.NewsEvidence, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read evidence file: %w", err)
	}
	var evidence []models.NewsEvidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		return nil, fmt.Errorf("failed to decode evidence file: %w", err)
	}
	return evidence, nil
}
