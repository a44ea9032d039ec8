package main

import (
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/akashjainn/propsage-sub000/internal/pricing"
)

var (
	devigOver   int
	devigUnder  int
	devigMethod string
)

func init() {
	devigCmd.Flags().IntVar(&devigOver, "over", 0, "American odds on the over")
	devigCmd.Flags().IntVar(&devigUnder, "under", 0, "American odds on the under")
	devigCmd.Flags().StringVar(&devigMethod, "method", "", "multiplicative or shin (default from config)")
	_ = devigCmd.MarkFlagRequired("over")
	_ = devigCmd.MarkFlagRequired("under")
}

type devigOutput struct {
	pricing.DevigResult
	FairOver         int             `json:"fair_over"`
	FairUnder        int             `json:"fair_under"`
	OverDecimalOdds  decimal.Decimal `json:"over_decimal_odds"`
	UnderDecimalOdds decimal.Decimal `json:"under_decimal_odds"`
}

var devigCmd = &cobra.Command{
	Use:   "devig",
	Short: "Remove the vig from a two-way quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		method := pricing.Method(cfg.Pricing.DevigMethod)
		if devigMethod != "" {
			parsed, err := pricing.ParseMethod(devigMethod)
			if err != nil {
				return err
			}
			method = parsed
		}

		result, err := pricing.DevigWithFallback(devigOver, devigUnder, method)
		if err != nil {
			return err
		}
		if result.FellBack {
			log.WithField("method", method).Warn("Shin devig did not converge, used multiplicative")
		}

		out := devigOutput{DevigResult: result}
		if out.FairOver, err = pricing.ProbabilityToAmerican(result.POver); err != nil {
			return err
		}
		if out.FairUnder, err = pricing.ProbabilityToAmerican(result.PUnder); err != nil {
			return err
		}
		if out.OverDecimalOdds, err = pricing.AmericanToDecimalOdds(devigOver); err != nil {
			return err
		}
		if out.UnderDecimalOdds, err = pricing.AmericanToDecimalOdds(devigUnder); err != nil {
			return err
		}
		return writeJSON(os.Stdout, out)
	},
}
