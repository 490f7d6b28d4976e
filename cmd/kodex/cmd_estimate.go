package main

import (
	"github.com/spf13/cobra"

	"kodex/internal/assess"
	"kodex/pkg/schema"
)

var estimateFlags struct {
	bucket   string
	turnover float64
	currency string
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate penalty exposure for a risk bucket",
	Long: `Estimates the penalty range for a bucket from annual turnover and the
configured tier parameters. Turnover and currency default to the settings file.`,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.StringVar(&estimateFlags.bucket, "bucket", "", `Risk bucket, e.g. "High-risk" (required)`)
	f.Float64Var(&estimateFlags.turnover, "turnover", 0, "Annual turnover")
	f.StringVar(&estimateFlags.currency, "currency", "", "ISO currency code")

	_ = estimateCmd.MarkFlagRequired("bucket")
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	svc, _, _, err := newService("cli")
	if err != nil {
		return err
	}

	est, err := svc.Estimate(assess.EstimateRequest{
		Bucket:   schema.Bucket(estimateFlags.bucket),
		Turnover: floatFlag(cmd, "turnover", estimateFlags.turnover),
		Currency: estimateFlags.currency,
	})
	if err != nil {
		return err
	}
	return render(cmd, est)
}
