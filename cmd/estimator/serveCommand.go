package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/adapters/btcdchain"
	"github.com/nyxchain/feeestimator/adapters/btcdmempool"
	"github.com/nyxchain/feeestimator/pkg/fees"
)

var serveOptions struct {
	pollInterval time.Duration
	horizons     []int64
}

// serveCommand keeps an Estimator fed from a live node and periodically
// logs the rate estimates for each configured horizon, the teacher's
// allCommand fan-out collapsed to one estimator instead of a menu of
// competing ones. It replays the sample window's recent-blocks suffix
// once at startup; wiring a live connect/disconnect notification bridge
// (ZeroMQ, a wallet rescan hook) is left to a real deployment, not this
// reference CLI.
var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Runs the estimator against a live node, logging periodic estimates",
	Long:  `Connects to a node, seeds the sample window from its recent blocks, and logs the fee rate estimate for each configured horizon on an interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()

		chainAdapter := btcdchain.New(client, logger)
		mempoolAdapter := btcdmempool.New(client, logger)

		estimator, err := fees.New(fees.Config{Logger: logger}, nil)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		snapshot, err := mempoolAdapter.Snapshot()
		if err != nil {
			return err
		}
		estimator.Setup(ctx, chainAdapter, snapshot)

		ticker := time.NewTicker(serveOptions.pollInterval)
		defer ticker.Stop()

		for {
			for _, horizon := range serveOptions.horizons {
				rate, err := estimator.EstimateRate(horizon)
				if err != nil {
					return err
				}

				logger.Info("estimated fee rate",
					zap.Int64("horizonSeconds", horizon),
					zap.Int64("satoshisPerByte", rate),
					zap.Int("sampleWindowSize", estimator.Size()),
				)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	},
}

func init() {
	serveOptions.horizons = []int64{60, 300, 1800}
	serveCommand.Flags().DurationVarP(&serveOptions.pollInterval, "interval", "i", time.Minute, "interval between logged estimates")
	RootCmd.AddCommand(serveCommand)
}
