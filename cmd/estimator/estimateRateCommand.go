package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/adapters/btcdchain"
	"github.com/nyxchain/feeestimator/adapters/btcdmempool"
	"github.com/nyxchain/feeestimator/pkg/fees"
)

var estimateRateOptions struct {
	horizonSeconds int64
}

// estimateRateCommand connects to a live node, replays its recent blocks
// into the sample window, and reports the estimated fee rate for a
// confirmation horizon.
var estimateRateCommand = &cobra.Command{
	Use:   "estimate-rate",
	Short: "Estimates the fee rate for a confirmation horizon",
	Long:  `Replays recent blocks from a node into the sample window and reports the fee rate estimate for the given horizon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()

		chainAdapter := btcdchain.New(client, logger)
		mempoolAdapter := btcdmempool.New(client, logger)

		estimator, err := fees.New(fees.Config{Logger: logger}, nil)
		if err != nil {
			return err
		}

		snapshot, err := mempoolAdapter.Snapshot()
		if err != nil {
			return err
		}

		estimator.Setup(context.Background(), chainAdapter, snapshot)

		rate, err := estimator.EstimateRate(estimateRateOptions.horizonSeconds)
		if err != nil {
			return err
		}
		logger.Info("estimated fee rate",
			zap.Int64("horizonSeconds", estimateRateOptions.horizonSeconds),
			zap.Int64("satoshisPerByte", rate),
			zap.Int("sampleWindowSize", estimator.Size()),
		)
		return nil
	},
}

func init() {
	estimateRateCommand.Flags().Int64VarP(&estimateRateOptions.horizonSeconds, "horizon", "", 60, "target confirmation horizon, in seconds")
	RootCmd.AddCommand(estimateRateCommand)
}
