package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nyxchain/feeestimator/pkg/coinselection"
	"github.com/nyxchain/feeestimator/pkg/fees"
	"github.com/nyxchain/feeestimator/pkg/simulation"
)

// simulateCommand runs the estimator against a synthetic block and wallet
// stream, without a live node.
var simulateCommand = &cobra.Command{
	Use:   "simulate",
	Short: "Runs fee estimation against a synthetic block and wallet stream",
	Long:  `Runs fee estimation against a synthetic block and wallet stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := simulation.DefaultConfig()

		utxos := simulation.NewInMemoryUTXOManager()
		wallet := simulation.NewWallet(utxos, coinselection.RandomCoinSelector{MaxInputs: 10})

		estimator, err := fees.New(fees.Config{
			TxSampleSize: cfg.TxSampleSize,
			Logger:       logger,
		}, wallet)
		if err != nil {
			return err
		}

		sim := simulation.New(cfg, estimator, utxos, wallet, logger)
		return sim.Run(context.Background())
	},
}

func init() {
	RootCmd.AddCommand(simulateCommand)
}
