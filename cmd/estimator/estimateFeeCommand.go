package cmd

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/adapters/btcdchain"
	"github.com/nyxchain/feeestimator/adapters/btcdmempool"
	"github.com/nyxchain/feeestimator/adapters/walletadapter"
	"github.com/nyxchain/feeestimator/pkg/blockchain"
	"github.com/nyxchain/feeestimator/pkg/coinselection"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/fees"
)

var estimateFeeOptions struct {
	horizonSeconds int64
	address        string
	recipient      string
	amount         int64
}

// estimateFeeCommand connects to a live node and an ElectrumX server,
// selects coins for the requested spend, and reports the converged
// absolute fee.
var estimateFeeCommand = &cobra.Command{
	Use:   "estimate-fee",
	Short: "Estimates the absolute fee for a pending spend",
	Long:  `Replays recent blocks into the sample window, selects coins for address's spend to recipient, and reports the converged fee.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		defer client.Close()

		chainAdapter := btcdchain.New(client, logger)
		mempoolAdapter := btcdmempool.New(client, logger)

		utxos, err := blockchain.NewElectrumxUTXOManager()
		if err != nil {
			return err
		}

		w := walletadapter.New(utxos, coinselection.MinIndexCoinSelector{MaxInputs: 10}, &chaincfg.MainNetParams)

		estimator, err := fees.New(fees.Config{Logger: logger}, w)
		if err != nil {
			return err
		}

		snapshot, err := mempoolAdapter.Snapshot()
		if err != nil {
			return err
		}
		estimator.Setup(context.Background(), chainAdapter, snapshot)

		account := common.Account{Name: estimateFeeOptions.address}
		outputs := []common.Output{
			{Recipient: estimateFeeOptions.recipient, Amount: btcutil.Amount(estimateFeeOptions.amount)},
		}

		fee, err := estimator.EstimateFee(context.Background(), estimateFeeOptions.horizonSeconds, account, outputs)
		if err != nil {
			return err
		}

		logger.Info("estimated fee",
			zap.Int64("horizonSeconds", estimateFeeOptions.horizonSeconds),
			zap.Int64("fee", fee),
		)
		return nil
	},
}

func init() {
	estimateFeeCommand.Flags().Int64VarP(&estimateFeeOptions.horizonSeconds, "horizon", "", 60, "target confirmation horizon, in seconds")
	estimateFeeCommand.Flags().StringVarP(&estimateFeeOptions.address, "address", "a", "", "wallet address to spend from")
	estimateFeeCommand.Flags().StringVarP(&estimateFeeOptions.recipient, "recipient", "r", "", "recipient address")
	estimateFeeCommand.Flags().Int64VarP(&estimateFeeOptions.amount, "amount", "", 0, "amount to send, in satoshis")
	RootCmd.AddCommand(estimateFeeCommand)
}
