package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nyxchain/feeestimator/pkg/utils"
)

var logger *zap.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "estimator",
	Short: "feeestimator",
	Long:  `UTXO-chain fee-rate estimator.`,
}

// Execute adds all child commands to the root command and parses flags.
// This is called by main.main(). It only needs to happen once to RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("estimator: %v", err)
		os.Exit(-1)
	}
}

var options struct {
	btcRPCURL      string
	btcRPCUser     string
	btcRPCPassword string
}

func init() {
	logger, _ = zap.NewDevelopment(zap.AddStacktrace(zapcore.FatalLevel))

	RootCmd.PersistentFlags().StringVarP(&options.btcRPCURL, "url", "", "127.0.0.1:8332", "node rpc url")
	RootCmd.PersistentFlags().StringVarP(&options.btcRPCUser, "user", "u", "", "node rpc username")
	RootCmd.PersistentFlags().StringVarP(&options.btcRPCPassword, "password", "p", "", "node rpc password")
}

// newClient connects a CachedRPCClient using the root command's persistent
// flags. Subcommands that talk to a live node call this lazily instead of
// paying for a connection that e.g. simulate never needs.
func newClient() *utils.CachedRPCClient {
	return utils.NewCachedRPCClient(options.btcRPCURL, options.btcRPCUser, options.btcRPCPassword, logger)
}
