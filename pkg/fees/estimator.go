// Package fees composes the sample window, rate estimator and fee solver
// behind a single façade, the way the teacher's pkg/fees.Estimator
// composed a fee-rater, a coin-selection strategy and a UTXO manager.
package fees

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/feesolver"
	"github.com/nyxchain/feeestimator/pkg/mempool"
	"github.com/nyxchain/feeestimator/pkg/rateestimator"
	"github.com/nyxchain/feeestimator/pkg/samplewindow"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

// Config holds the estimator's construction-time parameters. Zero values
// are replaced by the documented defaults.
type Config struct {
	// RecentBlocksNum is the sliding window's block capacity. Default 10.
	RecentBlocksNum int

	// TxSampleSize is the per-block admission cap. Default 3.
	TxSampleSize int

	// Percentiles overrides the {low, medium, high} percentiles. Default
	// {10, 20, 30}.
	Percentiles rateestimator.Percentiles

	// MaxSolverIterations bounds the fee solver's fixed-point loop.
	// Default 8.
	MaxSolverIterations int

	Logger *zap.Logger
}

const (
	DefaultRecentBlocksNum = 10
	DefaultTxSampleSize    = 3
)

// Estimator is the fee-rate estimator core: a sample window, a rate
// estimator reading it, and a fee solver driving a wallet collaborator
// against that rate estimator.
type Estimator struct {
	window *samplewindow.Window
	rates  *rateestimator.Estimator
	solver *feesolver.Solver
}

// New builds an Estimator. It fails construction if the configuration is
// invalid; everything after construction is infallible except the
// fallible queries EstimateRate and EstimateFee.
func New(cfg Config, w wallet.Wallet) (*Estimator, error) {
	recentBlocksNum := cfg.RecentBlocksNum
	if recentBlocksNum == 0 {
		recentBlocksNum = DefaultRecentBlocksNum
	}
	txSampleSize := cfg.TxSampleSize
	if txSampleSize == 0 {
		txSampleSize = DefaultTxSampleSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	window, err := samplewindow.NewWindow(recentBlocksNum, txSampleSize, logger)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	rates := rateestimator.New(window, cfg.Percentiles)
	solver := feesolver.New(rates, w, cfg.MaxSolverIterations, logger)

	return &Estimator{window: window, rates: rates, solver: solver}, nil
}

// Setup rebuilds the sample window from the recent chain suffix. It is
// the only other suspension point besides EstimateFee.
func (e *Estimator) Setup(ctx context.Context, c chain.Chain, mp mempool.Mempool) {
	e.window.Setup(ctx, c, mp)
}

// OnConnect notifies the estimator of a newly attached block.
func (e *Estimator) OnConnect(block chain.Block, mp mempool.Mempool) {
	e.window.OnConnect(block, mp)
}

// OnDisconnect notifies the estimator of a detaching block.
func (e *Estimator) OnDisconnect(block chain.Block) {
	e.window.OnDisconnect(block)
}

// Size returns the current number of samples held by the window.
func (e *Estimator) Size() int {
	return e.window.Size()
}

// EstimateRate returns the fee rate estimate for a target confirmation
// horizon, in seconds. horizonSeconds must not be negative.
func (e *Estimator) EstimateRate(horizonSeconds int64) (int64, error) {
	rate, err := e.rates.EstimateRate(horizonSeconds)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	return rate, nil
}

// EstimateFee returns the absolute fee a transaction paying outputs from
// account should attach to be included within horizonSeconds.
func (e *Estimator) EstimateFee(ctx context.Context, horizonSeconds int64, account common.Account, outputs []common.Output) (int64, error) {
	fee, err := e.solver.EstimateFee(ctx, horizonSeconds, account, outputs)
	if errors.Is(err, feesolver.ErrInvalidArgument) {
		return 0, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	return fee, err
}
