// Package feesolver computes the absolute fee a pending spend should pay
// by iterating the wallet's coin selection against the rate estimator
// until the fee is self-consistent with the resulting transaction size.
package feesolver

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/rateestimator"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

// ErrInvalidArgument is returned when outputs is empty.
var ErrInvalidArgument = errors.New("feesolver: invalid argument")

// DefaultMaxIterations bounds the fixed-point loop so a pathological
// wallet implementation can't make EstimateFee loop forever.
const DefaultMaxIterations = 8

// Solver ties a rate estimator to a wallet collaborator.
type Solver struct {
	rates         *rateestimator.Estimator
	wallet        wallet.Wallet
	maxIterations int
	logger        *zap.Logger
}

// New builds a Solver. maxIterations <= 0 is replaced with
// DefaultMaxIterations.
func New(rates *rateestimator.Estimator, w wallet.Wallet, maxIterations int, logger *zap.Logger) *Solver {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Solver{rates: rates, wallet: w, maxIterations: maxIterations, logger: logger}
}

// EstimateFee returns the absolute fee a transaction paying outputs from
// account should attach to be included within horizonSeconds.
func (s *Solver) EstimateFee(ctx context.Context, horizonSeconds int64, account common.Account, outputs []common.Output) (int64, error) {
	if len(outputs) == 0 {
		return 0, errors.Wrap(ErrInvalidArgument, "outputs must not be empty")
	}

	rate, err := s.rates.EstimateRate(horizonSeconds)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidArgument, err.Error())
	}

	var fee int64
	for i := 0; i < s.maxIterations; i++ {
		draft, err := s.wallet.CreateDraft(ctx, account, outputs, fee)
		if err != nil {
			return 0, errors.Wrap(err, "feesolver: could not build draft transaction")
		}

		newFee := rate * draft.Size
		if newFee == fee {
			return fee, nil
		}

		fee = newFee
	}

	s.logger.Info("feesolver: did not converge within iteration budget",
		zap.Int("maxIterations", s.maxIterations),
		zap.Int64("fee", fee),
	)
	return fee, nil
}
