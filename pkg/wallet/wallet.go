// Package wallet defines the estimator's view of the wallet that will
// actually build and broadcast the transaction being estimated for. Key
// management, the account model and coin selection internals belong to
// whatever implements this interface, not to the estimator.
package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nyxchain/feeestimator/pkg/common"
)

// ErrInsufficientFunds is returned by CreateDraft when no combination of
// the account's coins can cover the requested outputs plus fee.
var ErrInsufficientFunds = errors.New("wallet: insufficient funds")

// Draft is the result of asking the wallet to build a candidate
// transaction. Only the serialized size matters to the fee solver; it
// purposefully doesn't return the draft transaction itself, keeping the
// wallet free to choose its own transaction representation.
type Draft struct {
	Size int64
}

// Wallet builds candidate transactions on request. Coin selection must be
// deterministic given (account, outputs, fee) under stable UTXO state,
// since the fee solver calls CreateDraft repeatedly while converging.
type Wallet interface {
	CreateDraft(ctx context.Context, account common.Account, outputs []common.Output, fee int64) (*Draft, error)
}
