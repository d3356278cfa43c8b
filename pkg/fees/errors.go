package fees

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/nyxchain/feeestimator/pkg/wallet"
)

// ErrInvalidArgument is returned by New when the supplied configuration
// is invalid, and by EstimateFee when outputs is empty.
var ErrInvalidArgument = pkgerrors.New("fees: invalid argument")

// ErrInsufficientFunds is re-exported from pkg/wallet so callers don't
// need to import it directly to compare against EstimateFee's error.
var ErrInsufficientFunds = wallet.ErrInsufficientFunds

// ErrNotConverged is reserved: EstimateFee never returns it and nothing
// logs it. When the fee solver exhausts its iteration budget without
// reaching a fixed point it logs that fact and returns the last iterate
// rather than an error, since the overshoot is small and user-safe.
var ErrNotConverged = pkgerrors.New("fees: fee solver did not converge")
