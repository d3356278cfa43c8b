package coinselection

import (
	"errors"

	"github.com/btcsuite/btcutil"

	"github.com/nyxchain/feeestimator/pkg/common"
)

type ByAmount []*common.UTXO

func (a ByAmount) Len() int           { return len(a) }
func (a ByAmount) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ByAmount) Less(i, j int) bool { return a[i].Value < a[j].Value }

// ResultSet represents a coin selection result
type ResultSet struct {
	Coins  []*common.UTXO
	Fee    btcutil.Amount
	Change btcutil.Amount
}

var (
	// ErrInsufficientFunds signals that there are not enough coins. The
	// selectors in this package report ErrCoinsNoSelectionAvailable instead.
	ErrInsufficientFunds = errors.New("not enough coins")

	// ErrCoinsNoSelectionAvailable is returned when a CoinSelector believes there is no
	// possible combination of coins which can meet the requirements provided to the selector.
	ErrCoinsNoSelectionAvailable = errors.New("no coin selection possible")
)

// Strategy interface for coin selection. target is the total amount the
// resulting set of coins must cover, feeRate is the satoshi-per-byte rate
// the caller intends to pay (used by strategies that size-aware select).
type Strategy interface {
	SelectCoins(utxos []*common.UTXO, target btcutil.Amount, feeRate int64) (*ResultSet, error)
}

// SatisfiesTargetValue checks that the totalValue is either exactly the targetValue
// or is greater than the targetValue by at least the minChange amount.
func SatisfiesTargetValue(targetValue btcutil.Amount, minChange btcutil.Amount, utxos []*common.UTXO) bool {
	totalValue := btcutil.Amount(0)
	for _, utxo := range utxos {
		totalValue += utxo.Value
	}

	return totalValue == targetValue || totalValue >= targetValue+minChange
}

// Assuming Pay-to-Public-Key-Hash
const (
	BytesTransactionOverhead = 10
	BytesPerOutput           = 34
	BytesPerInput            = 148
)

// MinimalFeeWithChange returns the minimal fee for a utxo set assuming P2PKH as well as a change output
func MinimalFeeWithChange(utxos []*common.UTXO, feeRatePerByte int64) btcutil.Amount {
	txSize := BytesTransactionOverhead + len(utxos)*BytesPerInput + 2*BytesPerOutput
	return btcutil.Amount(int64(txSize) * feeRatePerByte)
}
