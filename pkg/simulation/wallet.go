package simulation

import (
	"context"
	"sync"

	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"

	"github.com/nyxchain/feeestimator/pkg/coinselection"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

// Wallet implements wallet.Wallet over an InMemoryUTXOManager, sizing
// drafts with the P2PKH byte-count formula from pkg/coinselection instead
// of building a real wire.MsgTx (the simulation has no real addresses to
// script against). It remembers the coin set it last selected so the
// simulation can finalize a send once the solver has converged on a fee.
type Wallet struct {
	utxos    *InMemoryUTXOManager
	selector coinselection.Strategy

	mu      sync.Mutex
	lastSet *coinselection.ResultSet
}

// NewWallet builds a Wallet drawing coins from utxos via selector.
func NewWallet(utxos *InMemoryUTXOManager, selector coinselection.Strategy) *Wallet {
	return &Wallet{utxos: utxos, selector: selector}
}

// CreateDraft implements wallet.Wallet.
func (w *Wallet) CreateDraft(ctx context.Context, account common.Account, outputs []common.Output, fee int64) (*wallet.Draft, error) {
	utxos, err := w.utxos.GetUTXOs(account)
	if err != nil {
		return nil, err
	}

	target := common.TotalOutputValue(outputs) + btcutil.Amount(fee)
	set, err := w.selector.SelectCoins(utxos, target, 0)
	if err != nil {
		if errors.Is(err, coinselection.ErrCoinsNoSelectionAvailable) {
			return nil, wallet.ErrInsufficientFunds
		}
		return nil, err
	}

	w.mu.Lock()
	w.lastSet = set
	w.mu.Unlock()

	size := coinselection.BytesTransactionOverhead +
		len(set.Coins)*coinselection.BytesPerInput +
		2*coinselection.BytesPerOutput
	return &wallet.Draft{Size: int64(size)}, nil
}

// LastSelection returns the coin set chosen by the most recent CreateDraft
// call, or nil if none has run yet.
func (w *Wallet) LastSelection() *coinselection.ResultSet {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSet
}
