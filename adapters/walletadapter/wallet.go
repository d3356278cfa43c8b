// Package walletadapter implements wallet.Wallet by running real coin
// selection against a real UTXO source and sizing an actual wire.MsgTx,
// so the fee solver's fixed-point loop has a genuine collaborator to
// converge against. Grounded on the teacher's pkg/fees.Estimator wired to
// pkg/coinselection and pkg/blockchain.
package walletadapter

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"

	"github.com/nyxchain/feeestimator/pkg/blockchain"
	"github.com/nyxchain/feeestimator/pkg/coinselection"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

// Wallet builds draft transactions by selecting coins for
// account.Name's address and sizing the resulting P2PKH transaction.
type Wallet struct {
	utxos    blockchain.UTXOManager
	selector coinselection.Strategy
	params   *chaincfg.Params
}

// New builds a Wallet. A nil params defaults to the main network.
func New(utxos blockchain.UTXOManager, selector coinselection.Strategy, params *chaincfg.Params) *Wallet {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &Wallet{utxos: utxos, selector: selector, params: params}
}

// CreateDraft implements wallet.Wallet.
func (w *Wallet) CreateDraft(ctx context.Context, account common.Account, outputs []common.Output, fee int64) (*wallet.Draft, error) {
	utxos, err := w.utxos.GetUTXOs(account)
	if err != nil {
		return nil, errors.Wrap(err, "walletadapter: could not load utxos")
	}

	target := common.TotalOutputValue(outputs) + btcutil.Amount(fee)
	set, err := w.selector.SelectCoins(utxos, target, 0)
	if err != nil {
		if errors.Is(err, coinselection.ErrCoinsNoSelectionAvailable) {
			return nil, wallet.ErrInsufficientFunds
		}
		return nil, errors.Wrap(err, "walletadapter: coin selection failed")
	}

	tx, err := w.buildTx(account, set, outputs, fee)
	if err != nil {
		return nil, errors.Wrap(err, "walletadapter: could not build draft transaction")
	}

	return &wallet.Draft{Size: int64(tx.SerializeSize())}, nil
}

// buildTx assembles a P2PKH transaction spending set.Coins, paying
// outputs, and returning any change to account's address. Inputs have no
// signature scripts: the draft only needs to be sized, never broadcast.
func (w *Wallet) buildTx(account common.Account, set *coinselection.ResultSet, outputs []common.Output, fee int64) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(wire.TxVersion)

	for _, coin := range set.Coins {
		hash, err := chainHashFromHex(coin.Hash)
		if err != nil {
			return nil, err
		}
		outPoint := wire.NewOutPoint(hash, coin.Index)
		tx.AddTxIn(wire.NewTxIn(outPoint, nil, nil))
	}

	for _, out := range outputs {
		script, err := payToAddrScript(out.Recipient, w.params)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(int64(out.Amount), script))
	}

	selected := btcutil.Amount(0)
	for _, coin := range set.Coins {
		selected += coin.Value
	}

	target := common.TotalOutputValue(outputs) + btcutil.Amount(fee)
	if change := selected - target; change > 0 {
		script, err := payToAddrScript(account.Name, w.params)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(wire.NewTxOut(int64(change), script))
	}

	return tx, nil
}

func payToAddrScript(address string, params *chaincfg.Params) ([]byte, error) {
	decoded, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, errors.Wrap(err, "walletadapter: could not decode address")
	}
	return txscript.PayToAddrScript(decoded)
}

func chainHashFromHex(hash string) (*chainhash.Hash, error) {
	h, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return nil, errors.Wrap(err, "walletadapter: could not parse utxo hash")
	}
	return h, nil
}
