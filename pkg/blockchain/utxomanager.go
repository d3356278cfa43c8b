package blockchain

import (
	"math/big"

	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"

	"github.com/nyxchain/feeestimator/pkg/common"
)

// UTXOManager is the UTXO source the wallet adapter's coin selection
// draws from. It is a reference collaborator, not part of the
// estimator's own contract.
type UTXOManager interface {
	GetUTXOs(account common.Account) ([]*common.UTXO, error)
}

type ElectrumxUTXOManager struct {
	electrumX jsonrpc.RPCClient
	btcClient jsonrpc.RPCClient
}

// NewElectrumxUTXOManager creates new NewUTXOManager instance
func NewElectrumxUTXOManager() (UTXOManager, error) {
	// create ElectrumX JSON RPC client
	electrumX, err := NewElectrumX("") //opts.GetElectrumXURL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ElectrumX RPC")
	}

	return &ElectrumxUTXOManager{
		electrumX: electrumX,
	}, nil // OK
}

// GetUTXOs gets all UTXOs for account.Name, treated as a single address
// (this reference implementation doesn't model multi-address accounts).
func (s *ElectrumxUTXOManager) GetUTXOs(account common.Account) ([]*common.UTXO, error) {
	scriptHash, err := createElectrumXScriptHash(account.Name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ElectrumX script hash")
	}

	// ElectrumX response
	type UTXO struct {
		TxPos  *big.Int `json:"tx_pos"`
		Value  *big.Int `json:"value"` // satoshis
		TxHash string   `json:"tx_hash"`
		Height *big.Int `json:"height"`
	}

	// JSON RPC request
	var eutxos []UTXO
	err = s.electrumX.CallFor(&eutxos, "blockchain.scripthash.listunspent", scriptHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get UTXOs from ElectrumX")
	}

	// copy UTXOs
	utxos := make([]*common.UTXO, 0, len(eutxos))
	for i, u := range eutxos {
		utxos = append(utxos,
			&common.UTXO{
				Index:  uint32(u.TxPos.Int64()),
				Value:  btcutil.Amount(u.Value.Int64()),
				Hash:   u.TxHash,
				Height: u.Height.Int64(),
				ID:     i,
			})
	}

	return utxos, nil // OK
}
