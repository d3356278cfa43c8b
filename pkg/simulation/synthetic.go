// Package simulation drives pkg/fees.Estimator over a synthetic stream of
// mined blocks and wallet activity, without a real node or wallet. It is a
// deterministic harness for exercising the estimator end to end.
package simulation

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/nyxchain/feeestimator/pkg/chain"
)

// Transaction is a synthetic chain.Transaction carrying a fixed fee and
// size instead of ones resolved from a real node's previous outputs.
type Transaction struct {
	hash chainhash.Hash
	fee  int64
	size int64
}

// NewTransaction builds a Transaction with the given fee (satoshis) and
// size (bytes).
func NewTransaction(hash chainhash.Hash, fee, size int64) *Transaction {
	return &Transaction{hash: hash, fee: fee, size: size}
}

func (t *Transaction) Hash() chainhash.Hash { return t.hash }
func (t *Transaction) Fee() int64           { return t.fee }
func (t *Transaction) Size() int64          { return t.size }

// Block is a synthetic chain.Block grouping Transactions mined together.
type Block struct {
	hash chainhash.Hash
	txs  []chain.Transaction
}

// NewBlock builds a Block identified by hash containing txs.
func NewBlock(hash chainhash.Hash, txs []chain.Transaction) *Block {
	return &Block{hash: hash, txs: txs}
}

func (b *Block) Hash() chainhash.Hash              { return b.hash }
func (b *Block) Transactions() []chain.Transaction { return b.txs }

// blockHash derives a deterministic, distinguishable hash for a synthetic
// block numbered height.
func blockHash(height int) chainhash.Hash {
	var h chainhash.Hash
	h[0] = byte(height)
	h[1] = byte(height >> 8)
	h[2] = byte(height >> 16)
	return h
}

// txHash derives a deterministic, distinguishable hash for the idx'th
// synthetic transaction of block height.
func txHash(height, idx int) chainhash.Hash {
	var h chainhash.Hash
	h[0] = byte(height)
	h[1] = byte(height >> 8)
	h[2] = byte(height >> 16)
	h[28] = byte(idx)
	h[29] = byte(idx >> 8)
	return h
}
