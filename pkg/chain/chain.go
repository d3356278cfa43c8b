// Package chain defines the estimator's view of the active blockchain. The
// estimator never stores blocks or validates headers itself; it only
// consumes a small read interface supplied by whatever component owns the
// chain.
package chain

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Transaction is the slice of a confirmed transaction the estimator needs
// to turn it into a fee-rate sample.
type Transaction interface {
	Hash() chainhash.Hash

	// Fee returns the absolute fee paid by the transaction, in the base
	// monetary unit.
	Fee() int64

	// Size returns the transaction's serialized byte length.
	Size() int64
}

// Block is a connected (or about-to-be-disconnected) block. Transactions
// returns the block's transactions in on-chain order; index 0 is always
// the coinbase-equivalent reward transaction.
type Block interface {
	Hash() chainhash.Hash
	Transactions() []Transaction
}

// Chain is the read-only collaborator the estimator's Setup uses to
// rebuild its sample window from the recent chain suffix on startup.
type Chain interface {
	// RecentBlocks returns up to n of the most recently connected blocks,
	// oldest first (increasing height order).
	RecentBlocks(ctx context.Context, n int) ([]Block, error)
}
