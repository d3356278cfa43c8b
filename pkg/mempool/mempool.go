// Package mempool defines the estimator's view of the node's local mempool.
package mempool

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Mempool answers whether a transaction hash is currently admitted to the
// node's mempool. A value passed to Window.OnConnect is a snapshot that
// only needs to stay valid for the duration of that call.
type Mempool interface {
	Contains(txHash chainhash.Hash) bool
}

// Set is a simple in-memory Mempool backed by a hash set, useful for tests
// and for adapters that can cheaply materialize the full mempool contents.
type Set map[chainhash.Hash]struct{}

// NewSet builds a Set containing the given hashes.
func NewSet(hashes ...chainhash.Hash) Set {
	s := make(Set, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}

// Contains implements Mempool.
func (s Set) Contains(txHash chainhash.Hash) bool {
	_, ok := s[txHash]
	return ok
}
