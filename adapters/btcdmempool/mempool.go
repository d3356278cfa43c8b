// Package btcdmempool implements mempool.Mempool against a btcd-compatible
// node's mempool RPC. It is a reference collaborator, grounded on the
// teacher's MempoolCache polling pattern, simplified to snapshots fetched
// on demand instead of a background ticker.
package btcdmempool

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/pkg/utils"
)

// Snapshot is a point-in-time view of a node's mempool contents.
type Snapshot struct {
	hashes map[chainhash.Hash]struct{}
}

// Contains implements mempool.Mempool.
func (s *Snapshot) Contains(txHash chainhash.Hash) bool {
	_, ok := s.hashes[txHash]
	return ok
}

// Source fetches fresh Snapshots from a node on demand.
type Source struct {
	client *utils.CachedRPCClient
	logger *zap.Logger
}

// New builds a Source backed by client.
func New(client *utils.CachedRPCClient, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{client: client, logger: logger}
}

// Snapshot fetches the node's current mempool contents.
func (s *Source) Snapshot() (*Snapshot, error) {
	pool, err := s.client.GetRawMempoolVerbose()
	if err != nil {
		return nil, errors.Wrap(err, "btcdmempool: could not get raw mempool")
	}

	hashes := make(map[chainhash.Hash]struct{}, len(pool))
	for hashHex := range pool {
		hash, err := chainhash.NewHashFromStr(hashHex)
		if err != nil {
			s.logger.Debug("btcdmempool: skipping malformed mempool entry", zap.String("hash", hashHex), zap.Error(err))
			continue
		}
		hashes[*hash] = struct{}{}
	}

	s.logger.Debug("btcdmempool: took snapshot", zap.Int("size", len(hashes)))
	return &Snapshot{hashes: hashes}, nil
}
