// Package samplewindow maintains the bounded, ordered sequence of fee-rate
// samples the rate estimator reads from. It is the estimator's only
// mutable state: everything else is a pure function over it or a
// read-only collaborator.
package samplewindow

import (
	"context"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/mempool"
)

// ErrInvalidArgument is returned by NewWindow when its configuration is
// non-positive.
var ErrInvalidArgument = errors.New("samplewindow: invalid argument")

// Sample is a single fee-rate observation retained by the window. It
// carries the hash of the block it was mined in so it can be removed on
// disconnect, not the transaction hash.
type Sample struct {
	BlockHash chainhash.Hash
	FeeRate   int64
}

// Window is a bounded, ordered sequence of Samples plus the two
// parameters that bound it: RecentBlocksNum distinct blocks, TxSampleSize
// samples admitted per block. It represents a suffix of the active
// chain's connect history.
type Window struct {
	recentBlocksNum int
	txSampleSize    int
	logger          *zap.Logger

	mu      sync.Mutex
	samples []Sample
}

// NewWindow builds an empty Window. Both parameters must be positive.
func NewWindow(recentBlocksNum, txSampleSize int, logger *zap.Logger) (*Window, error) {
	if recentBlocksNum <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "recentBlocksNum must be positive")
	}
	if txSampleSize <= 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "txSampleSize must be positive")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Window{
		recentBlocksNum: recentBlocksNum,
		txSampleSize:    txSampleSize,
		logger:          logger,
	}, nil
}

// Setup replays OnConnect for up to RecentBlocksNum of the most recently
// connected blocks, using the current mempool snapshot for all of them.
// It is best-effort: blocks the chain collaborator skips are simply
// absent, and if RecentBlocks returns an error it is logged and the
// window is left unchanged.
func (w *Window) Setup(ctx context.Context, c chain.Chain, mp mempool.Mempool) {
	blocks, err := c.RecentBlocks(ctx, w.recentBlocksNum)
	if err != nil {
		w.logger.Debug("samplewindow: setup could not load recent blocks", zap.Error(err))
		return
	}

	for _, b := range blocks {
		w.OnConnect(b, mp)
	}
}

// OnConnect admits samples from a newly attached block and evicts the
// oldest represented block if the distinct-block cap is now exceeded.
func (w *Window) OnConnect(block chain.Block, mp mempool.Mempool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	txs := block.Transactions()
	if len(txs) <= 1 {
		// Only the coinbase-equivalent transaction, or an empty block.
		return
	}

	type candidate struct {
		feeRate int64
	}
	var surviving []candidate
	for _, tx := range txs[1:] {
		if !mp.Contains(tx.Hash()) {
			continue
		}

		rate, err := feeRate(tx.Fee(), tx.Size())
		if err != nil {
			w.logger.Debug("samplewindow: skipped malformed transaction", zap.Error(err))
			continue
		}

		surviving = append(surviving, candidate{feeRate: rate})
	}

	if len(surviving) == 0 {
		return
	}

	sort.SliceStable(surviving, func(i, j int) bool {
		return surviving[i].feeRate < surviving[j].feeRate
	})

	admit := w.txSampleSize
	if admit > len(surviving) {
		admit = len(surviving)
	}

	hash := block.Hash()
	for _, c := range surviving[:admit] {
		w.samples = append(w.samples, Sample{BlockHash: hash, FeeRate: c.feeRate})
	}

	w.evictOldestLocked()
}

// OnDisconnect removes every sample belonging to block from the tail of
// the window. It is a no-op unless the tail currently represents exactly
// that block, since disconnects must arrive in LIFO order matching
// connects.
func (w *Window) OnDisconnect(block chain.Block) {
	w.mu.Lock()
	defer w.mu.Unlock()

	hash := block.Hash()
	if len(w.samples) == 0 || w.samples[len(w.samples)-1].BlockHash != hash {
		return
	}

	cut := len(w.samples)
	for cut > 0 && w.samples[cut-1].BlockHash == hash {
		cut--
	}
	w.samples = w.samples[:cut]
}

// Size returns the current number of samples.
func (w *Window) Size() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.samples)
}

// Samples returns a read-only, oldest-first copy of the current samples.
func (w *Window) Samples() []Sample {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// evictOldestLocked drops the samples of the oldest represented block,
// repeatedly, until at most recentBlocksNum distinct blocks remain. Must
// be called with w.mu held.
func (w *Window) evictOldestLocked() {
	for distinctBlocks(w.samples) > w.recentBlocksNum {
		oldest := w.samples[0].BlockHash
		i := 0
		for i < len(w.samples) && w.samples[i].BlockHash == oldest {
			i++
		}
		w.samples = w.samples[i:]
	}
}

func distinctBlocks(samples []Sample) int {
	if len(samples) == 0 {
		return 0
	}

	count := 1
	last := samples[0].BlockHash
	for _, s := range samples[1:] {
		if s.BlockHash != last {
			count++
			last = s.BlockHash
		}
	}
	return count
}

// feeRate computes ceil(fee/size), the minimum representable rate is 1.
// A zero-size transaction is illegal input and is reported as an error
// rather than dividing by zero.
func feeRate(fee, size int64) (int64, error) {
	if size <= 0 {
		return 0, errors.New("samplewindow: transaction has non-positive size")
	}

	rate := (fee + size - 1) / size
	if rate < 1 {
		rate = 1
	}
	return rate, nil
}
