// Package btcdchain implements chain.Chain against a btcd-compatible
// node's RPC interface. It is a reference collaborator for running the
// estimator against a real node; the estimator core has no dependency on
// this package.
package btcdchain

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/utils"
)

// Chain reads recent blocks off a CachedRPCClient, summing each
// transaction's inputs and outputs via verbose RPC lookups to compute its
// fee, the way the teacher's RateCache.processTx does.
type Chain struct {
	client *utils.CachedRPCClient
	logger *zap.Logger
}

// New builds a Chain backed by client.
func New(client *utils.CachedRPCClient, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{client: client, logger: logger}
}

// RecentBlocks implements chain.Chain.
func (c *Chain) RecentBlocks(ctx context.Context, n int) ([]chain.Block, error) {
	_, bestHeight, err := c.client.GetBestBlock()
	if err != nil {
		return nil, errors.Wrap(err, "btcdchain: could not get best block")
	}

	start := int64(bestHeight) - int64(n) + 1
	if start < 0 {
		start = 0
	}

	blocks := make([]chain.Block, 0, n)
	for height := start; height <= int64(bestHeight); height++ {
		select {
		case <-ctx.Done():
			return blocks, ctx.Err()
		default:
		}

		hash, err := c.client.GetBlockHash(height)
		if err != nil {
			c.logger.Debug("btcdchain: skipping block, could not get hash", zap.Int64("height", height), zap.Error(err))
			continue
		}

		msgBlock, err := c.client.GetBlock(hash)
		if err != nil {
			c.logger.Debug("btcdchain: skipping block, could not get block", zap.Int64("height", height), zap.Error(err))
			continue
		}

		blocks = append(blocks, c.wrapBlock(*hash, msgBlock))
	}

	return blocks, nil
}

func (c *Chain) wrapBlock(hash chainhash.Hash, block *wire.MsgBlock) *Block {
	txs := make([]chain.Transaction, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		txs = append(txs, &Transaction{client: c.client, logger: c.logger, msgTx: tx})
	}

	return &Block{hash: hash, txs: txs}
}

// Block adapts wire.MsgBlock to chain.Block.
type Block struct {
	hash chainhash.Hash
	txs  []chain.Transaction
}

func (b *Block) Hash() chainhash.Hash          { return b.hash }
func (b *Block) Transactions() []chain.Transaction { return b.txs }

// Transaction adapts wire.MsgTx to chain.Transaction, computing its fee
// lazily by walking its inputs' previous outputs over RPC.
type Transaction struct {
	client *utils.CachedRPCClient
	logger *zap.Logger
	msgTx  *wire.MsgTx
}

func (t *Transaction) Hash() chainhash.Hash {
	return t.msgTx.TxHash()
}

func (t *Transaction) Size() int64 {
	return int64(t.msgTx.SerializeSize())
}

// Fee sums the transaction's input values (looked up via verbose RPC)
// minus its output values, returning 0 for a coinbase or segwit input it
// can't resolve rather than failing the whole block.
func (t *Transaction) Fee() int64 {
	inputSum := int64(0)
	for _, in := range t.msgTx.TxIn {
		if in.PreviousOutPoint.Hash == (chainhash.Hash{}) {
			// coinbase input, no prior output to look up.
			return 0
		}

		prevTx, err := t.client.GetRawTransactionVerbose(&in.PreviousOutPoint.Hash)
		if err != nil {
			t.logger.Debug("btcdchain: could not resolve previous output", zap.Error(err))
			return 0
		}

		if int(in.PreviousOutPoint.Index) >= len(prevTx.Vout) {
			return 0
		}

		inputSum += btcToSatoshi(prevTx.Vout[in.PreviousOutPoint.Index].Value)
	}

	outputSum := int64(0)
	for _, out := range t.msgTx.TxOut {
		outputSum += out.Value
	}

	fee := inputSum - outputSum
	if fee < 0 {
		return 0
	}
	return fee
}

func btcToSatoshi(btc float64) int64 {
	return int64(btc * utils.BTC)
}
