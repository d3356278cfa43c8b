package fees

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/mempool"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

type fixtureTx struct {
	hash chainhash.Hash
	fee  int64
	size int64
}

func (t fixtureTx) Hash() chainhash.Hash { return t.hash }
func (t fixtureTx) Fee() int64           { return t.fee }
func (t fixtureTx) Size() int64          { return t.size }

type fixtureBlock struct {
	hash chainhash.Hash
	txs  []chain.Transaction
}

func (b fixtureBlock) Hash() chainhash.Hash              { return b.hash }
func (b fixtureBlock) Transactions() []chain.Transaction { return b.txs }

func minedBlock(h byte, feesAndSizes ...[2]int64) fixtureBlock {
	var blockHash chainhash.Hash
	blockHash[0] = h

	txs := []chain.Transaction{fixtureTx{hash: blockHash, fee: 0, size: 1}}
	for i, fs := range feesAndSizes {
		var txHash chainhash.Hash
		txHash[0] = blockHash[0]
		txHash[31] = byte(i + 1)
		txs = append(txs, fixtureTx{hash: txHash, fee: fs[0], size: fs[1]})
	}

	return fixtureBlock{hash: blockHash, txs: txs}
}

func allSeen(b fixtureBlock) mempool.Set {
	hashes := make([]chainhash.Hash, 0, len(b.txs))
	for _, tx := range b.txs {
		hashes = append(hashes, tx.Hash())
	}
	return mempool.NewSet(hashes...)
}

type fixedSizeWallet struct {
	size int64
}

func (w fixedSizeWallet) CreateDraft(context.Context, common.Account, []common.Output, int64) (*wallet.Draft, error) {
	return &wallet.Draft{Size: w.size}, nil
}

type insufficientFundsWallet struct{}

func (insufficientFundsWallet) CreateDraft(context.Context, common.Account, []common.Output, int64) (*wallet.Draft, error) {
	return nil, wallet.ErrInsufficientFunds
}

func TestNewAppliesDefaultsForZeroConfig(t *testing.T) {
	e, err := New(Config{}, fixedSizeWallet{size: 100})
	require.NoError(t, err)
	assert.Equal(t, 0, e.Size())
}

func TestNewPropagatesInvalidWindowConfiguration(t *testing.T) {
	_, err := New(Config{RecentBlocksNum: -1}, fixedSizeWallet{size: 100})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEstimatorTracksConnectsAndDisconnects(t *testing.T) {
	e, err := New(Config{RecentBlocksNum: 2, TxSampleSize: 1}, fixedSizeWallet{size: 100})
	require.NoError(t, err)

	first := minedBlock(1, [2]int64{100, 100})
	second := minedBlock(2, [2]int64{200, 100})

	e.OnConnect(first, allSeen(first))
	e.OnConnect(second, allSeen(second))
	assert.Equal(t, 2, e.Size())

	e.OnDisconnect(second)
	assert.Equal(t, 1, e.Size())
}

func TestEstimateRateReflectsWindowContents(t *testing.T) {
	e, err := New(Config{RecentBlocksNum: 1, TxSampleSize: 1}, fixedSizeWallet{size: 100})
	require.NoError(t, err)

	rate, err := e.EstimateRate(3600)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rate) // empty window -> DefaultRate

	block := minedBlock(1, [2]int64{500, 100})
	e.OnConnect(block, allSeen(block))
	rate, err = e.EstimateRate(3600)
	require.NoError(t, err)
	assert.Equal(t, int64(5), rate)
}

func TestEstimateFeeConvergesAgainstTheWallet(t *testing.T) {
	e, err := New(Config{RecentBlocksNum: 1, TxSampleSize: 1}, fixedSizeWallet{size: 226})
	require.NoError(t, err)

	block := minedBlock(1, [2]int64{5 * 100, 100}) // feeRate 5
	e.OnConnect(block, allSeen(block))

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	fee, err := e.EstimateFee(context.Background(), 3600, common.Account{Name: "acct"}, outputs)
	require.NoError(t, err)
	assert.Equal(t, int64(5*226), fee)
}

func TestEstimateRateRejectsNegativeHorizon(t *testing.T) {
	e, err := New(Config{}, fixedSizeWallet{size: 100})
	require.NoError(t, err)

	_, err = e.EstimateRate(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEstimateFeePropagatesInsufficientFunds(t *testing.T) {
	e, err := New(Config{}, insufficientFundsWallet{})
	require.NoError(t, err)

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	_, err = e.EstimateFee(context.Background(), 60, common.Account{}, outputs)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}
