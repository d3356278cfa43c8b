package feesolver

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/mempool"
	"github.com/nyxchain/feeestimator/pkg/rateestimator"
	"github.com/nyxchain/feeestimator/pkg/samplewindow"
	"github.com/nyxchain/feeestimator/pkg/wallet"
)

type solverFixtureTx struct {
	hash chainhash.Hash
	fee  int64
}

func (t solverFixtureTx) Hash() chainhash.Hash { return t.hash }
func (t solverFixtureTx) Fee() int64           { return t.fee }
func (t solverFixtureTx) Size() int64          { return 1 }

type solverFixtureBlock struct {
	hash chainhash.Hash
	txs  []chain.Transaction
}

func (b solverFixtureBlock) Hash() chainhash.Hash              { return b.hash }
func (b solverFixtureBlock) Transactions() []chain.Transaction { return b.txs }

// fixedSizeWallet always drafts a transaction of the same size, so the
// solver's fee/size loop converges in exactly one extra iteration after
// fee=0 (newFee := rate*size, then newFee == fee on the next pass).
type fixedSizeWallet struct {
	size  int64
	calls int
}

func (w *fixedSizeWallet) CreateDraft(_ context.Context, _ common.Account, _ []common.Output, _ int64) (*wallet.Draft, error) {
	w.calls++
	return &wallet.Draft{Size: w.size}, nil
}

// growingWallet reports a draft size of fee+10 bytes, so at rate 1 the
// fee/size fixed point is never reached and the solver exhausts its
// iteration budget.
type growingWallet struct {
	calls int
}

func (w *growingWallet) CreateDraft(_ context.Context, _ common.Account, _ []common.Output, fee int64) (*wallet.Draft, error) {
	w.calls++
	return &wallet.Draft{Size: fee + 10}, nil
}

type failingWallet struct {
	err error
}

func (w *failingWallet) CreateDraft(context.Context, common.Account, []common.Output, int64) (*wallet.Draft, error) {
	return nil, w.err
}

func ratesFixedAt(t *testing.T, rate int64) *rateestimator.Estimator {
	window, err := samplewindow.NewWindow(1, 1, nil)
	require.NoError(t, err)

	var blockHash, txHash chainhash.Hash
	blockHash[0] = 1
	txHash[0] = 1
	txHash[31] = 1

	block := solverFixtureBlock{
		hash: blockHash,
		txs: []chain.Transaction{
			solverFixtureTx{hash: blockHash, fee: 0},
			solverFixtureTx{hash: txHash, fee: rate},
		},
	}
	window.OnConnect(block, mempool.NewSet(txHash))

	return rateestimator.New(window, rateestimator.Percentiles{Low: 0, Medium: 0, High: 0})
}

func TestEstimateFeeRejectsEmptyOutputs(t *testing.T) {
	w := &fixedSizeWallet{size: 100}
	s := New(ratesFixedAt(t, 5), w, 0, nil)

	_, err := s.EstimateFee(context.Background(), 3600, common.Account{}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, w.calls)
}

func TestEstimateFeeConvergesToRateTimesSize(t *testing.T) {
	w := &fixedSizeWallet{size: 226}
	s := New(ratesFixedAt(t, 5), w, 0, nil)

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	fee, err := s.EstimateFee(context.Background(), 3600, common.Account{Name: "acct"}, outputs)

	require.NoError(t, err)
	assert.Equal(t, int64(5*226), fee)
	assert.True(t, w.calls >= 2 && w.calls <= DefaultMaxIterations)
}

func TestEstimateFeeRejectsNegativeHorizon(t *testing.T) {
	w := &fixedSizeWallet{size: 100}
	s := New(ratesFixedAt(t, 5), w, 0, nil)

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	_, err := s.EstimateFee(context.Background(), -1, common.Account{}, outputs)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, w.calls)
}

func TestEstimateFeePropagatesWalletError(t *testing.T) {
	w := &failingWallet{err: wallet.ErrInsufficientFunds}
	s := New(ratesFixedAt(t, 5), w, 0, nil)

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	_, err := s.EstimateFee(context.Background(), 60, common.Account{}, outputs)
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
}

func TestEstimateFeeReturnsLastIterateWhenItDoesNotConverge(t *testing.T) {
	w := &growingWallet{}
	s := New(ratesFixedAt(t, 1), w, 3, nil)

	outputs := []common.Output{{Recipient: "addr", Amount: 1000}}
	fee, err := s.EstimateFee(context.Background(), 60, common.Account{}, outputs)

	require.NoError(t, err)
	assert.Equal(t, 3, w.calls)
	assert.Greater(t, fee, int64(0))
}

func TestNewReplacesNonPositiveMaxIterations(t *testing.T) {
	s := New(ratesFixedAt(t, 1), &fixedSizeWallet{size: 1}, -1, nil)
	assert.Equal(t, DefaultMaxIterations, s.maxIterations)
}
