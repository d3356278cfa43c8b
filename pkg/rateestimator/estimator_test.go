package rateestimator

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/mempool"
	"github.com/nyxchain/feeestimator/pkg/samplewindow"
)

type rateFixtureTx struct {
	hash chainhash.Hash
	fee  int64
}

func (t rateFixtureTx) Hash() chainhash.Hash { return t.hash }
func (t rateFixtureTx) Fee() int64           { return t.fee }
func (t rateFixtureTx) Size() int64          { return 1 }

type rateFixtureBlockImpl struct {
	hash chainhash.Hash
	txs  []chain.Transaction
}

func (b rateFixtureBlockImpl) Hash() chainhash.Hash              { return b.hash }
func (b rateFixtureBlockImpl) Transactions() []chain.Transaction { return b.txs }

// rateFixtureBlock builds a block hashed h with a coinbase-equivalent
// followed by a single transaction whose fee rate is exactly rate (its
// size is fixed at 1).
func rateFixtureBlock(h byte, rate int64) rateFixtureBlockImpl {
	var blockHash, txHash chainhash.Hash
	blockHash[0] = h
	txHash[0] = h
	txHash[31] = 1

	return rateFixtureBlockImpl{
		hash: blockHash,
		txs: []chain.Transaction{
			rateFixtureTx{hash: blockHash, fee: 0},
			rateFixtureTx{hash: txHash, fee: rate},
		},
	}
}

func TestBucketForHorizonBoundaries(t *testing.T) {
	assert.Equal(t, High, BucketForHorizon(0))
	assert.Equal(t, High, BucketForHorizon(59))
	assert.Equal(t, Medium, BucketForHorizon(60))
	assert.Equal(t, Medium, BucketForHorizon(299))
	assert.Equal(t, Low, BucketForHorizon(300))
	assert.Equal(t, Low, BucketForHorizon(3600))
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "low", Low.String())
	assert.Equal(t, "medium", Medium.String())
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "unknown", Bucket(99).String())
}

func TestNewReplacesZeroPercentilesWithDefaults(t *testing.T) {
	window, err := samplewindow.NewWindow(10, 3, nil)
	require.NoError(t, err)

	e := New(window, Percentiles{})
	assert.Equal(t, DefaultPercentiles, e.percentiles)

	custom := Percentiles{Low: 5, Medium: 15, High: 25}
	e = New(window, custom)
	assert.Equal(t, custom, e.percentiles)
}

func TestEstimateRateForBucketReturnsDefaultWhenWindowEmpty(t *testing.T) {
	window, err := samplewindow.NewWindow(10, 3, nil)
	require.NoError(t, err)

	e := New(window, Percentiles{})
	assert.Equal(t, DefaultRate, e.EstimateRateForBucket(Low))
	assert.Equal(t, DefaultRate, e.EstimateRateForBucket(High))
}

func TestEstimateRateForBucketPicksPercentileOfSortedRates(t *testing.T) {
	window, err := samplewindow.NewWindow(10, 10, nil)
	require.NoError(t, err)

	// 10 distinct blocks each contributing one sample with feeRate == its
	// 1-based position, giving a sorted rate set of exactly [1..10].
	for i := 1; i <= 10; i++ {
		block := rateFixtureBlock(byte(i), int64(i))
		window.OnConnect(block, mempool.NewSet(block.Transactions()[1].Hash()))
	}
	require.Equal(t, 10, window.Size())

	e := New(window, Percentiles{Low: 10, Medium: 50, High: 90})

	// idx = p*len/100: 10th percentile of 10 samples -> index 1 -> rate 2.
	assert.Equal(t, int64(2), e.EstimateRateForBucket(Low))
	// 50th percentile -> index 5 -> rate 6.
	assert.Equal(t, int64(6), e.EstimateRateForBucket(Medium))
	// 90th percentile -> index 9 -> rate 10.
	assert.Equal(t, int64(10), e.EstimateRateForBucket(High))
}

func TestEstimateRateDispatchesThroughBucketForHorizon(t *testing.T) {
	window, err := samplewindow.NewWindow(10, 10, nil)
	require.NoError(t, err)

	block := rateFixtureBlock(1, 7)
	window.OnConnect(block, mempool.NewSet(block.Transactions()[1].Hash()))

	e := New(window, Percentiles{Low: 0, Medium: 0, High: 0})
	rate, err := e.EstimateRate(3600)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rate) // Low bucket; zero percentiles fall back to the defaults, and with one sample any percentile picks it.
}

func TestEstimateRateRejectsNegativeHorizon(t *testing.T) {
	window, err := samplewindow.NewWindow(10, 3, nil)
	require.NoError(t, err)

	e := New(window, Percentiles{})
	_, err = e.EstimateRate(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
