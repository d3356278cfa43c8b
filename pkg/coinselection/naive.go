package coinselection

import (
	"math/rand"
	"time"

	"github.com/btcsuite/btcutil"

	"github.com/nyxchain/feeestimator/pkg/common"
)

type RandomCoinSelector struct {
	MaxInputs       int
	MinChangeAmount btcutil.Amount
}

func (s RandomCoinSelector) SelectCoins(utxos []*common.UTXO, target btcutil.Amount, feeRate int64) (*ResultSet, error) {
	shuffledUtxos := shuffle(utxos)

	return MinIndexCoinSelector(s).SelectCoins(shuffledUtxos, target, feeRate)
}

func shuffle(utxos []*common.UTXO) []*common.UTXO {
	r := rand.New(rand.NewSource(time.Now().Unix()))
	res := make([]*common.UTXO, len(utxos))
	perm := r.Perm(len(utxos))
	for i, randIndex := range perm {
		res[i] = utxos[randIndex]
	}
	return res
}
