package simulation

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	. "github.com/ahmetb/go-linq"

	"github.com/nyxchain/feeestimator/pkg/chain"
	"github.com/nyxchain/feeestimator/pkg/common"
	"github.com/nyxchain/feeestimator/pkg/fees"
	"github.com/nyxchain/feeestimator/pkg/mempool"
)

// Config controls the shape of the synthetic activity a Simulation runs.
type Config struct {
	SeedBlocks       int
	TxSampleSize     int
	InitialUTXOs     int
	InitialUTXOValue btcutil.Amount
	Sends            int
	SendValue        btcutil.Amount
	HorizonSeconds   int64
}

// DefaultConfig is a reasonable activity shape for a quick run.
func DefaultConfig() Config {
	return Config{
		SeedBlocks:       20,
		TxSampleSize:     3,
		InitialUTXOs:     100,
		InitialUTXOValue: 50000,
		Sends:            200,
		SendValue:        1000,
		HorizonSeconds:   60,
	}
}

type send struct {
	fee   int64
	coins int
}

// Simulation drives a fees.Estimator over a synthetic block stream and a
// synthetic wallet, without a real chain or node, so the estimator's whole
// pipeline can be exercised end to end.
type Simulation struct {
	cfg       Config
	logger    *zap.Logger
	estimator *fees.Estimator
	utxos     *InMemoryUTXOManager
	wallet    *Wallet
	account   common.Account

	numberOfTxSent     int
	numberOfTxReceived int
	sends              []send
}

// New builds a Simulation wired to estimator, with utxos and wallet as its
// synthetic coin pool and wallet collaborator.
func New(cfg Config, estimator *fees.Estimator, utxos *InMemoryUTXOManager, wallet *Wallet, logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulation{
		cfg:       cfg,
		logger:    logger,
		estimator: estimator,
		utxos:     utxos,
		wallet:    wallet,
		account:   common.Account{Name: "simulated-wallet"},
	}
}

// Run seeds the estimator's sample window and the wallet's utxo pool, then
// alternates synthetic receives and fee-estimated sends.
func (s *Simulation) Run(ctx context.Context) error {
	s.seedWindow()
	s.seedUTXOs()

	for i := 0; i < s.cfg.Sends; i++ {
		if i%2 == 0 {
			s.receive(i)
			continue
		}

		if err := s.send(ctx, i); err != nil {
			return errors.Wrap(err, "simulation: send failed")
		}
	}

	s.PrintStats()
	return nil
}

// seedWindow feeds SeedBlocks synthetic mined blocks into the estimator,
// each carrying TxSampleSize+2 candidate transactions at deterministically
// varying fee rates, reported present in a matching synthetic mempool
// snapshot so the window's admission filter lets them through.
func (s *Simulation) seedWindow() {
	txCount := s.cfg.TxSampleSize + 2

	for height := 0; height < s.cfg.SeedBlocks; height++ {
		txs := make([]chain.Transaction, 0, txCount+1)
		txs = append(txs, NewTransaction(txHash(height, 0), 0, 1)) // coinbase-equivalent, skipped by OnConnect

		mined := make([]chainhash.Hash, 0, txCount)
		for j := 1; j <= txCount; j++ {
			const size = int64(225)
			rate := int64(1 + (height*7+j*13)%50)
			hash := txHash(height, j)
			txs = append(txs, NewTransaction(hash, rate*size, size))
			mined = append(mined, hash)
		}

		block := NewBlock(blockHash(height), txs)
		s.estimator.OnConnect(block, mempool.NewSet(mined...))
	}
}

// seedUTXOs adds InitialUTXOs synthetic utxos of InitialUTXOValue each to
// the wallet's coin pool.
func (s *Simulation) seedUTXOs() {
	for i := 0; i < s.cfg.InitialUTXOs; i++ {
		s.utxos.AddUTXO(s.cfg.InitialUTXOValue, i)
	}
}

func (s *Simulation) receive(idx int) {
	s.numberOfTxReceived++
	s.utxos.AddUTXO(s.cfg.SendValue, 1_000_000+idx)
}

func (s *Simulation) send(ctx context.Context, idx int) error {
	s.numberOfTxSent++

	outputs := []common.Output{{Recipient: s.account.Name, Amount: s.cfg.SendValue}}
	fee, err := s.estimator.EstimateFee(ctx, s.cfg.HorizonSeconds, s.account, outputs)
	if err != nil {
		return err
	}

	set := s.wallet.LastSelection()
	if set == nil {
		return errors.New("simulation: no coin selection recorded for this send")
	}

	s.utxos.RemoveUTXOs(set.Coins)
	s.sends = append(s.sends, send{fee: fee, coins: len(set.Coins)})
	return nil
}

// Balance sums the value of every utxo currently held.
func (s *Simulation) Balance() btcutil.Amount {
	utxos, _ := s.utxos.GetUTXOs(s.account)
	total := btcutil.Amount(0)
	for _, u := range utxos {
		total += u.Value
	}
	return total
}

// PrintStats logs a summary of the run's sends, receives and resulting
// wallet state.
func (s *Simulation) PrintStats() {
	avgFee := From(s.sends).SelectT(func(e send) int64 {
		return e.fee
	}).Average()

	avgCoins := From(s.sends).SelectT(func(e send) int64 {
		return int64(e.coins)
	}).Average()

	s.logger.Info("simulation stats",
		zap.Int("txs sent", s.numberOfTxSent),
		zap.Int("txs received", s.numberOfTxReceived),
		zap.Any("avg fee", avgFee),
		zap.Any("avg coins selected", avgCoins),
		zap.Any("resulting balance", s.Balance()),
		zap.Int("resulting utxos", s.utxos.Size()),
		zap.Int("window size", s.estimator.Size()),
	)
}
