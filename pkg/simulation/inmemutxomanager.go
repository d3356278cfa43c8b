package simulation

import (
	"sync"

	"github.com/btcsuite/btcutil"

	"github.com/nyxchain/feeestimator/pkg/common"
)

// InMemoryUTXOManager is a blockchain.UTXOManager backed by a plain map,
// letting the simulation drive coin selection without a real node.
type InMemoryUTXOManager struct {
	mu    sync.Mutex
	utxos map[int]*common.UTXO
}

// NewInMemoryUTXOManager builds an empty InMemoryUTXOManager.
func NewInMemoryUTXOManager() *InMemoryUTXOManager {
	return &InMemoryUTXOManager{utxos: make(map[int]*common.UTXO)}
}

// AddUTXO adds a utxo to the pool, idx is used as both its map key and ID.
func (m *InMemoryUTXOManager) AddUTXO(value btcutil.Amount, idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.utxos[idx] = &common.UTXO{Value: value, ID: idx}
}

// GetUTXOs implements blockchain.UTXOManager. The simulation models a
// single account, so account is ignored.
func (m *InMemoryUTXOManager) GetUTXOs(_ common.Account) ([]*common.UTXO, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	utxos := make([]*common.UTXO, 0, len(m.utxos))
	for _, utxo := range m.utxos {
		utxos = append(utxos, utxo)
	}
	return utxos, nil
}

// RemoveUTXOs removes the given utxos (by ID) from the pool, e.g. after
// they've been spent as inputs to a sent transaction.
func (m *InMemoryUTXOManager) RemoveUTXOs(utxos []*common.UTXO) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, utxo := range utxos {
		delete(m.utxos, utxo.ID)
	}
}

// Size returns the number of utxos currently held.
func (m *InMemoryUTXOManager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.utxos)
}
