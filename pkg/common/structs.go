package common

import "github.com/btcsuite/btcutil"

// Account identifies a wallet account that can source inputs for a draft
// transaction. Key management and the account model live entirely in the
// wallet collaborator; the estimator only ever passes this value through.
type Account struct {
	Name string
}

// Output is a single payment the caller wants a transaction to make.
type Output struct {
	Recipient string
	Amount    btcutil.Amount
	Memo      string
}

// UTXO represents an unspent transaction output available for coin
// selection. ID is an opaque identifier a UTXOManager implementation can
// use to remove a coin once it has been spent.
type UTXO struct {
	Value  btcutil.Amount
	Hash   string
	Index  uint32
	Height int64
	ID     int
}

// TotalOutputValue sums the requested amounts across a set of outputs.
func TotalOutputValue(outputs []Output) btcutil.Amount {
	var total btcutil.Amount
	for _, o := range outputs {
		total += o.Amount
	}
	return total
}
