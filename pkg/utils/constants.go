package utils

// These are the multipliers for bitcoin denominations.
// Example: To get the satoshi value of an amount in 'btc', use
//
//    new(big.Int).Mul(value, big.NewInt(utils.BTC))
//
const BTC = 1e8
