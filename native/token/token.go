package token

import "math/big"

// Token is the fungible-asset surface the reward ledger consumes. The ledger
// itself is the implicit caller: Transfer moves funds out of the ledger's
// custody and TransferFrom pulls pre-approved funds into it.
type Token interface {
	Transfer(to [20]byte, amount *big.Int) error
	TransferFrom(from, to [20]byte, amount *big.Int) error
	BalanceOf(account [20]byte) *big.Int
}
