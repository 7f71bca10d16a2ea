package token

import (
	"math/big"
	"sync"
)

// Bank is an in-process fungible asset: balances plus spending allowances.
// It backs the ledger in tests and single-node deployments; production
// integrations substitute their own Token implementation.
type Bank struct {
	mu         sync.RWMutex
	symbol     string
	balances   map[[20]byte]*big.Int
	allowances map[[20]byte]map[[20]byte]*big.Int
}

// NewBank constructs an empty bank for the supplied asset symbol.
func NewBank(symbol string) *Bank {
	return &Bank{
		symbol:     symbol,
		balances:   make(map[[20]byte]*big.Int),
		allowances: make(map[[20]byte]map[[20]byte]*big.Int),
	}
}

// Symbol returns the asset symbol the bank was created with.
func (b *Bank) Symbol() string {
	if b == nil {
		return ""
	}
	return b.symbol
}

// Mint credits freshly issued units to the supplied account.
func (b *Bank) Mint(account [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(account, amount)
	return nil
}

// Approve authorises the spender to move up to amount units on behalf of the
// owner. A zero amount clears the allowance.
func (b *Bank) Approve(owner, spender [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	grants := b.allowances[owner]
	if grants == nil {
		grants = make(map[[20]byte]*big.Int)
		b.allowances[owner] = grants
	}
	grants[spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance reports the remaining spend authorisation for the pair.
func (b *Bank) Allowance(owner, spender [20]byte) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if grants := b.allowances[owner]; grants != nil {
		if remaining := grants[spender]; remaining != nil {
			return new(big.Int).Set(remaining)
		}
	}
	return big.NewInt(0)
}

// BalanceOf returns the current balance of the account.
func (b *Bank) BalanceOf(account [20]byte) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if balance := b.balances[account]; balance != nil {
		return new(big.Int).Set(balance)
	}
	return big.NewInt(0)
}

// Transfer moves amount units from one account to another.
func (b *Bank) Transfer(from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.move(from, to, amount)
}

// TransferFrom moves amount units from the owner to the recipient, consuming
// the spender's allowance.
func (b *Bank) TransferFrom(spender, from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	grants := b.allowances[from]
	remaining := grants[spender]
	if remaining == nil || remaining.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := b.move(from, to, amount); err != nil {
		return err
	}
	grants[spender] = new(big.Int).Sub(remaining, amount)
	return nil
}

func (b *Bank) move(from, to [20]byte, amount *big.Int) error {
	balance := b.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.balances[from] = new(big.Int).Sub(balance, amount)
	b.credit(to, amount)
	return nil
}

func (b *Bank) credit(account [20]byte, amount *big.Int) {
	balance := b.balances[account]
	if balance == nil {
		balance = big.NewInt(0)
	}
	b.balances[account] = new(big.Int).Add(balance, amount)
}

// Binding fixes the operator identity for a bank so that the result satisfies
// the Token interface the ledger consumes. Transfers debit the operator's
// account and TransferFrom spends the operator's allowance.
type Binding struct {
	bank     *Bank
	operator [20]byte
}

// Bind returns a Token view of the bank acting as the supplied operator.
func (b *Bank) Bind(operator [20]byte) *Binding {
	return &Binding{bank: b, operator: operator}
}

// Transfer implements the Token interface.
func (v *Binding) Transfer(to [20]byte, amount *big.Int) error {
	return v.bank.Transfer(v.operator, to, amount)
}

// TransferFrom implements the Token interface.
func (v *Binding) TransferFrom(from, to [20]byte, amount *big.Int) error {
	return v.bank.TransferFrom(v.operator, from, to, amount)
}

// BalanceOf implements the Token interface.
func (v *Binding) BalanceOf(account [20]byte) *big.Int {
	return v.bank.BalanceOf(account)
}
