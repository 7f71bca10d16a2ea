package token

import (
	"errors"
	"math/big"
	"testing"
)

func addr(suffix byte) [20]byte {
	var a [20]byte
	a[len(a)-1] = suffix
	return a
}

func TestBankMintAndTransfer(t *testing.T) {
	bank := NewBank("STK")
	alice := addr(0x01)
	bob := addr(0x02)

	if err := bank.Mint(alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := bank.Transfer(alice, bob, big.NewInt(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := bank.BalanceOf(alice); got.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("unexpected alice balance: %s", got)
	}
	if got := bank.BalanceOf(bob); got.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("unexpected bob balance: %s", got)
	}
	if err := bank.Transfer(alice, bob, big.NewInt(61)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestBankTransferFromConsumesAllowance(t *testing.T) {
	bank := NewBank("STK")
	alice := addr(0x01)
	ledger := addr(0x0a)

	if err := bank.Mint(alice, big.NewInt(50)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := bank.Approve(alice, ledger, big.NewInt(30)); err != nil {
		t.Fatalf("approve: %v", err)
	}

	view := bank.Bind(ledger)
	if err := view.TransferFrom(alice, ledger, big.NewInt(20)); err != nil {
		t.Fatalf("transfer from: %v", err)
	}
	if got := bank.Allowance(alice, ledger); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("unexpected allowance: %s", got)
	}
	if err := view.TransferFrom(alice, ledger, big.NewInt(11)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected insufficient allowance, got %v", err)
	}
	if got := bank.BalanceOf(ledger); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("unexpected ledger balance: %s", got)
	}
}

func TestBindingTransferDebitsOperator(t *testing.T) {
	bank := NewBank("RWD")
	ledger := addr(0x0a)
	alice := addr(0x01)

	if err := bank.Mint(ledger, big.NewInt(15)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	view := bank.Bind(ledger)
	if err := view.Transfer(alice, big.NewInt(15)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := view.BalanceOf(ledger); got.Sign() != 0 {
		t.Fatalf("expected drained operator balance, got %s", got)
	}
	if got := view.BalanceOf(alice); got.Cmp(big.NewInt(15)) != 0 {
		t.Fatalf("unexpected recipient balance: %s", got)
	}
}
