package events

import (
	"encoding/hex"
	"math/big"
)

func formatAmount(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

func formatAddress(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}
