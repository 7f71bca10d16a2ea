package events

import (
	"math/big"
	"strconv"

	"stakeledger/core/types"
)

const (
	// TypeStakeDeposited captures a stake deposit credited to the pool.
	TypeStakeDeposited = "stakerewards.staked"
	// TypeStakeWithdrawn captures stake returned to its owner.
	TypeStakeWithdrawn = "stakerewards.withdrawn"
	// TypeRewardPaid is emitted when accrued rewards are claimed and
	// transferred to an account.
	TypeRewardPaid = "stakerewards.rewardPaid"
	// TypeRewardFunded signals that the emission window was (re)funded.
	TypeRewardFunded = "stakerewards.rewardFunded"
	// TypeRewardsDurationUpdated captures an administrative change of the
	// emission window length.
	TypeRewardsDurationUpdated = "stakerewards.durationUpdated"
)

// StakeDeposited captures the balance delta realised when staking.
type StakeDeposited struct {
	Account     [20]byte
	Amount      *big.Int
	TotalStaked *big.Int
}

// EventType satisfies the Event interface.
func (StakeDeposited) EventType() string { return TypeStakeDeposited }

// Event converts the structured payload into a broadcastable event.
func (e StakeDeposited) Event() *types.Event {
	return &types.Event{Type: TypeStakeDeposited, Attributes: map[string]string{
		"addr":        formatAddress(e.Account),
		"amount":      formatAmount(e.Amount),
		"totalStaked": formatAmount(e.TotalStaked),
	}}
}

// StakeWithdrawn captures the balance delta realised when withdrawing.
type StakeWithdrawn struct {
	Account     [20]byte
	Amount      *big.Int
	TotalStaked *big.Int
}

// EventType satisfies the Event interface.
func (StakeWithdrawn) EventType() string { return TypeStakeWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e StakeWithdrawn) Event() *types.Event {
	return &types.Event{Type: TypeStakeWithdrawn, Attributes: map[string]string{
		"addr":        formatAddress(e.Account),
		"amount":      formatAmount(e.Amount),
		"totalStaked": formatAmount(e.TotalStaked),
	}}
}

// RewardPaid captures the reward payout for an account.
type RewardPaid struct {
	Account [20]byte
	Amount  *big.Int
}

// EventType satisfies the Event interface.
func (RewardPaid) EventType() string { return TypeRewardPaid }

// Event converts the structured payload into a broadcastable event.
func (e RewardPaid) Event() *types.Event {
	return &types.Event{Type: TypeRewardPaid, Attributes: map[string]string{
		"addr":   formatAddress(e.Account),
		"reward": formatAmount(e.Amount),
	}}
}

// RewardFunded captures a funding of the emission window.
type RewardFunded struct {
	Caller   [20]byte
	Amount   *big.Int
	Rate     *big.Int
	FinishAt uint64
}

// EventType satisfies the Event interface.
func (RewardFunded) EventType() string { return TypeRewardFunded }

// Event converts the structured payload into a broadcastable event.
func (e RewardFunded) Event() *types.Event {
	attrs := map[string]string{
		"caller": formatAddress(e.Caller),
		"amount": formatAmount(e.Amount),
		"rate":   formatAmount(e.Rate),
	}
	if e.FinishAt > 0 {
		attrs["finishAt"] = strconv.FormatUint(e.FinishAt, 10)
	}
	return &types.Event{Type: TypeRewardFunded, Attributes: attrs}
}

// RewardsDurationUpdated captures a change of the emission window length.
type RewardsDurationUpdated struct {
	Caller   [20]byte
	Duration uint64
}

// EventType satisfies the Event interface.
func (RewardsDurationUpdated) EventType() string { return TypeRewardsDurationUpdated }

// Event converts the structured payload into a broadcastable event.
func (e RewardsDurationUpdated) Event() *types.Event {
	return &types.Event{Type: TypeRewardsDurationUpdated, Attributes: map[string]string{
		"caller":   formatAddress(e.Caller),
		"duration": strconv.FormatUint(e.Duration, 10),
	}}
}
