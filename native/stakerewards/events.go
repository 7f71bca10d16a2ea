package stakerewards

import (
	"math/big"

	"stakeledger/core/events"
	"stakeledger/core/types"
)

func stakeDepositedEvent(account [20]byte, amount, totalStaked *big.Int) *types.Event {
	return events.StakeDeposited{
		Account:     account,
		Amount:      copyBigInt(amount),
		TotalStaked: copyBigInt(totalStaked),
	}.Event()
}

func stakeWithdrawnEvent(account [20]byte, amount, totalStaked *big.Int) *types.Event {
	return events.StakeWithdrawn{
		Account:     account,
		Amount:      copyBigInt(amount),
		TotalStaked: copyBigInt(totalStaked),
	}.Event()
}

func rewardPaidEvent(account [20]byte, amount *big.Int) *types.Event {
	return events.RewardPaid{Account: account, Amount: copyBigInt(amount)}.Event()
}

func rewardFundedEvent(caller [20]byte, amount, rate *big.Int, finishAt uint64) *types.Event {
	return events.RewardFunded{
		Caller:   caller,
		Amount:   copyBigInt(amount),
		Rate:     copyBigInt(rate),
		FinishAt: finishAt,
	}.Event()
}

func durationUpdatedEvent(caller [20]byte, duration uint64) *types.Event {
	return events.RewardsDurationUpdated{Caller: caller, Duration: duration}.Event()
}
