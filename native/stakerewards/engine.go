package stakerewards

import (
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"stakeledger/core/types"
	nativecommon "stakeledger/native/common"
	"stakeledger/native/token"
	"stakeledger/observability/metrics"
)

const moduleName = "stakerewards"

// precision is the fixed-point scale applied to the reward-per-token
// accumulator and the reward rate.
const precision = int64(1_000_000_000_000_000_000)

var precisionBig = big.NewInt(precision)

// PrecisionUnit returns the scaling factor applied to the accumulator.
func PrecisionUnit() *big.Int {
	return new(big.Int).Set(precisionBig)
}

// ledgerState describes the minimal functionality the reward ledger needs
// from the surrounding state implementation.
type ledgerState interface {
	RewardPool() (*Pool, error)
	PutRewardPool(pool *Pool) error
	Position(account [20]byte) (*Position, error)
	PutPosition(position *Position) error
	AppendEvent(evt *types.Event)
}

// Engine owns the time-weighted reward-distribution accounting: stake
// balances, the global reward-per-token accumulator, emission window
// bookkeeping, and per-account settlement snapshots. Asset custody moves
// through the two token collaborators; the engine address is the custody
// account.
type Engine struct {
	state        ledgerState
	stakingToken token.Token
	rewardsToken token.Token
	ledgerAddr   [20]byte
	owner        [20]byte
	pauses       nativecommon.PauseView
	telemetry    *metrics.StakeRewardsMetrics
	logger       *slog.Logger
	nowFn        func() uint64
}

// NewEngine constructs a reward ledger engine. The ledger address is the
// custody account for staked and reward assets; the owner gates the
// administrative operations.
func NewEngine(ledgerAddr, owner [20]byte, staking, rewards token.Token) *Engine {
	return &Engine{
		stakingToken: staking,
		rewardsToken: rewards,
		ledgerAddr:   ledgerAddr,
		owner:        owner,
		telemetry:    metrics.StakeRewards(),
		nowFn:        func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state ledgerState) { e.state = state }

// SetPauses installs the pause switches consulted before every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetLogger attaches a structured logger for administrative operations.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if e == nil {
		return
	}
	e.logger = logger
}

// SetNowFunc overrides the clock used for settlement. Primarily leveraged in
// tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() uint64) {
	if e == nil {
		return
	}
	if now == nil {
		e.nowFn = func() uint64 { return uint64(time.Now().Unix()) }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	return e.nowFn()
}

// lastApplicable caps the supplied time at the end of the emission window.
func lastApplicable(pool *Pool, now uint64) uint64 {
	if now < pool.FinishAt {
		return now
	}
	return pool.FinishAt
}

// rewardPerToken computes the value the accumulator would settle to at the
// supplied time without writing it back. The accumulator is frozen while no
// stake exists: funded-but-unstaked intervals are not banked.
func rewardPerToken(pool *Pool, now uint64) *big.Int {
	stored := copyBigInt(pool.RewardPerTokenStored)
	if pool.TotalStaked == nil || pool.TotalStaked.Sign() == 0 {
		return stored
	}
	applicable := lastApplicable(pool, now)
	if applicable <= pool.LastUpdateTime {
		return stored
	}
	elapsed := new(big.Int).SetUint64(applicable - pool.LastUpdateTime)
	growth := new(big.Int).Mul(elapsed, pool.RewardRate)
	growth.Quo(growth, pool.TotalStaked)
	return stored.Add(stored, growth)
}

// settlePool folds elapsed emission into the global accumulator. Must run
// before any mutator touches stake, rate, or window fields.
func (e *Engine) settlePool(pool *Pool) {
	now := e.now()
	pool.RewardPerTokenStored = rewardPerToken(pool, now)
	if applicable := lastApplicable(pool, now); applicable > pool.LastUpdateTime {
		pool.LastUpdateTime = applicable
	}
}

// settlePosition folds accumulator growth since the last snapshot into the
// account's owed balance and refreshes the snapshot.
func settlePosition(pool *Pool, position *Position) {
	delta := new(big.Int).Sub(pool.RewardPerTokenStored, position.RewardPerTokenPaid)
	if delta.Sign() > 0 && position.Staked.Sign() > 0 {
		accrued := new(big.Int).Mul(position.Staked, delta)
		accrued.Quo(accrued, precisionBig)
		position.RewardsOwed = new(big.Int).Add(position.RewardsOwed, accrued)
	}
	position.RewardPerTokenPaid = copyBigInt(pool.RewardPerTokenStored)
}

// Stake pulls the pre-approved amount of the staking asset from the account
// into ledger custody and credits the stake balance.
func (e *Engine) Stake(account [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		e.rejected("stake")
		return ErrInvalidAmount
	}

	pool, position, err := e.loadPoolAndPosition(account)
	if err != nil {
		return err
	}
	prevPool, prevPosition := pool.Clone(), position.Clone()

	e.settlePool(pool)
	settlePosition(pool, position)

	position.Staked = new(big.Int).Add(position.Staked, amount)
	pool.TotalStaked = new(big.Int).Add(pool.TotalStaked, amount)

	if err := e.persist(pool, position, prevPool); err != nil {
		return err
	}
	if err := e.stakingToken.TransferFrom(account, e.ledgerAddr, amount); err != nil {
		e.restore(prevPool, prevPosition)
		e.rejected("stake")
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	e.state.AppendEvent(stakeDepositedEvent(account, amount, pool.TotalStaked))
	e.committed("stake")
	e.publishTotals(pool)
	return nil
}

// Withdraw debits the stake balance and returns the amount of the staking
// asset to the account. Accounting is persisted before the outbound transfer
// so a re-entering token cannot observe stale balances.
func (e *Engine) Withdraw(account [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		e.rejected("withdraw")
		return ErrInvalidAmount
	}

	pool, position, err := e.loadPoolAndPosition(account)
	if err != nil {
		return err
	}
	if position.Staked.Cmp(amount) < 0 {
		e.rejected("withdraw")
		return ErrInsufficientStake
	}
	prevPool, prevPosition := pool.Clone(), position.Clone()

	e.settlePool(pool)
	settlePosition(pool, position)

	position.Staked = new(big.Int).Sub(position.Staked, amount)
	pool.TotalStaked = new(big.Int).Sub(pool.TotalStaked, amount)

	if err := e.persist(pool, position, prevPool); err != nil {
		return err
	}
	if err := e.stakingToken.Transfer(account, amount); err != nil {
		e.restore(prevPool, prevPosition)
		e.rejected("withdraw")
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	e.state.AppendEvent(stakeWithdrawnEvent(account, amount, pool.TotalStaked))
	e.committed("withdraw")
	e.publishTotals(pool)
	return nil
}

// Claim settles the account and pays out its accrued rewards. Claiming a
// zero accrual is a successful no-op. The paid amount is returned.
func (e *Engine) Claim(account [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}

	pool, position, err := e.loadPoolAndPosition(account)
	if err != nil {
		return nil, err
	}
	prevPool, prevPosition := pool.Clone(), position.Clone()

	e.settlePool(pool)
	settlePosition(pool, position)

	reward := copyBigInt(position.RewardsOwed)
	position.RewardsOwed = big.NewInt(0)

	if err := e.persist(pool, position, prevPool); err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if err := e.rewardsToken.Transfer(account, reward); err != nil {
		e.restore(prevPool, prevPosition)
		e.rejected("claim")
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	e.state.AppendEvent(rewardPaidEvent(account, reward))
	e.committed("claim")
	if e.telemetry != nil {
		paid, _ := new(big.Float).SetInt(reward).Float64()
		e.telemetry.AddRewardsPaid(paid)
	}
	return reward, nil
}

// FundRewards starts (or tops up) the emission window. A still-running
// window's unpaid remainder is blended with the new amount and re-spread
// over a fresh full duration. The reward asset must already sit in ledger
// custody; the solvency check never promises more than the ledger holds.
func (e *Engine) FundRewards(caller [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if caller != e.owner {
		e.rejected("fund")
		return ErrNotAuthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		e.rejected("fund")
		return ErrInvalidAmount
	}

	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if pool.RewardsDuration == 0 {
		e.rejected("fund")
		return ErrInvalidDuration
	}

	e.settlePool(pool)

	now := e.now()
	duration := new(big.Int).SetUint64(pool.RewardsDuration)
	rate := new(big.Int).Mul(amount, precisionBig)
	if now < pool.FinishAt {
		remaining := new(big.Int).SetUint64(pool.FinishAt - now)
		remaining.Mul(remaining, pool.RewardRate)
		rate.Add(rate, remaining)
	}
	rate.Quo(rate, duration)
	if rate.Sign() == 0 {
		e.rejected("fund")
		return ErrZeroRewardRate
	}

	committed := new(big.Int).Mul(rate, duration)
	committed.Quo(committed, precisionBig)
	if committed.Cmp(e.rewardsToken.BalanceOf(e.ledgerAddr)) > 0 {
		e.rejected("fund")
		return ErrInsufficientRewardBalance
	}

	pool.RewardRate = rate
	pool.FinishAt = now + pool.RewardsDuration
	pool.LastUpdateTime = now

	if err := e.state.PutRewardPool(pool); err != nil {
		return err
	}

	e.state.AppendEvent(rewardFundedEvent(caller, amount, rate, pool.FinishAt))
	e.committed("fund")
	if e.telemetry != nil {
		scaled, _ := new(big.Float).SetInt(rate).Float64()
		e.telemetry.SetRewardRate(scaled)
	}
	if e.logger != nil {
		e.logger.Info("reward window funded",
			"amount", amount.String(),
			"rate", rate.String(),
			"finishAt", pool.FinishAt,
		)
	}
	return nil
}

// SetRewardsDuration changes the emission window length. The cadence is
// locked while a window is running.
func (e *Engine) SetRewardsDuration(caller [20]byte, duration uint64) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if caller != e.owner {
		e.rejected("setDuration")
		return ErrNotAuthorized
	}
	if duration == 0 {
		e.rejected("setDuration")
		return ErrInvalidDuration
	}

	pool, err := e.loadPool()
	if err != nil {
		return err
	}
	if e.now() < pool.FinishAt {
		e.rejected("setDuration")
		return ErrRewardWindowActive
	}

	pool.RewardsDuration = duration
	if err := e.state.PutRewardPool(pool); err != nil {
		return err
	}

	e.state.AppendEvent(durationUpdatedEvent(caller, duration))
	e.committed("setDuration")
	if e.logger != nil {
		e.logger.Info("rewards duration updated", "duration", duration)
	}
	return nil
}

// LastTimeRewardApplicable returns min(now, finishAt) for the current window.
func (e *Engine) LastTimeRewardApplicable() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	pool, err := e.loadPool()
	if err != nil {
		return 0, err
	}
	return lastApplicable(pool, e.now()), nil
}

// RewardPerToken returns the value the accumulator would settle to right now.
func (e *Engine) RewardPerToken() (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return rewardPerToken(pool, e.now()), nil
}

// Earned returns the account's settled-plus-pending reward accrual without
// writing state.
func (e *Engine) Earned(account [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, position, err := e.loadPoolAndPosition(account)
	if err != nil {
		return nil, err
	}
	perToken := rewardPerToken(pool, e.now())
	delta := new(big.Int).Sub(perToken, position.RewardPerTokenPaid)
	earned := copyBigInt(position.RewardsOwed)
	if delta.Sign() > 0 && position.Staked.Sign() > 0 {
		pending := new(big.Int).Mul(position.Staked, delta)
		pending.Quo(pending, precisionBig)
		earned.Add(earned, pending)
	}
	return earned, nil
}

// PoolState returns a copy of the global pool record.
func (e *Engine) PoolState() (*Pool, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	pool, err := e.loadPool()
	if err != nil {
		return nil, err
	}
	return pool.Clone(), nil
}

// PositionOf returns a copy of the account's position record.
func (e *Engine) PositionOf(account [20]byte) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	_, position, err := e.loadPoolAndPosition(account)
	if err != nil {
		return nil, err
	}
	return position.Clone(), nil
}

func (e *Engine) loadPool() (*Pool, error) {
	pool, err := e.state.RewardPool()
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errNilPool
	}
	// Work on a copy: nothing reaches the state layer until persist runs, so
	// a failed check leaves the stored record untouched even when the state
	// implementation hands out aliased pointers.
	return pool.Clone(), nil
}

func (e *Engine) loadPoolAndPosition(account [20]byte) (*Pool, *Position, error) {
	pool, err := e.loadPool()
	if err != nil {
		return nil, nil, err
	}
	position, err := e.state.Position(account)
	if err != nil {
		return nil, nil, err
	}
	if position == nil {
		position = NewPosition(account)
	} else {
		position = position.Clone()
		position.normalize()
	}
	return pool, position, nil
}

// persist writes the mutated pool and position records. A failed position
// write rolls the pool back to its pre-call snapshot so totalStaked never
// diverges from the position sum.
func (e *Engine) persist(pool *Pool, position *Position, prevPool *Pool) error {
	if err := e.state.PutRewardPool(pool); err != nil {
		return err
	}
	if err := e.state.PutPosition(position); err != nil {
		e.restore(prevPool, nil)
		return err
	}
	return nil
}

// restore re-persists the pre-call snapshots after a failed outbound
// transfer or a partial write so no half-applied mutation stays observable.
func (e *Engine) restore(pool *Pool, position *Position) {
	if err := e.state.PutRewardPool(pool); err != nil && e.logger != nil {
		e.logger.Error("restore pool snapshot failed", "err", err)
	}
	if position != nil {
		if err := e.state.PutPosition(position); err != nil && e.logger != nil {
			e.logger.Error("restore position snapshot failed", "err", err)
		}
	}
}

func (e *Engine) committed(op string) {
	if e.telemetry != nil {
		e.telemetry.ObserveOperation(op)
	}
}

func (e *Engine) rejected(op string) {
	if e.telemetry != nil {
		e.telemetry.ObserveRejection(op)
	}
}

func (e *Engine) publishTotals(pool *Pool) {
	if e.telemetry == nil || pool == nil || pool.TotalStaked == nil {
		return
	}
	total, _ := new(big.Float).SetInt(pool.TotalStaked).Float64()
	e.telemetry.SetTotalStaked(total)
}
