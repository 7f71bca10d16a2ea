package stakerewards

import "math/big"

// Pool captures the global reward-accounting state of the ledger.
type Pool struct {
	TotalStaked          *big.Int `json:"totalStaked"`
	RewardPerTokenStored *big.Int `json:"rewardPerTokenStored"`
	RewardRate           *big.Int `json:"rewardRate"`
	RewardsDuration      uint64   `json:"rewardsDuration"`
	FinishAt             uint64   `json:"finishAt"`
	LastUpdateTime       uint64   `json:"lastUpdateTime"`
}

// NewPool initialises an empty pool emitting over windows of the supplied
// length.
func NewPool(duration uint64) *Pool {
	return &Pool{
		TotalStaked:          big.NewInt(0),
		RewardPerTokenStored: big.NewInt(0),
		RewardRate:           big.NewInt(0),
		RewardsDuration:      duration,
	}
}

// Clone returns a deep copy of the pool state.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return NewPool(0)
	}
	return &Pool{
		TotalStaked:          copyBigInt(p.TotalStaked),
		RewardPerTokenStored: copyBigInt(p.RewardPerTokenStored),
		RewardRate:           copyBigInt(p.RewardRate),
		RewardsDuration:      p.RewardsDuration,
		FinishAt:             p.FinishAt,
		LastUpdateTime:       p.LastUpdateTime,
	}
}

func (p *Pool) normalize() {
	if p.TotalStaked == nil {
		p.TotalStaked = big.NewInt(0)
	}
	if p.RewardPerTokenStored == nil {
		p.RewardPerTokenStored = big.NewInt(0)
	}
	if p.RewardRate == nil {
		p.RewardRate = big.NewInt(0)
	}
}

// Position captures the per-account stake and settlement snapshot.
type Position struct {
	Account            [20]byte `json:"account"`
	Staked             *big.Int `json:"staked"`
	RewardPerTokenPaid *big.Int `json:"rewardPerTokenPaid"`
	RewardsOwed        *big.Int `json:"rewardsOwed"`
}

// NewPosition initialises an empty position for the account. A zero position
// is indistinguishable from one that was never touched.
func NewPosition(account [20]byte) *Position {
	return &Position{
		Account:            account,
		Staked:             big.NewInt(0),
		RewardPerTokenPaid: big.NewInt(0),
		RewardsOwed:        big.NewInt(0),
	}
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	return &Position{
		Account:            p.Account,
		Staked:             copyBigInt(p.Staked),
		RewardPerTokenPaid: copyBigInt(p.RewardPerTokenPaid),
		RewardsOwed:        copyBigInt(p.RewardsOwed),
	}
}

func (p *Position) normalize() {
	if p.Staked == nil {
		p.Staked = big.NewInt(0)
	}
	if p.RewardPerTokenPaid == nil {
		p.RewardPerTokenPaid = big.NewInt(0)
	}
	if p.RewardsOwed == nil {
		p.RewardsOwed = big.NewInt(0)
	}
}

func copyBigInt(value *big.Int) *big.Int {
	if value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(value)
}
