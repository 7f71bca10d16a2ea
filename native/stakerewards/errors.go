package stakerewards

import "errors"

var (
	errNilState = errors.New("stakerewards: state not configured")
	errNilPool  = errors.New("stakerewards: pool not initialised")
)

var (
	ErrInvalidAmount             = errors.New("stakerewards: amount must be positive")
	ErrInvalidDuration           = errors.New("stakerewards: rewards duration must be positive")
	ErrInsufficientStake         = errors.New("stakerewards: withdraw amount exceeds staked balance")
	ErrZeroRewardRate            = errors.New("stakerewards: funding amount yields a zero reward rate")
	ErrInsufficientRewardBalance = errors.New("stakerewards: committed payout exceeds reward balance")
	ErrRewardWindowActive        = errors.New("stakerewards: rewards duration locked while window active")
	ErrNotAuthorized             = errors.New("stakerewards: caller is not the ledger owner")
	ErrTransferFailed            = errors.New("stakerewards: asset transfer failed")
)
