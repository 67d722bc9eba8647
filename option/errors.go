package option

import "errors"

var (
	ErrInvalidContract = errors.New("invalid contract")
	ErrNegativeExpiry  = errors.New("expiry must be >= 0")
	ErrInvalidStrike   = errors.New("strike must be finite")
	ErrStrikeOrder     = errors.New("lower strike must be < upper strike")
	ErrUnknownKind     = errors.New("unknown payoff kind")
)
