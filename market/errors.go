package market

import "errors"

var (
	ErrInvalidMarket    = errors.New("invalid market parameters")
	ErrInvalidSpot      = errors.New("spot must be > 0")
	ErrDegenerateMarket = errors.New("upTick must be > downTick")
	ErrInvalidTick      = errors.New("1+downTick must be > 0")
	ErrArbitrage        = errors.New("rate must lie strictly between downTick and upTick")
)
