package option

import "fmt"

// SpreadKind 双行权价收益种类。
type SpreadKind int

const (
	DoubleDigital SpreadKind = iota
	BearSpread
	BullSpread
)

var spreadNames = map[SpreadKind]string{
	DoubleDigital: "double_digital",
	BearSpread:    "bear_spread",
	BullSpread:    "bull_spread",
}

func (k SpreadKind) String() string {
	if s, ok := spreadNames[k]; ok {
		return s
	}
	return fmt.Sprintf("spread(%d)", int(k))
}

// ParseSpreadKind 解析 double_digital / bear_spread / bull_spread。
func ParseSpreadKind(s string) (SpreadKind, error) {
	for k, name := range spreadNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Spread 行权价区间 [lower, upper] 的欧式期权，要求 lower < upper。
type Spread struct {
	kind   SpreadKind
	expiry int
	lower  float64
	upper  float64
}

func NewSpread(kind SpreadKind, expiry int, lower, upper float64) (Spread, error) {
	if _, ok := spreadNames[kind]; !ok {
		return Spread{}, fmt.Errorf("%w: %w %d", ErrInvalidContract, ErrUnknownKind, int(kind))
	}
	if err := checkExpiry(expiry); err != nil {
		return Spread{}, err
	}
	if err := checkStrike("lower", lower); err != nil {
		return Spread{}, err
	}
	if err := checkStrike("upper", upper); err != nil {
		return Spread{}, err
	}
	if lower >= upper {
		return Spread{}, fmt.Errorf("%w: %w (lower=%v upper=%v)", ErrInvalidContract, ErrStrikeOrder, lower, upper)
	}
	return Spread{kind: kind, expiry: expiry, lower: lower, upper: upper}, nil
}

func (s Spread) Expiry() int         { return s.expiry }
func (s Spread) Lower() float64      { return s.lower }
func (s Spread) Upper() float64      { return s.upper }
func (s Spread) Variant() SpreadKind { return s.kind }
func (s Spread) Kind() string        { return s.kind.String() }
func (Spread) sealed()               {}

// Payoff 分段收益，端点 lower/upper 归入区间内。
func (s Spread) Payoff(x float64) float64 {
	lo, hi := s.lower, s.upper
	switch s.kind {
	case DoubleDigital:
		if x < lo || x > hi {
			return 0
		}
		return 1
	case BearSpread:
		switch {
		case x < lo:
			return hi - lo
		case x > hi:
			return 0
		}
		return hi - x
	case BullSpread:
		switch {
		case x < lo:
			return 0
		case x > hi:
			return hi - lo
		}
		return x - lo
	}
	return 0
}

func (s Spread) String() string {
	return fmt.Sprintf("%s(L=%g, U=%g, N=%d)", s.kind, s.lower, s.upper, s.expiry)
}
