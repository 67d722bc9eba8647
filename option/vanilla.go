package option

import "fmt"

// VanillaKind 单行权价收益种类。
type VanillaKind int

const (
	Call VanillaKind = iota
	Put
	DigitalCall
	DigitalPut
)

var vanillaNames = map[VanillaKind]string{
	Call:        "call",
	Put:         "put",
	DigitalCall: "digital_call",
	DigitalPut:  "digital_put",
}

func (k VanillaKind) String() string {
	if s, ok := vanillaNames[k]; ok {
		return s
	}
	return fmt.Sprintf("vanilla(%d)", int(k))
}

// ParseVanillaKind 解析 call / put / digital_call / digital_put。
func ParseVanillaKind(s string) (VanillaKind, error) {
	for k, name := range vanillaNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Vanilla 单行权价欧式期权。
type Vanilla struct {
	kind   VanillaKind
	expiry int
	strike float64
}

func NewVanilla(kind VanillaKind, expiry int, strike float64) (Vanilla, error) {
	if _, ok := vanillaNames[kind]; !ok {
		return Vanilla{}, fmt.Errorf("%w: %w %d", ErrInvalidContract, ErrUnknownKind, int(kind))
	}
	if err := checkExpiry(expiry); err != nil {
		return Vanilla{}, err
	}
	if err := checkStrike("strike", strike); err != nil {
		return Vanilla{}, err
	}
	return Vanilla{kind: kind, expiry: expiry, strike: strike}, nil
}

func (v Vanilla) Expiry() int         { return v.expiry }
func (v Vanilla) Strike() float64     { return v.strike }
func (v Vanilla) Variant() VanillaKind { return v.kind }
func (v Vanilla) Kind() string        { return v.kind.String() }
func (Vanilla) sealed()               {}

func (v Vanilla) Payoff(s float64) float64 {
	k := v.strike
	switch v.kind {
	case Call:
		if s > k {
			return s - k
		}
	case Put:
		if k > s {
			return k - s
		}
	case DigitalCall:
		if s > k {
			return 1
		}
	case DigitalPut:
		if s < k {
			return 1
		}
	}
	return 0
}

func (v Vanilla) String() string {
	return fmt.Sprintf("%s(K=%g, N=%d)", v.kind, v.strike, v.expiry)
}
