package option

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVanillaPayoffs(t *testing.T) {
	cases := []struct {
		kind VanillaKind
		s    float64
		want float64
	}{
		{Call, 120, 20},
		{Call, 100, 0},
		{Call, 80, 0},
		{Put, 80, 20},
		{Put, 100, 0},
		{Put, 120, 0},
		{DigitalCall, 100.0001, 1},
		{DigitalCall, 100, 0},
		{DigitalPut, 99.9999, 1},
		{DigitalPut, 100, 0},
	}
	for _, tc := range cases {
		v, err := NewVanilla(tc.kind, 10, 100)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.Payoff(tc.s), "%s at %v", tc.kind, tc.s)
	}
}

func TestSpreadPayoffs(t *testing.T) {
	cases := []struct {
		kind SpreadKind
		s    float64
		want float64
	}{
		{DoubleDigital, 99, 0},
		{DoubleDigital, 100, 1},
		{DoubleDigital, 150, 1},
		{DoubleDigital, 200, 1},
		{DoubleDigital, 201, 0},
		{BearSpread, 50, 100},
		{BearSpread, 100, 100},
		{BearSpread, 150, 50},
		{BearSpread, 200, 0},
		{BearSpread, 250, 0},
		{BullSpread, 50, 0},
		{BullSpread, 100, 0},
		{BullSpread, 150, 50},
		{BullSpread, 200, 100},
		{BullSpread, 250, 100},
	}
	for _, tc := range cases {
		sp, err := NewSpread(tc.kind, 10, 100, 200)
		require.NoError(t, err)
		assert.Equal(t, tc.want, sp.Payoff(tc.s), "%s at %v", tc.kind, tc.s)
	}
}

func TestBearPlusBullIsConstant(t *testing.T) {
	bear, err := NewSpread(BearSpread, 5, 90, 110)
	require.NoError(t, err)
	bull, err := NewSpread(BullSpread, 5, 90, 110)
	require.NoError(t, err)
	for s := 0.0; s < 300; s += 0.5 {
		assert.InDelta(t, 20.0, bear.Payoff(s)+bull.Payoff(s), 1e-12)
	}
}

func TestPayoffTotalOverRealLine(t *testing.T) {
	contracts := []Contract{}
	for k := range vanillaNames {
		v, err := NewVanilla(k, 1, 10)
		require.NoError(t, err)
		contracts = append(contracts, v)
	}
	for k := range spreadNames {
		s, err := NewSpread(k, 1, 10, 20)
		require.NoError(t, err)
		contracts = append(contracts, s)
	}
	for _, c := range contracts {
		for _, x := range []float64{-1e300, -1, 0, 1e-300, 15, 1e300, math.Inf(1), math.Inf(-1)} {
			assert.False(t, math.IsNaN(c.Payoff(x)), "%s at %v", c, x)
		}
	}
}

func TestContractValidation(t *testing.T) {
	_, err := NewVanilla(Call, -1, 100)
	assert.True(t, errors.Is(err, ErrNegativeExpiry))
	assert.True(t, errors.Is(err, ErrInvalidContract))

	_, err = NewVanilla(VanillaKind(42), 1, 100)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = NewVanilla(Put, 1, math.NaN())
	assert.True(t, errors.Is(err, ErrInvalidStrike))

	_, err = NewSpread(BullSpread, 1, 200, 100)
	assert.True(t, errors.Is(err, ErrStrikeOrder))

	_, err = NewSpread(BullSpread, 1, 100, 100)
	assert.True(t, errors.Is(err, ErrStrikeOrder))

	_, err = NewSpread(SpreadKind(7), 1, 100, 200)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	v, err := NewVanilla(Call, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Expiry())
}

func TestParse(t *testing.T) {
	c, err := Parse("digital_put", 12, 95, 0)
	require.NoError(t, err)
	assert.Equal(t, "digital_put", c.Kind())
	assert.Equal(t, 12, c.Expiry())
	v, ok := c.(Vanilla)
	require.True(t, ok)
	assert.Equal(t, DigitalPut, v.Variant())
	assert.Equal(t, 95.0, v.Strike())

	c, err = Parse("bear_spread", 3, 100, 200)
	require.NoError(t, err)
	s, ok := c.(Spread)
	require.True(t, ok)
	assert.Equal(t, BearSpread, s.Variant())
	assert.Equal(t, "bear_spread(L=100, U=200, N=3)", s.String())

	_, err = Parse("bull_spread", 3, 200, 100)
	assert.True(t, errors.Is(err, ErrStrikeOrder))

	_, err = Parse("straddle", 3, 100, 0)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	assert.True(t, IsSpreadKind("double_digital"))
	assert.False(t, IsSpreadKind("call"))
}

func TestKindStrings(t *testing.T) {
	v, err := NewVanilla(Call, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "call(K=100, N=100)", v.String())
	assert.Equal(t, "vanilla(9)", VanillaKind(9).String())
	assert.Equal(t, "spread(9)", SpreadKind(9).String())

	for k, name := range vanillaNames {
		got, err := ParseVanillaKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	for k, name := range spreadNames {
		got, err := ParseSpreadKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
