// Package option 定义欧式期权的收益函数（payoff）。
//
// 收益种类是封闭集合：4 种单行权价（Vanilla）与 3 种双行权价（Spread）。
// Contract 接口带有未导出方法，外部包无法新增实现。
package option

import (
	"fmt"
	"math"
)

// Contract 定价引擎需要的全部能力：到期期数与到期收益。
type Contract interface {
	// Expiry 到期前的离散期数，构造后不变。
	Expiry() int
	// Payoff 给定到期标的价格返回收益，对任意实数输入有定义。
	Payoff(underlying float64) float64
	// Kind 收益种类名称，与配置中的写法一致。
	Kind() string
	String() string

	sealed()
}

func checkExpiry(expiry int) error {
	if expiry < 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidContract, ErrNegativeExpiry, expiry)
	}
	return nil
}

func checkStrike(name string, k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return fmt.Errorf("%w: %s %w", ErrInvalidContract, name, ErrInvalidStrike)
	}
	return nil
}

// Parse 按种类名构造合约；spread 种类使用 lower/upper，vanilla 种类只使用 lower 作为行权价。
// 供配置层与命令行统一入口使用。
func Parse(kind string, expiry int, lower, upper float64) (Contract, error) {
	if vk, err := ParseVanillaKind(kind); err == nil {
		v, err := NewVanilla(vk, expiry, lower)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	if sk, err := ParseSpreadKind(kind); err == nil {
		s, err := NewSpread(sk, expiry, lower, upper)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %w %q", ErrInvalidContract, ErrUnknownKind, kind)
}

// IsSpreadKind 判断种类名是否需要两个行权价。
func IsSpreadKind(kind string) bool {
	_, err := ParseSpreadKind(kind)
	return err == nil
}
