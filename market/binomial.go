package market

import (
	"fmt"
	"math"
)

// Binomial 单标的一期二叉树市场模型（CRR）。
// 构造后只读；零值不可用，必须通过 NewBinomial 创建。
type Binomial struct {
	spot     float64
	downTick float64
	upTick   float64
	rate     float64
}

// NewBinomial 校验参数并返回市场模型。
// spot: 当前标的价格
// downTick / upTick: 每期下跌 / 上涨幅度（例如 -0.01 / 0.01）
// rate: 每期无风险利率
func NewBinomial(spot, downTick, upTick, rate float64) (Binomial, error) {
	for _, v := range []float64{spot, downTick, upTick, rate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Binomial{}, fmt.Errorf("%w: non-finite parameter %v", ErrInvalidMarket, v)
		}
	}
	if spot <= 0 {
		return Binomial{}, fmt.Errorf("%w: %w (got %v)", ErrInvalidMarket, ErrInvalidSpot, spot)
	}
	if upTick <= downTick {
		return Binomial{}, fmt.Errorf("%w: %w (down=%v up=%v)", ErrInvalidMarket, ErrDegenerateMarket, downTick, upTick)
	}
	if 1+downTick <= 0 {
		return Binomial{}, fmt.Errorf("%w: %w (got %v)", ErrInvalidMarket, ErrInvalidTick, downTick)
	}
	if rate <= downTick || rate >= upTick {
		return Binomial{}, fmt.Errorf("%w: %w (down=%v rate=%v up=%v)", ErrInvalidMarket, ErrArbitrage, downTick, rate, upTick)
	}
	return Binomial{spot: spot, downTick: downTick, upTick: upTick, rate: rate}, nil
}

func (b Binomial) Spot() float64     { return b.spot }
func (b Binomial) DownTick() float64 { return b.downTick }
func (b Binomial) UpTick() float64   { return b.upTick }
func (b Binomial) Rate() float64     { return b.rate }

// UpProbability 风险中性测度下上涨一期的概率 q = (r-d)/(u-d)。
func (b Binomial) UpProbability() float64 {
	return (b.rate - b.downTick) / (b.upTick - b.downTick)
}

// NodePrice 返回经过 horizon 期、其中 ups 次上涨后的标的价格。
// 在对数空间累加收益率，horizon 很大时也不会逐期连乘放大误差。
// 极端 tick/horizon 组合下结果可能溢出为 +Inf 或下溢为 0。
func (b Binomial) NodePrice(horizon, ups int) float64 {
	upLog := float64(ups) * math.Log1p(b.upTick)
	downLog := float64(horizon-ups) * math.Log1p(b.downTick)
	return b.spot * math.Exp(upLog+downLog)
}

// String 便于日志与命令行展示。
func (b Binomial) String() string {
	return fmt.Sprintf("Binomial{spot: %g, downTick: %g, upTick: %g, rate: %g}", b.spot, b.downTick, b.upTick, b.rate)
}
