package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"binomial-pricer/infrastructure/logger"
	"binomial-pricer/market"
)

// Recorder 接收定价指标，metrics 包提供 Prometheus 实现。
type Recorder interface {
	ObservePricing(kind string, expiry int, price float64, elapsed time.Duration)
	ObserveRun(contracts int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObservePricing(string, int, float64, time.Duration) {}
func (nopRecorder) ObserveRun(int, time.Duration)                      {}

// Quote 单个合约的定价结果。
type Quote struct {
	Name     string        `json:"name"`
	Kind     string        `json:"kind"`
	Contract string        `json:"contract"`
	Expiry   int           `json:"expiry"`
	Price    float64       `json:"price"`
	Elapsed  time.Duration `json:"elapsedNs"`
}

// Rounded 五位小数的定点值，用于展示与推送。非有限值返回 false。
func (q Quote) Rounded() (decimal.Decimal, bool) {
	if math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(q.Price).Round(5), true
}

// Service 在 CRR 之外加上日志与指标。
type Service struct {
	log     *logger.Logger
	rec     Recorder
	workers int
}

// NewService log 或 rec 为 nil 时使用空实现。
func NewService(log *logger.Logger, rec Recorder, workers int) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{log: log, rec: rec, workers: workers}
}

// Run 在同一市场下对全部 jobs 定价，返回顺序与 jobs 一致。
// ctx 取消后尚未开始的合约不再计算，返回 ctx.Err()。
func (s *Service) Run(ctx context.Context, m market.Binomial, jobs []Job) ([]Quote, error) {
	start := time.Now()
	s.log.LogMarket(map[string]interface{}{
		"spot":          m.Spot(),
		"downTick":      m.DownTick(),
		"upTick":        m.UpTick(),
		"rate":          m.Rate(),
		"upProbability": m.UpProbability(),
	})

	quotes := make([]Quote, len(jobs))
	forEach(len(jobs), s.workers, func(i int) {
		if ctx.Err() != nil {
			return
		}
		c := jobs[i].Contract
		t0 := time.Now()
		p := CRR(m, c)
		quotes[i] = Quote{
			Name:     jobs[i].Name,
			Kind:     c.Kind(),
			Contract: c.String(),
			Expiry:   c.Expiry(),
			Price:    p,
			Elapsed:  time.Since(t0),
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pricing run aborted: %w", err)
	}

	for _, q := range quotes {
		s.rec.ObservePricing(q.Kind, q.Expiry, q.Price, q.Elapsed)
		fields := map[string]interface{}{
			"contract":  q.Name,
			"kind":      q.Kind,
			"expiry":    q.Expiry,
			"price":     q.Price,
			"elapsedUs": q.Elapsed.Microseconds(),
		}
		if _, ok := q.Rounded(); !ok {
			// 到期层价格指数溢出/下溢，属于数值精度边界
			s.log.WithFields(fields).Warn("non-finite price")
			continue
		}
		s.log.LogPricing(fields)
	}
	s.rec.ObserveRun(len(jobs), time.Since(start))
	return quotes, nil
}
