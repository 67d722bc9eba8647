// Package metrics provides Prometheus metrics for the pricer
package metrics

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config 指标命名空间
type Config struct {
	Namespace string
	Subsystem string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Namespace: "pricer",
		Subsystem: "crr",
	}
}

// Pricing 定价指标收集器，实现 pricing.Recorder
type Pricing struct {
	registry *prometheus.Registry

	contractsPriced *prometheus.CounterVec
	nonFinite       prometheus.Counter
	priceLatency    *prometheus.HistogramVec
	lastPrice       *prometheus.GaugeVec
	runs            prometheus.Counter
	runLatency      prometheus.Histogram
	runContracts    prometheus.Gauge
	configReloads   *prometheus.CounterVec
}

// New 创建独立 registry 上的收集器
func New(cfg Config) *Pricing {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Pricing{
		registry: reg,
		contractsPriced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "contracts_priced_total",
			Help:      "已定价合约数（按收益种类）",
		}, []string{"kind"}),
		nonFinite: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "non_finite_prices_total",
			Help:      "结果为 NaN/Inf 的定价次数",
		}),
		priceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "price_latency_seconds",
			Help:      "单个合约定价耗时（秒）",
			Buckets:   []float64{1e-6, 1e-5, 1e-4, 1e-3, 0.01, 0.1, 1},
		}, []string{"kind"}),
		lastPrice: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "last_price",
			Help:      "最近一次定价结果",
		}, []string{"kind", "expiry"}),
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "runs_total",
			Help:      "定价批次总数",
		}),
		runLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_latency_seconds",
			Help:      "整批定价耗时（秒）",
			Buckets:   prometheus.DefBuckets,
		}),
		runContracts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "run_contracts",
			Help:      "最近一批的合约数",
		}),
		configReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "config_reloads_total",
			Help:      "配置热更新次数（result=ok|rejected）",
		}, []string{"result"}),
	}
}

// ObservePricing 记录单个合约
func (p *Pricing) ObservePricing(kind string, expiry int, price float64, elapsed time.Duration) {
	p.contractsPriced.WithLabelValues(kind).Inc()
	p.priceLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
	if math.IsNaN(price) || math.IsInf(price, 0) {
		p.nonFinite.Inc()
		return
	}
	p.lastPrice.WithLabelValues(kind, strconv.Itoa(expiry)).Set(price)
}

// ObserveRun 记录整批定价
func (p *Pricing) ObserveRun(contracts int, elapsed time.Duration) {
	p.runs.Inc()
	p.runContracts.Set(float64(contracts))
	p.runLatency.Observe(elapsed.Seconds())
}

// ConfigReloaded 记录热更新结果
func (p *Pricing) ConfigReloaded(ok bool) {
	if ok {
		p.configReloads.WithLabelValues("ok").Inc()
		return
	}
	p.configReloads.WithLabelValues("rejected").Inc()
}

// Registry 暴露底层 registry，便于测试与额外注册
func (p *Pricing) Registry() *prometheus.Registry {
	return p.registry
}

// Handler 返回 /metrics 处理器
func (p *Pricing) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
