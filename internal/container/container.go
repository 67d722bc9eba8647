package container

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"binomial-pricer/config"
	"binomial-pricer/infrastructure/logger"
	"binomial-pricer/metrics"
	"binomial-pricer/pricing"
	"binomial-pricer/stream"
)

// Container 依赖注入容器，管理定价服务各组件的生命周期
type Container struct {
	// 配置
	cfgPath string
	cfg     config.AppConfig

	// 基础设施
	logger  *logger.Logger
	metrics *metrics.Pricing

	// 核心服务
	pricer *pricing.Service
	hub    *stream.Hub

	// HTTP服务器
	metricsServer *httpServerComponent
	streamServer  *httpServerComponent

	// 生命周期管理
	lifecycle *LifecycleManager

	seq      atomic.Uint64
	mu       sync.RWMutex
	latest   []pricing.Quote
	onReload func(phase ReloadPhase)
}

// ReloadPhase 热更新阶段，供 systemd notify 等外部钩子使用
type ReloadPhase int

const (
	ReloadStarted ReloadPhase = iota
	ReloadFinished
)

// New 创建新的Container实例
func New(configPath string) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	return &Container{
		cfgPath:   configPath,
		cfg:       cfg,
		lifecycle: NewLifecycleManager(),
	}, nil
}

// OnReload 注册热更新钩子，需在 Start 之前调用
func (c *Container) OnReload(fn func(phase ReloadPhase)) {
	c.onReload = fn
}

// Build 构建所有组件
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}
	if err := c.buildCoreServices(); err != nil {
		return fmt.Errorf("build core services failed: %w", err)
	}

	c.logger.Info("container built successfully")
	return nil
}

func (c *Container) buildInfrastructure() error {
	var err error
	c.logger, err = logger.New(c.cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}
	c.logger = c.logger.WithFields(map[string]interface{}{"env": c.cfg.Env})
	c.metrics = metrics.New(metrics.DefaultConfig())

	if c.cfg.Metrics.Addr != "" {
		c.metricsServer = &httpServerComponent{
			name:    "metrics_server",
			handler: c.metrics.Handler(),
			addr:    c.cfg.Metrics.Addr,
			logger:  c.logger,
		}
		c.lifecycle.Register(c.metricsServer)
	}
	return nil
}

func (c *Container) buildCoreServices() error {
	c.pricer = pricing.NewService(c.logger, c.metrics, c.cfg.Workers)
	c.hub = stream.NewHub(c.logger)

	if c.cfg.Stream.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle(c.cfg.Stream.Path, c.hub)
		c.streamServer = &httpServerComponent{
			name:    "stream_server",
			handler: mux,
			addr:    c.cfg.Stream.Addr,
			logger:  c.logger,
		}
		c.lifecycle.Register(c.streamServer)
	}

	w, err := config.NewWatcher(c.cfgPath, 500*time.Millisecond)
	if err != nil {
		return err
	}
	w.OnError(func(err error) {
		c.metrics.ConfigReloaded(false)
		c.logger.LogConfig("config_reject", map[string]interface{}{"path": w.Path(), "error": err.Error()})
	})
	c.lifecycle.Register(&watcherComponent{watcher: w, onUpdate: c.applyConfig})
	return nil
}

// Start 启动组件并完成首轮定价
func (c *Container) Start(ctx context.Context) error {
	c.logger.Info("starting container...")

	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	c.mu.RLock()
	cfg := c.cfg
	c.mu.RUnlock()
	if err := c.Reprice(ctx, cfg); err != nil {
		return fmt.Errorf("initial pricing failed: %w", err)
	}

	c.logger.Info("container started")
	return nil
}

// Reprice 按给定配置重新定价并推送快照
func (c *Container) Reprice(ctx context.Context, cfg config.AppConfig) error {
	m, err := cfg.Market.Build()
	if err != nil {
		return err
	}
	jobs, err := cfg.Jobs()
	if err != nil {
		return err
	}
	quotes, err := c.pricer.Run(ctx, m, jobs)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cfg = cfg
	c.latest = quotes
	c.mu.Unlock()

	seq := c.seq.Add(1)
	if err := c.hub.Publish(stream.NewSnapshot(seq, m, quotes)); err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "publish", "seq": seq})
	}
	return nil
}

// applyConfig 热更新回调；仅市场与合约参数即时生效
func (c *Container) applyConfig(cfg config.AppConfig) {
	if c.onReload != nil {
		c.onReload(ReloadStarted)
		defer c.onReload(ReloadFinished)
	}

	c.mu.RLock()
	prev := c.cfg
	c.mu.RUnlock()
	if prev.Metrics != cfg.Metrics || prev.Stream != cfg.Stream || prev.Log.Level != cfg.Log.Level {
		c.logger.Warn("metrics/stream/log changes require a restart; applying market and contracts only")
	}

	if err := c.Reprice(context.Background(), cfg); err != nil {
		c.metrics.ConfigReloaded(false)
		c.logger.LogConfig("config_reject", map[string]interface{}{"path": c.cfgPath, "error": err.Error()})
		return
	}
	c.metrics.ConfigReloaded(true)
	c.logger.LogConfig("config_reload", map[string]interface{}{"path": c.cfgPath, "contracts": len(cfg.Contracts)})
}

// Latest 最近一次定价结果
func (c *Container) Latest() []pricing.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]pricing.Quote, len(c.latest))
	copy(out, c.latest)
	return out
}

// Seq 已发布的快照数
func (c *Container) Seq() uint64 {
	return c.seq.Load()
}

// MetricsAddr / StreamAddr 返回实际监听地址，未启用时为空
func (c *Container) MetricsAddr() string {
	if c.metricsServer == nil {
		return ""
	}
	return c.metricsServer.Addr()
}

func (c *Container) StreamAddr() string {
	if c.streamServer == nil {
		return ""
	}
	return c.streamServer.Addr()
}

// Logger 供 main 复用
func (c *Container) Logger() *logger.Logger {
	return c.logger
}

func (c *Container) Stop() error {
	c.logger.Info("stopping container...")

	c.hub.Close()
	if err := c.lifecycle.StopAll(); err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
		return err
	}

	c.logger.Info("container stopped")
	_ = c.logger.Close()
	return nil
}

func (c *Container) HealthCheck() error {
	return c.lifecycle.CheckHealth()
}
