package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"binomial-pricer/infrastructure/logger"
)

// AppConfig holds the pricer runtime configuration.
type AppConfig struct {
	Env       string           `yaml:"env"`
	Market    MarketConfig     `yaml:"market"`
	Contracts []ContractConfig `yaml:"contracts"`
	Log       logger.Config    `yaml:"log"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Stream    StreamConfig     `yaml:"stream"`
	Workers   int              `yaml:"workers"`
}

// MarketConfig 二叉树市场参数。
type MarketConfig struct {
	Spot     float64 `yaml:"spot"`
	DownTick float64 `yaml:"downTick"`
	UpTick   float64 `yaml:"upTick"`
	Rate     float64 `yaml:"rate"`
}

// ContractConfig 单个合约。vanilla 种类使用 strike，spread 种类使用 lower/upper。
type ContractConfig struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"`
	Expiry int     `yaml:"expiry"`
	Strike float64 `yaml:"strike"`
	Lower  float64 `yaml:"lower"`
	Upper  float64 `yaml:"upper"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // 留空则关闭
}

type StreamConfig struct {
	Addr string `yaml:"addr"` // 留空则关闭
	Path string `yaml:"path"`
}

// Load reads YAML config from path and applies validation.
func Load(path string) (AppConfig, error) {
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides deployment fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := parse(path)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

func parse(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Stream.Addr != "" && cfg.Stream.Path == "" {
		cfg.Stream.Path = "/ws"
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("PRICER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PRICER_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("PRICER_STREAM_ADDR"); v != "" {
		cfg.Stream.Addr = v
		if cfg.Stream.Path == "" {
			cfg.Stream.Path = "/ws"
		}
	}
	if v := os.Getenv("PRICER_SPOT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICER_SPOT: %w", err)
		}
		cfg.Market.Spot = f
	}
	if v := os.Getenv("PRICER_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PRICER_RATE: %w", err)
		}
		cfg.Market.Rate = f
	}
	return nil
}
