package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"binomial-pricer/config"
	"binomial-pricer/infrastructure/logger"
	"binomial-pricer/market"
	"binomial-pricer/option"
	"binomial-pricer/pricing"
)

// 一次性定价：读取配置文件，或用命令行参数描述市场与合约，打印各合约价格。
// 不带 -config 和 -kind 时输出内置的 7 个示例合约。
func main() {
	cfgPath := flag.String("config", "", "配置文件路径（留空则使用命令行参数）")
	spot := flag.Float64("spot", 100, "标的现价")
	down := flag.Float64("down", -0.01, "每期下跌幅度")
	up := flag.Float64("up", 0.01, "每期上涨幅度")
	rate := flag.Float64("rate", 0.005, "每期无风险利率")
	kind := flag.String("kind", "", "合约种类：call/put/digital_call/digital_put/double_digital/bear_spread/bull_spread")
	expiry := flag.Int("expiry", 100, "到期期数")
	lower := flag.Float64("lower", 100, "行权价（spread 为下限）")
	upper := flag.Float64("upper", 200, "spread 行权价上限")
	workers := flag.Int("workers", 0, "并发定价 goroutine 数，0 表示 GOMAXPROCS")
	logLevel := flag.String("logLevel", "warn", "日志级别")
	flag.Parse()

	var (
		m    market.Binomial
		jobs []pricing.Job
		err  error
	)
	logCfg := logger.Config{Level: *logLevel, Outputs: []string{"stdout"}, Format: "console"}

	switch {
	case *cfgPath != "":
		cfg, err := config.LoadWithEnvOverrides(*cfgPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		if m, err = cfg.Market.Build(); err != nil {
			log.Fatalf("市场参数无效: %v", err)
		}
		if jobs, err = cfg.Jobs(); err != nil {
			log.Fatalf("合约参数无效: %v", err)
		}
		if *workers == 0 {
			*workers = cfg.Workers
		}
	default:
		if m, err = market.NewBinomial(*spot, *down, *up, *rate); err != nil {
			log.Fatalf("市场参数无效: %v", err)
		}
		if *kind != "" {
			c, err := option.Parse(*kind, *expiry, *lower, *upper)
			if err != nil {
				log.Fatalf("合约参数无效: %v", err)
			}
			jobs = []pricing.Job{{Name: *kind, Contract: c}}
		} else if jobs, err = demoJobs(*expiry, *lower, *upper); err != nil {
			log.Fatalf("合约参数无效: %v", err)
		}
	}

	lg, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	svc := pricing.NewService(lg, nil, *workers)
	quotes, err := svc.Run(context.Background(), m, jobs)
	if err != nil {
		lg.LogError(err, map[string]interface{}{"action": "price"})
		os.Exit(1)
	}

	fmt.Println(m)
	for _, q := range quotes {
		fmt.Printf("%-24s %9.5f\n", q.Name, q.Price)
	}
}

// demoJobs 单行权价合约：call/digital_call 用 lower，put/digital_put 用 upper；spread 用 [lower, upper]。
func demoJobs(expiry int, lower, upper float64) ([]pricing.Job, error) {
	specs := []struct {
		name string
		kind string
		lo   float64
	}{
		{"Call", "call", lower},
		{"Put", "put", upper},
		{"Digital Call", "digital_call", lower},
		{"Digital Put", "digital_put", upper},
		{"Double Digital Option", "double_digital", lower},
		{"Bear Spread Option", "bear_spread", lower},
		{"Bull Spread Option", "bull_spread", lower},
	}
	jobs := make([]pricing.Job, 0, len(specs))
	for _, s := range specs {
		c, err := option.Parse(s.kind, expiry, s.lo, upper)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		jobs = append(jobs, pricing.Job{Name: s.name, Contract: c})
	}
	return jobs, nil
}
