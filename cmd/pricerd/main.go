package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"binomial-pricer/config"
	"binomial-pricer/internal/container"
)

// 常驻服务：按配置定价，暴露 /metrics 与 WebSocket 推送，配置文件变化或 SIGHUP 时重新定价。
// 以 systemd Type=notify 运行时上报 READY/RELOADING/STOPPING 并喂看门狗。
func main() {
	cfgPath := flag.String("config", "configs/pricer.yaml", "配置文件路径")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	c.OnReload(func(phase container.ReloadPhase) {
		switch phase {
		case container.ReloadStarted:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyReloading)
		case container.ReloadFinished:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
		}
	})
	if err := c.Build(); err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	lg := c.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		lg.LogError(err, map[string]interface{}{"action": "start"})
		os.Exit(1)
	}
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		lg.LogError(err, map[string]interface{}{"action": "sd_notify"})
	} else if ok {
		lg.Info("systemd notified: ready")
	}
	go watchdogLoop(ctx, c)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		if sig == syscall.SIGHUP {
			reload(ctx, c, *cfgPath)
			continue
		}
		lg.Info("received signal, shutting down: " + sig.String())
		break
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()
	if err := c.Stop(); err != nil {
		os.Exit(1)
	}
}

func reload(ctx context.Context, c *container.Container, path string) {
	lg := c.Logger()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReloading)
	defer daemon.SdNotify(false, daemon.SdNotifyReady)

	cfg, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		lg.LogConfig("config_reject", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	if err := c.Reprice(ctx, cfg); err != nil {
		lg.LogConfig("config_reject", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	lg.LogConfig("config_reload", map[string]interface{}{"path": path, "contracts": len(cfg.Contracts)})
}

// watchdogLoop 健康检查通过时按 WATCHDOG_USEC 的一半周期喂狗。
func watchdogLoop(ctx context.Context, c *container.Container) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.HealthCheck(); err != nil {
				c.Logger().LogError(err, map[string]interface{}{"action": "watchdog"})
				continue
			}
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
