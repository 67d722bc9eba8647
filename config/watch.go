package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 基于 fsnotify 监听配置文件，文件变化后重新加载并校验。
// 监听的是所在目录，编辑器"写临时文件再 rename"的保存方式也能触发。
type Watcher struct {
	path     string
	cooldown time.Duration
	fw       *fsnotify.Watcher

	mu         sync.Mutex
	lastReload time.Time
	onError    func(error)
	closeOnce  sync.Once
}

// NewWatcher 创建并注册监听；返回后文件变化即可被捕获。
// cooldown 内的重复事件会被忽略，0 表示每次变化都重新加载。
func NewWatcher(path string, cooldown time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config dir: %w", err)
	}
	return &Watcher{path: abs, cooldown: cooldown, fw: fw}, nil
}

// OnError 设置加载/校验失败与 fsnotify 错误的回调。
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Path 被监听文件的绝对路径。
func (w *Watcher) Path() string { return w.path }

// Run 阻塞直到 ctx 结束；onUpdate 只会收到校验通过的配置。
func (w *Watcher) Run(ctx context.Context, onUpdate func(AppConfig)) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleChange(onUpdate)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.reportError(fmt.Errorf("watcher: %w", err))
		}
	}
}

func (w *Watcher) handleChange(onUpdate func(AppConfig)) {
	w.mu.Lock()
	if w.cooldown > 0 && time.Since(w.lastReload) < w.cooldown {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := LoadWithEnvOverrides(w.path)
	if err != nil {
		w.reportError(fmt.Errorf("reload %s: %w", w.path, err))
		return
	}

	w.mu.Lock()
	w.lastReload = time.Now()
	w.mu.Unlock()
	if onUpdate != nil {
		onUpdate(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	fn := w.onError
	w.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// LastReload 最近一次成功重载时间
func (w *Watcher) LastReload() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastReload
}

// Close 释放 fsnotify 资源，可重复调用。
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fw.Close() })
	return err
}
