package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricer.log")
	l, err := New(Config{Level: "debug", Outputs: []string{"file"}, OutputFile: path})
	require.NoError(t, err)
	l.LogMarket(map[string]interface{}{"spot": 100.0})
	_ = l.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"event":"market_loaded"`)
	assert.Contains(t, string(raw), `"spot":100`)
}

func TestEventHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core))

	l.LogPricing(map[string]interface{}{"contract": "call"})
	l.LogConfig("config_reload", nil)
	l.LogError(errors.New("boom"), map[string]interface{}{"component": "watcher"})
	l.WithFields(map[string]interface{}{"env": "test"}).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "pricing_event", entries[0].Message)
	assert.Equal(t, "pricing_result", entries[0].ContextMap()["event"])
	assert.Equal(t, "config_reload", entries[1].ContextMap()["event"])
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, "test", entries[3].ContextMap()["env"])
}
