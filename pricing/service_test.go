package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"binomial-pricer/infrastructure/logger"
	"binomial-pricer/market"
	"binomial-pricer/monitor/logschema"
	"binomial-pricer/option"
)

type fakeRecorder struct {
	mu    sync.Mutex
	kinds []string
	runs  int
	count int
}

func (f *fakeRecorder) ObservePricing(kind string, _ int, _ float64, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
}

func (f *fakeRecorder) ObserveRun(contracts int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.count += contracts
}

func TestServiceRun(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := &fakeRecorder{}
	svc := NewService(logger.Wrap(zap.New(core)), rec, 2)

	m, err := market.NewBinomial(100, -0.01, 0.01, 0.005)
	require.NoError(t, err)
	call, err := option.NewVanilla(option.Call, 100, 100)
	require.NoError(t, err)
	bear, err := option.NewSpread(option.BearSpread, 100, 100, 200)
	require.NoError(t, err)

	quotes, err := svc.Run(context.Background(), m, []Job{
		{Name: "call", Contract: call},
		{Name: "bear", Contract: bear},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.Equal(t, "call", quotes[0].Name)
	assert.Equal(t, "call", quotes[0].Kind)
	assert.Equal(t, 100, quotes[0].Expiry)
	assert.InDelta(t, 39.27132243932359, quotes[0].Price, 1e-9)
	assert.Equal(t, "bear_spread", quotes[1].Kind)
	assert.Equal(t, "bear_spread(L=100, U=200, N=100)", quotes[1].Contract)

	d, ok := quotes[0].Rounded()
	require.True(t, ok)
	assert.Equal(t, "39.27132", d.String())

	assert.Equal(t, []string{"call", "bear_spread"}, rec.kinds)
	assert.Equal(t, 1, rec.runs)
	assert.Equal(t, 2, rec.count)

	marketLogs := logs.FilterMessage("market_event").All()
	require.Len(t, marketLogs, 1)
	assert.NoError(t, logschema.Validate("market_loaded", marketLogs[0].ContextMap()))

	pricingLogs := logs.FilterMessage("pricing_event").All()
	require.Len(t, pricingLogs, 2)
	for _, e := range pricingLogs {
		assert.NoError(t, logschema.Validate("pricing_result", e.ContextMap()))
	}
}

func TestServiceRunCancelled(t *testing.T) {
	svc := NewService(nil, nil, 1)
	m, err := market.NewBinomial(100, -0.01, 0.01, 0.005)
	require.NoError(t, err)
	call, err := option.NewVanilla(option.Call, 10, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Run(ctx, m, []Job{{Name: "call", Contract: call}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestServiceWarnsOnNonFinitePrice(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := NewService(logger.Wrap(zap.New(core)), nil, 1)
	m, err := market.NewBinomial(100, -0.5, 10, 0.1)
	require.NoError(t, err)
	call, err := option.NewVanilla(option.Call, 400, 100)
	require.NoError(t, err)

	quotes, err := svc.Run(context.Background(), m, []Job{{Name: "huge", Contract: call}})
	require.NoError(t, err)
	_, ok := quotes[0].Rounded()
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("non-finite price").Len())
	assert.Equal(t, 0, logs.FilterMessage("pricing_event").Len())
}
