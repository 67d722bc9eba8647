package pricing

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binomial-pricer/market"
	"binomial-pricer/option"
)

func sampleJobs(t *testing.T) []Job {
	t.Helper()
	var jobs []Job
	for i, k := range []float64{80, 90, 100, 110, 120} {
		c, err := option.NewVanilla(option.Call, 20+i*10, k)
		require.NoError(t, err)
		p, err := option.NewVanilla(option.Put, 20+i*10, k)
		require.NoError(t, err)
		s, err := option.NewSpread(option.BullSpread, 15+i, k-10, k+10)
		require.NoError(t, err)
		jobs = append(jobs, Job{Name: "c", Contract: c}, Job{Name: "p", Contract: p}, Job{Name: "s", Contract: s})
	}
	return jobs
}

func TestPriceAllMatchesSequential(t *testing.T) {
	m, err := market.NewBinomial(100, -0.02, 0.03, 0.004)
	require.NoError(t, err)
	jobs := sampleJobs(t)

	want := make([]float64, len(jobs))
	for i, j := range jobs {
		want[i] = CRR(m, j.Contract)
	}
	for _, workers := range []int{-1, 0, 1, 3, 64} {
		got := PriceAll(m, jobs, workers)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
	assert.Empty(t, PriceAll(m, nil, 4))
}

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	var hits [n]int32
	forEach(n, 8, func(i int) { atomic.AddInt32(&hits[i], 1) })
	for i := range hits {
		require.Equal(t, int32(1), hits[i], "index %d", i)
	}
	forEach(0, 8, func(int) { t.Fatal("must not be called") })
}
