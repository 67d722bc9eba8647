package pricing

import (
	"runtime"
	"sync"

	"binomial-pricer/market"
	"binomial-pricer/option"
)

// Job 一个带名字的待定价合约。
type Job struct {
	Name     string
	Contract option.Contract
}

// PriceAll 在同一市场下并发定价多个合约，结果顺序与 jobs 一致。
// 各次 CRR 调用互不共享可变状态，只需按下标写回结果。
// workers <= 0 时使用 GOMAXPROCS。
func PriceAll(m market.Binomial, jobs []Job, workers int) []float64 {
	out := make([]float64, len(jobs))
	forEach(len(jobs), workers, func(i int) {
		out[i] = CRR(m, jobs[i].Contract)
	})
	return out
}

// forEach 用固定数量的 goroutine 执行 fn(0..n-1)，全部完成后返回。
func forEach(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		idx <- i
	}
	close(idx)
	wg.Wait()
}
