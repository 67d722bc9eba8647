// Package pricing 在 CRR 二叉树上对欧式合约做逆向归纳定价。
package pricing

import (
	"binomial-pricer/market"
	"binomial-pricer/option"
)

// CRR 返回合约在二叉树市场下的无套利价格。
//
// 树不会被完整展开：只计算到期层 N+1 个节点的价格，随后在同一个长度 N+1 的
// 缓冲区上逐层回卷。第 t 轮结束后 values[i] 是节点 (t-1, i) 的价值，即 t-1 期内
// 上涨 i 次到达的节点。时间 O(N²)，空间 O(N)。
//
// 折现已并入 up/dn 权重，每一层的 values[i] 都是折现到该层的风险中性期望。
// N=0 时不做归纳，结果就是 spot 处的收益。
func CRR(m market.Binomial, c option.Contract) float64 {
	n := c.Expiry()
	values := make([]float64, n+1)
	for ups := 0; ups <= n; ups++ {
		values[ups] = c.Payoff(m.NodePrice(n, ups))
	}

	q := m.UpProbability()
	growth := 1 + m.Rate()
	up := q / growth
	dn := (1 - q) / growth

	for t := n; t > 0; t-- {
		for i := 0; i < t; i++ {
			values[i] = dn*values[i] + up*values[i+1]
		}
	}
	return values[0]
}
