package config

import (
	"fmt"

	"binomial-pricer/market"
	"binomial-pricer/option"
	"binomial-pricer/pricing"
)

// ValidateParams 用领域构造函数校验市场与合约参数（无套利区间、行权价顺序等）。
func ValidateParams(cfg AppConfig) error {
	if _, err := cfg.Market.Build(); err != nil {
		return err
	}
	_, err := cfg.Jobs()
	return err
}

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Build 构造市场模型。
func (mc MarketConfig) Build() (market.Binomial, error) {
	m, err := market.NewBinomial(mc.Spot, mc.DownTick, mc.UpTick, mc.Rate)
	if err != nil {
		return market.Binomial{}, fmt.Errorf("%w: %w", ErrInvalid("market"), err)
	}
	return m, nil
}

// Build 构造合约。
func (cc ContractConfig) Build() (option.Contract, error) {
	if option.IsSpreadKind(cc.Kind) {
		return option.Parse(cc.Kind, cc.Expiry, cc.Lower, cc.Upper)
	}
	return option.Parse(cc.Kind, cc.Expiry, cc.Strike, 0)
}

// Jobs 把全部合约转换为定价任务，顺序与配置一致。
func (cfg AppConfig) Jobs() ([]pricing.Job, error) {
	jobs := make([]pricing.Job, 0, len(cfg.Contracts))
	for i, cc := range cfg.Contracts {
		c, err := cc.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid(fmt.Sprintf("contracts[%d]", i)), err)
		}
		jobs = append(jobs, pricing.Job{Name: cc.Name, Contract: c})
	}
	return jobs, nil
}
