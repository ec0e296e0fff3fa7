package montecarlo

import (
	"math"

	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/xerrors"
)

// PathPricer 将一条路径映射为一个贴现后的收益样本。
type PathPricer interface {
	Price(p Path) float64
}

// EuropeanPathPricer 欧式期权路径定价器。
type EuropeanPathPricer struct {
	optionType pricing.OptionType
	underlying float64
	strike     float64
	discount   float64
	antithetic bool
}

// NewEuropeanPathPricer 创建欧式路径定价器；antithetic 为真时与反射路径取平均。
func NewEuropeanPathPricer(optionType pricing.OptionType, underlying, strike, discount float64, antithetic bool) (*EuropeanPathPricer, error) {
	if !optionType.Valid() {
		return nil, xerrors.ErrInvalidOptionType
	}
	if underlying <= 0 {
		return nil, xerrors.ErrNonPositiveUnderlying
	}
	if strike < 0 {
		return nil, xerrors.ErrNegativeStrike
	}
	return &EuropeanPathPricer{
		optionType: optionType,
		underlying: underlying,
		strike:     strike,
		discount:   discount,
		antithetic: antithetic,
	}, nil
}

// Price 计算贴现收益。
func (p *EuropeanPathPricer) Price(path Path) float64 {
	value := pricing.Payoff(p.optionType, p.underlying*math.Exp(path.LogReturn()), p.strike)
	if p.antithetic {
		reflected := pricing.Payoff(p.optionType, p.underlying*math.Exp(path.AntitheticLogReturn()), p.strike)
		value = 0.5 * (value + reflected)
	}
	return p.discount * value
}
