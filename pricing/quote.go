package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Quote 定价结果的十进制报价形式，未设置的字段 Valid 为 false。
type Quote struct {
	Value             decimal.NullDecimal `json:"value"`
	Delta             decimal.NullDecimal `json:"delta"`
	Gamma             decimal.NullDecimal `json:"gamma"`
	Theta             decimal.NullDecimal `json:"theta"`
	Vega              decimal.NullDecimal `json:"vega"`
	Rho               decimal.NullDecimal `json:"rho"`
	DividendRho       decimal.NullDecimal `json:"dividend_rho"`
	StrikeSensitivity decimal.NullDecimal `json:"strike_sensitivity"`
	ErrorEstimate     decimal.NullDecimal `json:"error_estimate"`
}

// Quote 按给定小数位四舍五入转换为报价。
func (r VanillaOptionResults) Quote(places int32) Quote {
	return Quote{
		Value:             toDecimal(r.Value, places),
		Delta:             toDecimal(r.Delta, places),
		Gamma:             toDecimal(r.Gamma, places),
		Theta:             toDecimal(r.Theta, places),
		Vega:              toDecimal(r.Vega, places),
		Rho:               toDecimal(r.Rho, places),
		DividendRho:       toDecimal(r.DividendRho, places),
		StrikeSensitivity: toDecimal(r.StrikeSensitivity, places),
		ErrorEstimate:     toDecimal(r.ErrorEstimate, places),
	}
}

// decimal.NewFromFloat 对 NaN/Inf 会 panic。
func toDecimal(x float64, places int32) decimal.NullDecimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(x).Round(places))
}
