package pricing

// VanillaOptionResults 香草期权的定价结果，未计算的字段为 Null。
type VanillaOptionResults struct {
	Value             float64
	Delta             float64
	Gamma             float64
	Theta             float64
	Vega              float64
	Rho               float64
	DividendRho       float64
	StrikeSensitivity float64 // ∂V/∂K
	ErrorEstimate     float64 // 蒙特卡洛标准误
}

// NewVanillaOptionResults 返回全部未设置的结果。
func NewVanillaOptionResults() VanillaOptionResults {
	var r VanillaOptionResults
	r.Reset()
	return r
}

// Reset 将所有字段置为 Null。
func (r *VanillaOptionResults) Reset() {
	n := Null()
	*r = VanillaOptionResults{
		Value:             n,
		Delta:             n,
		Gamma:             n,
		Theta:             n,
		Vega:              n,
		Rho:               n,
		DividendRho:       n,
		StrikeSensitivity: n,
		ErrorEstimate:     n,
	}
}
