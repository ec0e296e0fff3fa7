// Package pricing 定义定价引擎的通用契约（参数、结果、校验、重置、计算）以及香草期权与远期期权的数据模型。
package pricing

import "math"

// OptionType 定义期权类型。
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// Valid 判断期权类型是否受支持。
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Payoff 计算到期收益：看涨 max(S-K,0)，看跌 max(K-S,0)。
func Payoff(t OptionType, spot, strike float64) float64 {
	switch t {
	case Call:
		return math.Max(spot-strike, 0)
	case Put:
		return math.Max(strike-spot, 0)
	default:
		return 0
	}
}

// ExerciseType 行权方式。
type ExerciseType string

const (
	European ExerciseType = "EUROPEAN"
	American ExerciseType = "AMERICAN"
	Bermudan ExerciseType = "BERMUDAN"
)

// IsEuropean 零值视为欧式。
func (e ExerciseType) IsEuropean() bool {
	return e == European || e == ""
}

// Null 返回"未设置"的数值哨兵。
func Null() float64 {
	return math.NaN()
}

// IsNull 判断数值是否未设置。
func IsNull(x float64) bool {
	return math.IsNaN(x)
}
