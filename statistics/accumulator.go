// Package statistics 提供样本的增量统计：均值、方差与均值标准误。
package statistics

import "math"

// Accumulator 以 Welford 算法增量累积加权样本。
// 样本数只增不减（除非显式 Reset）；零值可直接使用。
type Accumulator struct {
	samples   int
	weightSum float64
	mean      float64
	m2        float64 // 加权离差平方和
	min       float64
	max       float64
}

// Add 累加一个权重为 1 的样本。
func (a *Accumulator) Add(x float64) {
	a.AddWeighted(x, 1.0)
}

// AddWeighted 累加一个加权样本；非正权重的样本被忽略。
func (a *Accumulator) AddWeighted(x, w float64) {
	if w <= 0 {
		return
	}
	if a.samples == 0 {
		a.min, a.max = x, x
	} else {
		a.min = math.Min(a.min, x)
		a.max = math.Max(a.max, x)
	}
	a.samples++
	a.weightSum += w
	delta := x - a.mean
	a.mean += delta * w / a.weightSum
	a.m2 += w * delta * (x - a.mean)
}

// AddSequence 批量累加等权样本。
func (a *Accumulator) AddSequence(xs []float64) {
	for _, x := range xs {
		a.Add(x)
	}
}

// Merge 以 Chan 等人的并行方差公式合并另一个累加器的状态。
func (a *Accumulator) Merge(b *Accumulator) {
	if b == nil || b.samples == 0 {
		return
	}
	if a.samples == 0 {
		*a = *b
		return
	}
	w := a.weightSum + b.weightSum
	delta := b.mean - a.mean
	a.mean += delta * b.weightSum / w
	a.m2 += b.m2 + delta*delta*a.weightSum*b.weightSum/w
	a.weightSum = w
	a.samples += b.samples
	a.min = math.Min(a.min, b.min)
	a.max = math.Max(a.max, b.max)
}

// Reset 清空所有状态。
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}

// Samples 返回样本个数。
func (a *Accumulator) Samples() int { return a.samples }

// WeightSum 返回权重和。
func (a *Accumulator) WeightSum() float64 { return a.weightSum }

// Mean 返回加权均值；无样本时为 0。
func (a *Accumulator) Mean() float64 { return a.mean }

// Variance 返回无偏方差估计；少于两个样本时为 0。
func (a *Accumulator) Variance() float64 {
	if a.samples < 2 {
		return 0
	}
	n := float64(a.samples)
	return a.m2 / a.weightSum * n / (n - 1)
}

// StandardDeviation 返回样本标准差。
func (a *Accumulator) StandardDeviation() float64 {
	return math.Sqrt(a.Variance())
}

// ErrorEstimate 返回均值的标准误 sqrt(variance / samples)。
func (a *Accumulator) ErrorEstimate() float64 {
	if a.samples == 0 {
		return 0
	}
	return math.Sqrt(a.Variance() / float64(a.samples))
}

// Min 返回最小样本。
func (a *Accumulator) Min() float64 { return a.min }

// Max 返回最大样本。
func (a *Accumulator) Max() float64 { return a.max }
