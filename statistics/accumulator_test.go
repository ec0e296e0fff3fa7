package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorMoments(t *testing.T) {
	var acc Accumulator
	acc.AddSequence([]float64{1, 2, 3, 4, 5})

	require.Equal(t, 5, acc.Samples())
	assert.InDelta(t, 3.0, acc.Mean(), 1e-15)
	assert.InDelta(t, 2.5, acc.Variance(), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), acc.StandardDeviation(), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5/5), acc.ErrorEstimate(), 1e-12)
	assert.Equal(t, 1.0, acc.Min())
	assert.Equal(t, 5.0, acc.Max())
}

func TestAccumulatorEmptyAndSingle(t *testing.T) {
	var acc Accumulator
	assert.Equal(t, 0, acc.Samples())
	assert.Equal(t, 0.0, acc.ErrorEstimate())

	acc.Add(7)
	assert.Equal(t, 7.0, acc.Mean())
	assert.Equal(t, 0.0, acc.Variance())
}

func TestAccumulatorIgnoresNonPositiveWeights(t *testing.T) {
	var acc Accumulator
	acc.AddWeighted(10, 0)
	acc.AddWeighted(10, -1)
	assert.Equal(t, 0, acc.Samples())

	acc.AddWeighted(2, 1)
	acc.AddWeighted(4, 3)
	assert.Equal(t, 2, acc.Samples())
	assert.InDelta(t, 3.5, acc.Mean(), 1e-15)
	assert.InDelta(t, 4.0, acc.WeightSum(), 1e-15)
}

func TestAccumulatorMergeMatchesSequential(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = math.Sin(float64(i)) * float64(i%17)
	}

	var full Accumulator
	full.AddSequence(data)

	var a, b, c Accumulator
	a.AddSequence(data[:123])
	b.AddSequence(data[123:700])
	c.AddSequence(data[700:])

	var merged Accumulator
	merged.Merge(&a)
	merged.Merge(&b)
	merged.Merge(&c)

	require.Equal(t, full.Samples(), merged.Samples())
	assert.InDelta(t, full.Mean(), merged.Mean(), 1e-12)
	assert.InDelta(t, full.Variance(), merged.Variance(), 1e-9)
	assert.Equal(t, full.Min(), merged.Min())
	assert.Equal(t, full.Max(), merged.Max())

	// 合并顺序不影响结果（在舍入误差范围内）。
	var reversed Accumulator
	reversed.Merge(&c)
	reversed.Merge(&b)
	reversed.Merge(&a)
	assert.InDelta(t, merged.Mean(), reversed.Mean(), 1e-12)
	assert.InDelta(t, merged.Variance(), reversed.Variance(), 1e-9)
}

func TestAccumulatorMergeEmpty(t *testing.T) {
	var a, empty Accumulator
	a.AddSequence([]float64{1, 2})
	before := a
	a.Merge(&empty)
	a.Merge(nil)
	assert.Equal(t, before, a)

	empty.Merge(&a)
	assert.Equal(t, a, empty)
}

func TestAccumulatorReset(t *testing.T) {
	var acc Accumulator
	acc.AddSequence([]float64{1, 2, 3})
	acc.Reset()
	assert.Equal(t, Accumulator{}, acc)
}
