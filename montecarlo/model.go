package montecarlo

import "github.com/wyfcoding/pricing/statistics"

// Model 组合路径生成器、路径定价器与统计累加器，支持增量采样。
type Model struct {
	generator PathGenerator
	pricer    PathPricer
	acc       statistics.Accumulator
}

// NewModel 创建蒙特卡洛模型。
func NewModel(generator PathGenerator, pricer PathPricer) *Model {
	return &Model{generator: generator, pricer: pricer}
}

// AddSamples 追加 n 个样本。
func (m *Model) AddSamples(n int) {
	for range n {
		s := m.generator.Next()
		m.acc.AddWeighted(m.pricer.Price(s.Value), s.Weight)
	}
}

// Accumulator 返回当前统计状态的副本。
func (m *Model) Accumulator() statistics.Accumulator {
	return m.acc
}
