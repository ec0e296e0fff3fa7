package montecarlo

// Path 单条模拟路径，按时间步记录对数收益率的漂移项与扩散项。
type Path struct {
	Drift     []float64
	Diffusion []float64
}

// Len 返回时间步数。
func (p Path) Len() int {
	return len(p.Drift)
}

// LogReturn 返回整条路径的累计对数收益率。
func (p Path) LogReturn() float64 {
	sum := 0.0
	for i := range p.Drift {
		sum += p.Drift[i] + p.Diffusion[i]
	}
	return sum
}

// AntitheticLogReturn 返回扩散项取反后（关于漂移对称）的累计对数收益率。
func (p Path) AntitheticLogReturn() float64 {
	sum := 0.0
	for i := range p.Drift {
		sum += p.Drift[i] - p.Diffusion[i]
	}
	return sum
}

// Sample 带权重的样本。
type Sample[T any] struct {
	Value  T
	Weight float64
}
