// Package termstructure 提供定价引擎依赖的行情曲线视图：收益率曲线与 Black 波动率曲面。
// 所有实现构造后不可变，可在多个引擎间共享而无需加锁。
package termstructure

import (
	"math"
	"sort"
	"time"

	"github.com/wyfcoding/pricing/datetime"
	"github.com/wyfcoding/pricing/xerrors"
)

// TermStructure 期限结构的公共部分：参考日与计息惯例。
type TermStructure interface {
	ReferenceDate() time.Time
	DayCounter() datetime.DayCounter
}

// YieldTermStructure 收益率曲线。t 为距参考日的年化期限。
type YieldTermStructure interface {
	TermStructure
	Discount(t float64) float64
	ZeroYield(t float64) float64 // 连续复利
}

// TimeFromReference 计算日期距曲线参考日的年化期限。
func TimeFromReference(ts TermStructure, d time.Time) float64 {
	return ts.DayCounter().YearFraction(ts.ReferenceDate(), d)
}

// DiscountAt 按日期取贴现因子。
func DiscountAt(ts YieldTermStructure, d time.Time) float64 {
	return ts.Discount(TimeFromReference(ts, d))
}

// ZeroYieldAt 按日期取零息收益率。
func ZeroYieldAt(ts YieldTermStructure, d time.Time) float64 {
	return ts.ZeroYield(TimeFromReference(ts, d))
}

// zeroFromDiscount 由贴现函数反推连续复利零息利率，t→0 时取短端瞬时利率近似。
func zeroFromDiscount(discount func(float64) float64, t float64) float64 {
	const dt = 0.0001
	if t < dt {
		t = dt
	}
	return -math.Log(discount(t)) / t
}

// FlatForward 常数连续复利利率曲线。
type FlatForward struct {
	reference time.Time
	rate      float64
	dc        datetime.DayCounter
}

// NewFlatForward 创建常数利率曲线。
func NewFlatForward(reference time.Time, rate float64, dc datetime.DayCounter) *FlatForward {
	return &FlatForward{reference: datetime.Normalize(reference), rate: rate, dc: dc}
}

func (f *FlatForward) ReferenceDate() time.Time        { return f.reference }
func (f *FlatForward) DayCounter() datetime.DayCounter { return f.dc }
func (f *FlatForward) Discount(t float64) float64      { return math.Exp(-f.rate * t) }
func (f *FlatForward) ZeroYield(float64) float64       { return f.rate }

// DiscountCurve 以贴现因子节点构建的曲线，节点间对数线性插值，末端按最后一段远期利率平推。
type DiscountCurve struct {
	reference time.Time
	dc        datetime.DayCounter
	times     []float64
	logDFs    []float64
}

// NewDiscountCurve 由日期与贴现因子构建曲线。参考日处隐含 DF=1。
func NewDiscountCurve(reference time.Time, dc datetime.DayCounter, dates []time.Time, dfs []float64) (*DiscountCurve, error) {
	if len(dates) == 0 || len(dates) != len(dfs) {
		return nil, xerrors.Validation("dates", "dates and discount factors must be non-empty and of equal length")
	}
	reference = datetime.Normalize(reference)

	type node struct {
		t  float64
		df float64
	}
	nodes := make([]node, 0, len(dates))
	for i, d := range dates {
		t := dc.YearFraction(reference, d)
		if t <= 0 {
			return nil, xerrors.Validation("dates", "node dates must be after the reference date")
		}
		if dfs[i] <= 0 {
			return nil, xerrors.Validation("dfs", "discount factors must be positive")
		}
		nodes = append(nodes, node{t: t, df: dfs[i]})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].t < nodes[j].t })

	c := &DiscountCurve{
		reference: reference,
		dc:        dc,
		times:     []float64{0},
		logDFs:    []float64{0},
	}
	for i, n := range nodes {
		if i > 0 && n.t == nodes[i-1].t {
			return nil, xerrors.Validation("dates", "duplicate node dates")
		}
		c.times = append(c.times, n.t)
		c.logDFs = append(c.logDFs, math.Log(n.df))
	}
	return c, nil
}

func (c *DiscountCurve) ReferenceDate() time.Time        { return c.reference }
func (c *DiscountCurve) DayCounter() datetime.DayCounter { return c.dc }

// Discount 对数线性插值贴现因子。
func (c *DiscountCurve) Discount(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	n := len(c.times)
	i := sort.SearchFloat64s(c.times, t)
	if i >= n {
		i = n - 1
	}
	if i == 0 {
		i = 1
	}
	t0, t1 := c.times[i-1], c.times[i]
	l0, l1 := c.logDFs[i-1], c.logDFs[i]
	w := (t - t0) / (t1 - t0)
	return math.Exp(l0 + w*(l1-l0))
}

func (c *DiscountCurve) ZeroYield(t float64) float64 {
	return zeroFromDiscount(c.Discount, t)
}
