package termstructure

import (
	"math"
	"time"

	"github.com/wyfcoding/pricing/datetime"
)

// ImpliedTermStructure 将原曲线的参考日平移到更晚的日期：D'(t) = D(t0+t) / D(t0)。
// 只读视图，不修改原曲线。
type ImpliedTermStructure struct {
	original  YieldTermStructure
	reference time.Time
	t0        float64
}

// NewImpliedTermStructure 以 newReference 为新参考日构造隐含曲线。
func NewImpliedTermStructure(original YieldTermStructure, newReference time.Time) *ImpliedTermStructure {
	newReference = datetime.Normalize(newReference)
	return &ImpliedTermStructure{
		original:  original,
		reference: newReference,
		t0:        TimeFromReference(original, newReference),
	}
}

func (s *ImpliedTermStructure) ReferenceDate() time.Time        { return s.reference }
func (s *ImpliedTermStructure) DayCounter() datetime.DayCounter { return s.original.DayCounter() }

func (s *ImpliedTermStructure) Discount(t float64) float64 {
	return s.original.Discount(s.t0+t) / s.original.Discount(s.t0)
}

func (s *ImpliedTermStructure) ZeroYield(t float64) float64 {
	return zeroFromDiscount(s.Discount, t)
}

// ImpliedVolTermStructure 将波动率曲面的参考日平移：v'(t) = v(t0+t) − v(t0)。
// 仅当波动率只依赖时间、不依赖标的水平时才精确。
type ImpliedVolTermStructure struct {
	original  BlackVolTermStructure
	reference time.Time
	t0        float64
}

// NewImpliedVolTermStructure 以 newReference 为新参考日构造隐含波动率曲面。
func NewImpliedVolTermStructure(original BlackVolTermStructure, newReference time.Time) *ImpliedVolTermStructure {
	newReference = datetime.Normalize(newReference)
	return &ImpliedVolTermStructure{
		original:  original,
		reference: newReference,
		t0:        TimeFromReference(original, newReference),
	}
}

func (s *ImpliedVolTermStructure) ReferenceDate() time.Time        { return s.reference }
func (s *ImpliedVolTermStructure) DayCounter() datetime.DayCounter { return s.original.DayCounter() }

func (s *ImpliedVolTermStructure) BlackVariance(t, strike float64) float64 {
	v := s.original.BlackVariance(s.t0+t, strike) - s.original.BlackVariance(s.t0, strike)
	return math.Max(v, 0)
}

func (s *ImpliedVolTermStructure) BlackVol(t, strike float64) float64 {
	return volFromVariance(s.BlackVariance, t, strike)
}
