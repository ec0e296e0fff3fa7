package termstructure

import (
	"math"
	"sort"
	"time"

	"github.com/wyfcoding/pricing/datetime"
	"github.com/wyfcoding/pricing/xerrors"
)

// BlackVolTermStructure Black 波动率曲面。
type BlackVolTermStructure interface {
	TermStructure
	BlackVol(t, strike float64) float64
	BlackVariance(t, strike float64) float64 // σ²·t
}

func volFromVariance(variance func(t, k float64) float64, t, strike float64) float64 {
	const dt = 0.00001
	if t < dt {
		t = dt
	}
	return math.Sqrt(variance(t, strike) / t)
}

// BlackConstantVol 常数波动率。
type BlackConstantVol struct {
	reference time.Time
	vol       float64
	dc        datetime.DayCounter
}

// NewBlackConstantVol 创建常数波动率曲面。
func NewBlackConstantVol(reference time.Time, vol float64, dc datetime.DayCounter) *BlackConstantVol {
	return &BlackConstantVol{reference: datetime.Normalize(reference), vol: vol, dc: dc}
}

func (v *BlackConstantVol) ReferenceDate() time.Time        { return v.reference }
func (v *BlackConstantVol) DayCounter() datetime.DayCounter { return v.dc }
func (v *BlackConstantVol) BlackVol(float64, float64) float64 {
	return v.vol
}
func (v *BlackConstantVol) BlackVariance(t, _ float64) float64 {
	return v.vol * v.vol * t
}

// BlackVarianceCurve 仅依赖时间的波动率期限结构，总方差在节点间线性插值，末端按最后的波动率平推。
type BlackVarianceCurve struct {
	reference time.Time
	dc        datetime.DayCounter
	times     []float64
	variances []float64
}

// NewBlackVarianceCurve 由日期与 Black 波动率节点构建。
func NewBlackVarianceCurve(reference time.Time, dc datetime.DayCounter, dates []time.Time, vols []float64) (*BlackVarianceCurve, error) {
	if len(dates) == 0 || len(dates) != len(vols) {
		return nil, xerrors.Validation("dates", "dates and volatilities must be non-empty and of equal length")
	}
	reference = datetime.Normalize(reference)
	c := &BlackVarianceCurve{reference: reference, dc: dc, times: []float64{0}, variances: []float64{0}}
	for i, d := range dates {
		t := dc.YearFraction(reference, d)
		if t <= c.times[len(c.times)-1] {
			return nil, xerrors.Validation("dates", "volatility dates must be increasing and after the reference date")
		}
		if vols[i] < 0 {
			return nil, xerrors.ErrNonPositiveVolatility
		}
		variance := vols[i] * vols[i] * t
		if variance < c.variances[len(c.variances)-1] {
			return nil, xerrors.Validation("vols", "total variance must be non-decreasing")
		}
		c.times = append(c.times, t)
		c.variances = append(c.variances, variance)
	}
	return c, nil
}

func (c *BlackVarianceCurve) ReferenceDate() time.Time        { return c.reference }
func (c *BlackVarianceCurve) DayCounter() datetime.DayCounter { return c.dc }

func (c *BlackVarianceCurve) BlackVariance(t, _ float64) float64 {
	if t <= 0 {
		return 0
	}
	n := len(c.times)
	if t >= c.times[n-1] {
		return c.variances[n-1] * t / c.times[n-1]
	}
	i := sort.SearchFloat64s(c.times, t)
	t0, t1 := c.times[i-1], c.times[i]
	v0, v1 := c.variances[i-1], c.variances[i]
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

func (c *BlackVarianceCurve) BlackVol(t, strike float64) float64 {
	return volFromVariance(c.BlackVariance, t, strike)
}
