package termstructure

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/pricing/datetime"
	"github.com/wyfcoding/pricing/xerrors"
)

var ref = datetime.Date(2024, time.January, 1)

func TestFlatForward(t *testing.T) {
	ts := NewFlatForward(ref, 0.05, datetime.Actual365Fixed)
	assert.InDelta(t, math.Exp(-0.05), ts.Discount(1), 1e-15)
	assert.Equal(t, 0.05, ts.ZeroYield(3))

	d := datetime.AddDays(ref, 365)
	assert.InDelta(t, math.Exp(-0.05), DiscountAt(ts, d), 1e-15)
	assert.Equal(t, 0.05, ZeroYieldAt(ts, d))
	assert.InDelta(t, 1.0, TimeFromReference(ts, d), 1e-15)
}

func TestDiscountCurveInterpolation(t *testing.T) {
	dates := []time.Time{datetime.AddDays(ref, 730), datetime.AddDays(ref, 365)}
	dfs := []float64{0.90, 0.95}
	c, err := NewDiscountCurve(ref, datetime.Actual365Fixed, dates, dfs)
	require.NoError(t, err)

	assert.Equal(t, 1.0, c.Discount(0))
	assert.InDelta(t, 0.95, c.Discount(1), 1e-14)
	assert.InDelta(t, 0.90, c.Discount(2), 1e-14)
	// 对数线性：节点中点为几何平均。
	assert.InDelta(t, math.Sqrt(0.95*0.90), c.Discount(1.5), 1e-14)
	// 末端沿最后一段外推。
	assert.InDelta(t, 0.90*0.90/0.95, c.Discount(3), 1e-14)
	assert.InDelta(t, -math.Log(0.90)/2, c.ZeroYield(2), 1e-12)
}

func TestDiscountCurveValidation(t *testing.T) {
	_, err := NewDiscountCurve(ref, datetime.Actual365Fixed, nil, nil)
	assert.True(t, xerrors.IsValidation(err))

	_, err = NewDiscountCurve(ref, datetime.Actual365Fixed, []time.Time{ref}, []float64{1})
	assert.True(t, xerrors.IsValidation(err))

	_, err = NewDiscountCurve(ref, datetime.Actual365Fixed, []time.Time{datetime.AddDays(ref, 10)}, []float64{0})
	assert.True(t, xerrors.IsValidation(err))

	d := datetime.AddDays(ref, 10)
	_, err = NewDiscountCurve(ref, datetime.Actual365Fixed, []time.Time{d, d}, []float64{0.99, 0.98})
	assert.True(t, xerrors.IsValidation(err))
}

func TestImpliedTermStructure(t *testing.T) {
	dates := []time.Time{datetime.AddDays(ref, 365), datetime.AddDays(ref, 730)}
	c, err := NewDiscountCurve(ref, datetime.Actual365Fixed, dates, []float64{0.96, 0.91})
	require.NoError(t, err)

	reset := datetime.AddDays(ref, 365)
	implied := NewImpliedTermStructure(c, reset)

	assert.Equal(t, reset, implied.ReferenceDate())
	assert.Equal(t, datetime.Actual365Fixed, implied.DayCounter())
	assert.Equal(t, 1.0, implied.Discount(0))
	assert.InDelta(t, 0.91/0.96, implied.Discount(1), 1e-14)
	// 同一日期在两条曲线上的远期一致。
	maturity := datetime.AddDays(ref, 730)
	assert.InDelta(t, DiscountAt(c, maturity)/DiscountAt(c, reset), DiscountAt(implied, maturity), 1e-14)
}

func TestImpliedFlatCurveKeepsRate(t *testing.T) {
	flat := NewFlatForward(ref, 0.03, datetime.Actual365Fixed)
	implied := NewImpliedTermStructure(flat, datetime.AddMonths(ref, 6))
	assert.InDelta(t, 0.03, implied.ZeroYield(0.5), 1e-12)
	assert.InDelta(t, math.Exp(-0.03*0.5), implied.Discount(0.5), 1e-14)
}

func TestBlackConstantVol(t *testing.T) {
	v := NewBlackConstantVol(ref, 0.2, datetime.Actual365Fixed)
	assert.Equal(t, 0.2, v.BlackVol(1, 100))
	assert.InDelta(t, 0.08, v.BlackVariance(2, 100), 1e-15)

	implied := NewImpliedVolTermStructure(v, datetime.AddDays(ref, 365))
	assert.InDelta(t, 0.04, implied.BlackVariance(1, 100), 1e-14)
	assert.InDelta(t, 0.2, implied.BlackVol(1, 100), 1e-12)
	assert.Equal(t, 0.0, implied.BlackVariance(0, 100))
}

func TestBlackVarianceCurve(t *testing.T) {
	dates := []time.Time{datetime.AddDays(ref, 365), datetime.AddDays(ref, 730)}
	c, err := NewBlackVarianceCurve(ref, datetime.Actual365Fixed, dates, []float64{0.20, 0.25})
	require.NoError(t, err)

	assert.InDelta(t, 0.04, c.BlackVariance(1, 0), 1e-14)
	assert.InDelta(t, 0.125, c.BlackVariance(2, 0), 1e-14)
	assert.InDelta(t, 0.02, c.BlackVariance(0.5, 0), 1e-14)
	assert.InDelta(t, (0.04+0.125)/2, c.BlackVariance(1.5, 0), 1e-14)
	assert.InDelta(t, 0.25, c.BlackVol(3, 0), 1e-12)

	implied := NewImpliedVolTermStructure(c, datetime.AddDays(ref, 365))
	assert.InDelta(t, 0.125-0.04, implied.BlackVariance(1, 0), 1e-14)
}

func TestBlackVarianceCurveValidation(t *testing.T) {
	_, err := NewBlackVarianceCurve(ref, datetime.Actual365Fixed, []time.Time{datetime.AddDays(ref, 10)}, []float64{-0.1})
	assert.ErrorIs(t, err, xerrors.ErrNonPositiveVolatility)

	dates := []time.Time{datetime.AddDays(ref, 365), datetime.AddDays(ref, 730)}
	_, err = NewBlackVarianceCurve(ref, datetime.Actual365Fixed, dates, []float64{0.30, 0.10})
	assert.True(t, xerrors.IsValidation(err))
}
