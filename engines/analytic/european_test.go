package analytic

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/pricing/datetime"
	"github.com/wyfcoding/pricing/pricing"
	"github.com/wyfcoding/pricing/termstructure"
	"github.com/wyfcoding/pricing/xerrors"
)

var today = datetime.Date(2024, time.January, 1)

func flat(typ pricing.OptionType, s, k, r, q, sigma, t float64) Inputs {
	return Inputs{
		Type:             typ,
		Spot:             s,
		Strike:           k,
		Maturity:         t,
		Variance:         sigma * sigma * t,
		RiskFreeDiscount: math.Exp(-r * t),
		DividendDiscount: math.Exp(-q * t),
		RiskFreeRate:     r,
		DividendYield:    q,
	}
}

func setup(e *EuropeanEngine, typ pricing.OptionType, vol float64) {
	args := e.Arguments()
	args.Type = typ
	args.Underlying = 100
	args.Strike = 100
	args.Maturity = 1
	args.DividendTS = termstructure.NewFlatForward(today, 0, datetime.Actual365Fixed)
	args.RiskFreeTS = termstructure.NewFlatForward(today, 0.05, datetime.Actual365Fixed)
	args.VolTS = termstructure.NewBlackConstantVol(today, vol, datetime.Actual365Fixed)
}

func TestEuropeanEngineReferenceValues(t *testing.T) {
	e := NewEuropeanEngine()
	setup(e, pricing.Call, 0.2)
	require.NoError(t, e.Calculate(context.Background()))
	assert.InDelta(t, 10.450583572185565, e.Results().Value, 1e-9)

	setup(e, pricing.Put, 0.2)
	require.NoError(t, e.Calculate(context.Background()))
	assert.InDelta(t, 5.573526022256971, e.Results().Value, 1e-9)
	assert.True(t, pricing.IsNull(e.Results().ErrorEstimate))
}

func TestEuropeanEngineIdempotent(t *testing.T) {
	e := NewEuropeanEngine()
	setup(e, pricing.Call, 0.25)
	require.NoError(t, e.Calculate(context.Background()))
	first := e.Results()
	require.NoError(t, e.Calculate(context.Background()))
	assert.Equal(t, first, e.Results())
}

func TestEuropeanEngineRejects(t *testing.T) {
	e := NewEuropeanEngine()
	require.ErrorIs(t, e.Calculate(context.Background()), xerrors.ErrInvalidOptionType)

	setup(e, pricing.Call, 0.2)
	e.Arguments().ExerciseType = pricing.American
	assert.ErrorIs(t, e.Calculate(context.Background()), xerrors.ErrUnsupportedExercise)
	assert.True(t, pricing.IsNull(e.Results().Value))
}

func TestPutCallParity(t *testing.T) {
	for _, k := range []float64{80, 100, 120} {
		call := BlackScholes(flat(pricing.Call, 100, k, 0.03, 0.01, 0.3, 2))
		put := BlackScholes(flat(pricing.Put, 100, k, 0.03, 0.01, 0.3, 2))
		parity := 100*math.Exp(-0.01*2) - k*math.Exp(-0.03*2)
		assert.InDelta(t, parity, call.Value-put.Value, 1e-10, "strike=%g", k)
		assert.InDelta(t, math.Exp(-0.01*2), call.Delta-put.Delta, 1e-12)
		assert.InDelta(t, call.Gamma, put.Gamma, 1e-12)
		assert.InDelta(t, call.Vega, put.Vega, 1e-10)
	}
}

func TestGreeksMatchFiniteDifferences(t *testing.T) {
	const (
		s, k, r, q, sigma, T = 100.0, 95.0, 0.04, 0.02, 0.25, 1.5
		h                    = 1e-4
	)
	for _, typ := range []pricing.OptionType{pricing.Call, pricing.Put} {
		t.Run(string(typ), func(t *testing.T) {
			v := func(s, k, r, q, sigma, T float64) float64 {
				return BlackScholes(flat(typ, s, k, r, q, sigma, T)).Value
			}
			res := BlackScholes(flat(typ, s, k, r, q, sigma, T))

			delta := (v(s+h, k, r, q, sigma, T) - v(s-h, k, r, q, sigma, T)) / (2 * h)
			gamma := (v(s+h, k, r, q, sigma, T) - 2*res.Value + v(s-h, k, r, q, sigma, T)) / (h * h)
			vega := (v(s, k, r, q, sigma+h, T) - v(s, k, r, q, sigma-h, T)) / (2 * h)
			rho := (v(s, k, r+h, q, sigma, T) - v(s, k, r-h, q, sigma, T)) / (2 * h)
			divRho := (v(s, k, r, q+h, sigma, T) - v(s, k, r, q-h, sigma, T)) / (2 * h)
			strike := (v(s, k+h, r, q, sigma, T) - v(s, k-h, r, q, sigma, T)) / (2 * h)
			theta := -(v(s, k, r, q, sigma, T+h) - v(s, k, r, q, sigma, T-h)) / (2 * h)

			assert.InDelta(t, delta, res.Delta, 1e-6)
			assert.InDelta(t, gamma, res.Gamma, 1e-4)
			assert.InDelta(t, vega, res.Vega, 1e-5)
			assert.InDelta(t, rho, res.Rho, 1e-5)
			assert.InDelta(t, divRho, res.DividendRho, 1e-5)
			assert.InDelta(t, strike, res.StrikeSensitivity, 1e-6)
			assert.InDelta(t, theta, res.Theta, 1e-5)
		})
	}
}

func TestZeroVolatilityPricesIntrinsicForward(t *testing.T) {
	e := NewEuropeanEngine()
	setup(e, pricing.Call, 0)
	require.NoError(t, e.Calculate(context.Background()))
	res := e.Results()
	assert.InDelta(t, 100-100*math.Exp(-0.05), res.Value, 1e-10)
	assert.Equal(t, 1.0, res.Delta)
	assert.Equal(t, 0.0, res.Gamma)
	assert.Equal(t, 0.0, res.Vega)
	assert.InDelta(t, -math.Exp(-0.05), res.StrikeSensitivity, 1e-15)

	setup(e, pricing.Put, 0)
	require.NoError(t, e.Calculate(context.Background()))
	assert.Equal(t, 0.0, e.Results().Value)
}
