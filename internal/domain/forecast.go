package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastPoint is one day's value from one forecast model, together with
// the on-the-books and prior-year context the aggregator needs.
type ForecastPoint struct {
	Date           time.Time
	CurrentOTB     decimal.Decimal
	PriorYearOTB   decimal.Decimal
	PriorYearFinal decimal.Decimal
	Forecast       decimal.Decimal
	Lower          *decimal.Decimal
	Upper          *decimal.Decimal
}

// NormalizeForecast clamps a model forecast to be non-negative and orders
// the confidence bounds around it when present.
func NormalizeForecast(p ForecastPoint) ForecastPoint {
	if p.Forecast.IsNegative() {
		p.Forecast = decimal.Zero
	}
	if p.Lower != nil && p.Lower.GreaterThan(p.Forecast) {
		v := p.Forecast
		p.Lower = &v
	}
	if p.Upper != nil && p.Upper.LessThan(p.Forecast) {
		v := p.Forecast
		p.Upper = &v
	}
	return p
}

// Blend merges independent model forecast series into one. All series must
// share the same date axis; a mismatch is an integration error and fails
// fast rather than corrupting every downstream bucket. With no weights each
// date's blend is the unweighted mean. Supplied weights must match the
// series count and sum to exactly 1 (validated, not normalized).
//
// After blending the floor constraint applies: a blended figure is raised
// to a positive same-date confirmed OTB value, since a forecast may never
// understate bookings already on record.
func Blend(series [][]ForecastPoint, weights []decimal.Decimal) ([]ForecastPoint, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	if weights != nil {
		if len(weights) != len(series) {
			return nil, ErrInvalidWeights
		}
		sum := decimal.Zero
		for _, w := range weights {
			sum = sum.Add(w)
		}
		if !sum.Equal(decimal.NewFromInt(1)) {
			return nil, ErrInvalidWeights
		}
	}

	base := series[0]
	for _, s := range series[1:] {
		if len(s) != len(base) {
			return nil, ErrMisalignedSeries
		}
		for i := range s {
			if !s[i].Date.Equal(base[i].Date) {
				return nil, ErrMisalignedSeries
			}
		}
	}

	out := make([]ForecastPoint, len(base))
	for i, p := range base {
		// The unweighted mean sums first and divides once; a per-series
		// 1/n multiplier loses precision.
		blended := decimal.Zero
		if weights == nil {
			for _, s := range series {
				blended = blended.Add(s[i].Forecast)
			}
			blended = blended.Div(decimal.NewFromInt(int64(len(series))))
		} else {
			for si, s := range series {
				blended = blended.Add(s[i].Forecast.Mul(weights[si]))
			}
		}

		merged := ForecastPoint{
			Date:           p.Date,
			CurrentOTB:     p.CurrentOTB,
			PriorYearOTB:   p.PriorYearOTB,
			PriorYearFinal: p.PriorYearFinal,
			Forecast:       blended,
		}
		if merged.CurrentOTB.IsPositive() && merged.CurrentOTB.GreaterThan(merged.Forecast) {
			merged.Forecast = merged.CurrentOTB
		}
		out[i] = NormalizeForecast(merged)
	}
	return out, nil
}
