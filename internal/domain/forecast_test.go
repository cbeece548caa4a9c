package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func points(dates []string, forecasts []string) []ForecastPoint {
	out := make([]ForecastPoint, len(dates))
	for i := range dates {
		out[i] = ForecastPoint{Date: day(dates[i]), Forecast: dec(forecasts[i])}
	}
	return out
}

func TestBlend_UnweightedMean(t *testing.T) {
	dates := []string{"2026-03-02", "2026-03-03"}
	series := [][]ForecastPoint{
		points(dates, []string{"100", "200"}),
		points(dates, []string{"300", "400"}),
	}

	blended, err := Blend(series, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blended[0].Forecast.Equal(dec("200")) {
		t.Errorf("day 1 blend = %s, want 200", blended[0].Forecast)
	}
	if !blended[1].Forecast.Equal(dec("300")) {
		t.Errorf("day 2 blend = %s, want 300", blended[1].Forecast)
	}
}

func TestBlend_UnweightedMeanExact(t *testing.T) {
	dates := []string{"2026-03-02"}
	series := [][]ForecastPoint{
		points(dates, []string{"100"}),
		points(dates, []string{"200"}),
		points(dates, []string{"300"}),
	}

	blended, err := Blend(series, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean(100, 200, 300) must be exactly 200, not 199.99...98.
	if !blended[0].Forecast.Equal(dec("200")) {
		t.Errorf("three-way mean = %s, want exactly 200", blended[0].Forecast)
	}
}

func TestBlend_Weighted(t *testing.T) {
	dates := []string{"2026-03-02"}
	series := [][]ForecastPoint{
		points(dates, []string{"100"}),
		points(dates, []string{"200"}),
	}

	blended, err := Blend(series, []decimal.Decimal{dec("0.75"), dec("0.25")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blended[0].Forecast.Equal(dec("125")) {
		t.Errorf("weighted blend = %s, want 125", blended[0].Forecast)
	}
}

func TestBlend_WeightValidation(t *testing.T) {
	dates := []string{"2026-03-02"}
	series := [][]ForecastPoint{
		points(dates, []string{"100"}),
		points(dates, []string{"200"}),
	}

	tests := []struct {
		name    string
		weights []decimal.Decimal
	}{
		{"wrong count", []decimal.Decimal{dec("1")}},
		{"sum below one", []decimal.Decimal{dec("0.5"), dec("0.4")}},
		{"sum above one", []decimal.Decimal{dec("0.6"), dec("0.6")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Blend(series, tt.weights); !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("expected ErrInvalidWeights, got %v", err)
			}
		})
	}
}

func TestBlend_MisalignedSeriesFailFast(t *testing.T) {
	series := [][]ForecastPoint{
		points([]string{"2026-03-02", "2026-03-03"}, []string{"100", "200"}),
		points([]string{"2026-03-02", "2026-03-04"}, []string{"300", "400"}),
	}
	if _, err := Blend(series, nil); !errors.Is(err, ErrMisalignedSeries) {
		t.Errorf("expected ErrMisalignedSeries, got %v", err)
	}

	short := [][]ForecastPoint{
		points([]string{"2026-03-02", "2026-03-03"}, []string{"100", "200"}),
		points([]string{"2026-03-02"}, []string{"300"}),
	}
	if _, err := Blend(short, nil); !errors.Is(err, ErrMisalignedSeries) {
		t.Errorf("expected ErrMisalignedSeries for length mismatch, got %v", err)
	}
}

func TestBlend_OTBFloor(t *testing.T) {
	base := []ForecastPoint{{Date: day("2026-03-02"), Forecast: dec("100"), CurrentOTB: dec("150")}}
	other := []ForecastPoint{{Date: day("2026-03-02"), Forecast: dec("120"), CurrentOTB: dec("150")}}

	blended, err := Blend([][]ForecastPoint{base, other}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Mean is 110, below confirmed OTB of 150, so the floor applies.
	if !blended[0].Forecast.Equal(dec("150")) {
		t.Errorf("blend = %s, want floor at OTB 150", blended[0].Forecast)
	}

	if blended[0].Forecast.LessThan(blended[0].CurrentOTB) {
		t.Error("blended forecast may never understate confirmed OTB")
	}
}

func TestBlend_NoSeries(t *testing.T) {
	if _, err := Blend(nil, nil); !errors.Is(err, ErrNoSeries) {
		t.Errorf("expected ErrNoSeries, got %v", err)
	}
}

func TestNormalizeForecast(t *testing.T) {
	neg := NormalizeForecast(ForecastPoint{Forecast: dec("-5")})
	if !neg.Forecast.IsZero() {
		t.Errorf("negative forecast should clamp to zero, got %s", neg.Forecast)
	}

	lower := dec("50")
	upper := dec("10")
	p := NormalizeForecast(ForecastPoint{Forecast: dec("30"), Lower: &lower, Upper: &upper})
	if p.Lower.GreaterThan(p.Forecast) || p.Upper.LessThan(p.Forecast) {
		t.Errorf("bounds not ordered around forecast: lower=%s forecast=%s upper=%s", p.Lower, p.Forecast, p.Upper)
	}
}
