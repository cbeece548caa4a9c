package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity selects the period bucketing for consolidated reports.
type Granularity string

const (
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// DailyRecord is one day's figures feeding the period aggregator. Actual
// is the realized value and only counts for days before the cutoff; OTB
// and Forecast only count for days on or after it. PriorYear always counts.
type DailyRecord struct {
	Date      time.Time
	Actual    decimal.Decimal
	OTB       decimal.Decimal
	Forecast  decimal.Decimal
	PriorYear decimal.Decimal
}

// PeriodBucket is a week's or month's rollup of daily records.
type PeriodBucket struct {
	Key               time.Time // Monday of the ISO week, or first of the month
	Label             string
	Actual            decimal.Decimal
	OTB               decimal.Decimal
	ForecastRemaining decimal.Decimal
	Pickup            decimal.Decimal
	Projected         decimal.Decimal
	Budget            decimal.Decimal
	PriorYear         decimal.Decimal
	Variance          decimal.Decimal
	VariancePct       decimal.Decimal
	PastDays          int
	FutureDays        int
}

// WeekStart returns the Monday of the ISO week containing date. The week
// boundary is Mon-Sun regardless of locale.
func WeekStart(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return time.Date(date.Year(), date.Month(), date.Day()-(weekday-1), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month containing date.
func MonthStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func bucketKey(date time.Time, granularity Granularity) (time.Time, error) {
	switch granularity {
	case GranularityWeekly:
		return WeekStart(date), nil
	case GranularityMonthly:
		return MonthStart(date), nil
	default:
		return time.Time{}, ErrUnknownGranularity
	}
}

func bucketLabel(key time.Time, granularity Granularity) string {
	if granularity == GranularityWeekly {
		_, week := key.ISOWeek()
		sunday := key.AddDate(0, 0, 6)
		return fmt.Sprintf("Wk %d (%s - %s)", week, key.Format("02 Jan"), sunday.Format("02 Jan"))
	}
	return key.Format("Jan 2006")
}

// DateKey formats a date the way budget series are keyed.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

// Consolidate buckets daily records into weekly or monthly summaries.
// Days strictly before the cutoff contribute their realized value; days on
// or after it contribute OTB and remaining forecast. Budget values are
// looked up per date and default to zero when absent. Percentage-type
// metrics aggregate as day-count-weighted averages instead of sums,
// branching on the metric's declared aggregation kind.
func Consolidate(days []DailyRecord, budget map[string]decimal.Decimal, cutoff time.Time, granularity Granularity, metric Metric) ([]PeriodBucket, error) {
	type accum struct {
		actual, otb, forecast, priorYear, budget decimal.Decimal
		pastDays, futureDays                     int
	}

	buckets := map[time.Time]*accum{}
	for _, day := range days {
		key, err := bucketKey(day.Date, granularity)
		if err != nil {
			return nil, err
		}
		a, ok := buckets[key]
		if !ok {
			a = &accum{}
			buckets[key] = a
		}

		if day.Date.Before(cutoff) {
			a.actual = a.actual.Add(day.Actual)
			a.pastDays++
		} else {
			a.otb = a.otb.Add(day.OTB)
			a.forecast = a.forecast.Add(day.Forecast)
			a.futureDays++
		}
		a.priorYear = a.priorYear.Add(day.PriorYear)
		if b, ok := budget[DateKey(day.Date)]; ok {
			a.budget = a.budget.Add(b)
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]PeriodBucket, 0, len(keys))
	for _, key := range keys {
		a := buckets[key]
		out = append(out, deriveBucket(key, a.actual, a.otb, a.forecast, a.priorYear, a.budget, a.pastDays, a.futureDays, granularity, metric))
	}
	return out, nil
}

func deriveBucket(key time.Time, actual, otb, forecast, priorYear, budgetSum decimal.Decimal, pastDays, futureDays int, granularity Granularity, metric Metric) PeriodBucket {
	totalDays := pastDays + futureDays
	projected := actual.Add(forecast)

	if metric.Aggregation == AggregateAverage {
		if totalDays > 0 {
			projected = projected.Div(decimal.NewFromInt(int64(totalDays)))
			priorYear = priorYear.Div(decimal.NewFromInt(int64(totalDays)))
			budgetSum = budgetSum.Div(decimal.NewFromInt(int64(totalDays)))
		}
		if pastDays > 0 {
			actual = actual.Div(decimal.NewFromInt(int64(pastDays)))
		}
		if futureDays > 0 {
			otb = otb.Div(decimal.NewFromInt(int64(futureDays)))
			forecast = forecast.Div(decimal.NewFromInt(int64(futureDays)))
		}
	}

	pickup := forecast.Sub(otb)
	if pickup.IsNegative() {
		// A forecast below OTB is already fully realized by OTB.
		pickup = decimal.Zero
	}

	variancePct := decimal.Zero
	if budgetSum.IsPositive() {
		variancePct = projected.Div(budgetSum).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	}

	return PeriodBucket{
		Key:               key,
		Label:             bucketLabel(key, granularity),
		Actual:            actual,
		OTB:               otb,
		ForecastRemaining: forecast,
		Pickup:            pickup,
		Projected:         projected,
		Budget:            budgetSum,
		PriorYear:         priorYear,
		Variance:          projected.Sub(priorYear),
		VariancePct:       variancePct,
		PastDays:          pastDays,
		FutureDays:        futureDays,
	}
}
