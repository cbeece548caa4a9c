package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/infrastructure/metrics"
)

// ReportUseCase consolidates daily actual, on-the-books, and forecast
// figures into weekly or monthly buckets with budget and prior-year
// comparison. Forecasts from independent models are blended before
// aggregation.
type ReportUseCase struct {
	cashups   CashUpRepository
	forecasts ForecastProvider
	budgets   BudgetProvider
	cache     Cache
	clock     Clock
	logger    zerolog.Logger
	metrics   *metrics.Metrics

	gate     LatestGate
	cacheTTL time.Duration
}

// NewReportUseCase creates a new ReportUseCase. Metrics may be nil.
func NewReportUseCase(cashups CashUpRepository, forecasts ForecastProvider, budgets BudgetProvider, cache Cache, clock Clock, logger zerolog.Logger, m *metrics.Metrics) *ReportUseCase {
	return &ReportUseCase{
		cashups:   cashups,
		forecasts: forecasts,
		budgets:   budgets,
		cache:     cache,
		clock:     clock,
		logger:    logger,
		metrics:   m,
		cacheTTL:  10 * time.Minute,
	}
}

// ConsolidatedInput selects the report to build.
type ConsolidatedInput struct {
	Metric      string
	Granularity domain.Granularity
	From        time.Time
	To          time.Time
	Models      []string
	Weights     []decimal.Decimal
	BudgetType  string
}

func (in ConsolidatedInput) key() string {
	weights := make([]string, len(in.Weights))
	for i, w := range in.Weights {
		weights[i] = w.String()
	}
	return fmt.Sprintf("report:%s:%s:%s:%s:%s:%s:%s",
		in.Metric, in.Granularity, domain.DateKey(in.From), domain.DateKey(in.To),
		in.BudgetType, strings.Join(in.Models, ","), strings.Join(weights, ","))
}

// Consolidated builds the period buckets for the requested range. Results
// are cached by query key; a fetch that completes after the query key has
// moved on does not write its result back.
func (uc *ReportUseCase) Consolidated(ctx context.Context, input ConsolidatedInput) ([]domain.PeriodBucket, error) {
	metric, err := domain.MetricByName(input.Metric)
	if err != nil {
		return nil, err
	}

	start := uc.clock()
	key := input.key()
	token := uc.gate.Begin(key)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var buckets []domain.PeriodBucket
			if err := json.Unmarshal(raw, &buckets); err == nil {
				if uc.metrics != nil {
					uc.metrics.ReportCacheHits.Inc()
				}
				return buckets, nil
			}
		}
	}

	blended, err := uc.blendedForecast(ctx, input)
	if err != nil {
		return nil, err
	}

	budget := uc.budgetSeries(ctx, input)
	days := uc.dailyRecords(ctx, input, blended)

	cutoff := midnight(uc.clock().UTC())
	buckets, err := domain.Consolidate(days, budget, cutoff, input.Granularity, metric)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if uc.gate.Current(token) {
			if raw, err := json.Marshal(buckets); err == nil {
				if err := uc.cache.Set(ctx, key, raw, uc.cacheTTL); err != nil {
					uc.logger.Warn().Err(err).Msg("failed to cache consolidated report")
				}
			}
		} else if uc.metrics != nil {
			uc.metrics.ReportSuperseded.Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReportsBuilt.WithLabelValues(string(input.Granularity)).Inc()
		uc.metrics.ReportDuration.Observe(uc.clock().Sub(start).Seconds())
	}

	return buckets, nil
}

// blendedForecast fetches each model's series and blends them. A single
// model passes through the blend unchanged apart from the OTB floor.
func (uc *ReportUseCase) blendedForecast(ctx context.Context, input ConsolidatedInput) ([]domain.ForecastPoint, error) {
	models := input.Models
	if len(models) == 0 {
		models = []string{"prophet"}
	}

	series := make([][]domain.ForecastPoint, 0, len(models))
	for _, model := range models {
		points, err := uc.forecasts.GetForecast(ctx, model, input.Metric, input.From, input.To)
		if err != nil {
			uc.logger.Warn().Err(err).Str("model", model).Msg("forecast unavailable, skipping model")
			continue
		}
		series = append(series, points)
	}
	if len(series) == 0 {
		// No forecast at all degrades to an empty series, not an error.
		return nil, nil
	}

	// Weights were supplied for the full model list; if any model dropped
	// out they no longer apply.
	weights := input.Weights
	if len(weights) != len(series) {
		weights = nil
	}
	return domain.Blend(series, weights)
}

func (uc *ReportUseCase) budgetSeries(ctx context.Context, input ConsolidatedInput) map[string]decimal.Decimal {
	budget, err := uc.budgets.GetBudget(ctx, input.From, input.To, input.BudgetType)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("budget unavailable, treating as zero")
		return nil
	}
	return budget
}

// dailyRecords lines up realized figures from finalized cash-ups with the
// blended forecast points.
func (uc *ReportUseCase) dailyRecords(ctx context.Context, input ConsolidatedInput, blended []domain.ForecastPoint) []domain.DailyRecord {
	actuals := map[string]decimal.Decimal{}
	if records, err := uc.cashups.ListByDateRange(ctx, input.From, input.To); err == nil {
		for _, r := range records {
			actuals[domain.DateKey(r.Date)] = r.Totals.Banked
		}
	} else {
		uc.logger.Warn().Err(err).Msg("cash-up history unavailable for report")
	}

	days := make([]domain.DailyRecord, 0, len(blended))
	seen := map[string]bool{}
	for _, p := range blended {
		key := domain.DateKey(p.Date)
		seen[key] = true
		days = append(days, domain.DailyRecord{
			Date:      p.Date,
			Actual:    actuals[key],
			OTB:       p.CurrentOTB,
			Forecast:  p.Forecast,
			PriorYear: p.PriorYearFinal,
		})
	}

	// Days with realized figures but no forecast point still count.
	for d := midnight(input.From); !d.After(input.To); d = d.AddDate(0, 0, 1) {
		key := domain.DateKey(d)
		if seen[key] {
			continue
		}
		if actual, ok := actuals[key]; ok {
			days = append(days, domain.DailyRecord{Date: d, Actual: actual})
		}
	}
	return days
}
