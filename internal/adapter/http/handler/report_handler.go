package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/adapter/http/dto"
	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/grid"
	"github.com/ratiohq/cashup/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	Consolidated(ctx context.Context, input usecase.ConsolidatedInput) ([]domain.PeriodBucket, error)
}

// ReportHandler handles consolidated report requests.
type ReportHandler struct {
	reportUC ReportService
	grids    *usecase.GridStore
	settings func() domain.Settings
	clock    usecase.Clock
}

// NewReportHandler creates a new ReportHandler. The settings accessor
// supplies the default range length when the caller omits dates.
func NewReportHandler(reportUC ReportService, grids *usecase.GridStore, settings func() domain.Settings, clock usecase.Clock) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, grids: grids, settings: settings, clock: clock}
}

// Consolidated builds the weekly/monthly rollup for a metric and range.
// With no explicit range the report covers the site's default number of
// days ending today; a days query parameter overrides the length.
func (h *ReportHandler) Consolidated(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to time.Time
	if q.Get("start") == "" && q.Get("end") == "" {
		days := parseIntQuery(r, "days", h.settings().DefaultReportDays)
		if days < 1 {
			writeError(w, http.StatusBadRequest, "days must be at least 1", "")
			return
		}
		now := h.clock()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		from = to.AddDate(0, 0, -(days - 1))
	} else {
		var err error
		from, err = parseDate(q.Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date", err.Error())
			return
		}
		to, err = parseDate(q.Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
			return
		}
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "end date before start date", "")
		return
	}

	input := usecase.ConsolidatedInput{
		Metric:      q.Get("metric"),
		Granularity: domain.Granularity(q.Get("granularity")),
		From:        from,
		To:          to,
		BudgetType:  q.Get("budget_type"),
	}
	if models := q.Get("models"); models != "" {
		input.Models = strings.Split(models, ",")
	}
	if weights := q.Get("weights"); weights != "" {
		for _, raw := range strings.Split(weights, ",") {
			d, err := decimal.NewFromString(strings.TrimSpace(raw))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid weight", err.Error())
				return
			}
			input.Weights = append(input.Weights, d)
		}
	}

	buckets, err := h.reportUC.Consolidated(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	h.publishGrid(input, buckets)
	writeJSON(w, http.StatusOK, dto.PeriodBucketsFromDomain(buckets))
}

// publishGrid registers the rendered report table for selection.
func (h *ReportHandler) publishGrid(input usecase.ConsolidatedInput, buckets []domain.PeriodBucket) {
	if h.grids == nil {
		return
	}
	data := make(grid.Grid, 0, len(buckets))
	for _, b := range buckets {
		data = append(data, []grid.Value{
			grid.TextValue(b.Label),
			grid.NumberValue(b.Actual),
			grid.NumberValue(b.OTB),
			grid.NumberValue(b.Pickup),
			grid.NumberValue(b.Projected),
			grid.NumberValue(b.Budget),
			grid.NumberValue(b.PriorYear),
			grid.NumberValue(b.Variance),
		})
	}
	h.grids.Put("report:"+input.Metric+":"+string(input.Granularity), data)
}
