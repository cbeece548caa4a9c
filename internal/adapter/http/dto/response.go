package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/grid"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DenominationResponse is the persisted wire shape of one denomination.
// Exactly one of quantity and valueEntered is non-null; totalAmount is the
// pre-rounded derived product so consumers never re-derive it.
type DenominationResponse struct {
	CountType         string           `json:"countType"`
	DenominationType  string           `json:"denominationType"`
	DenominationValue decimal.Decimal  `json:"denominationValue"`
	Quantity          *int             `json:"quantity"`
	ValueEntered      *decimal.Decimal `json:"valueEntered"`
	TotalAmount       decimal.Decimal  `json:"totalAmount"`
}

// DenominationFromDomain converts a counted denomination to the wire shape.
func DenominationFromDomain(d domain.DenominationCount) DenominationResponse {
	resp := DenominationResponse{
		CountType:         string(d.Pool),
		DenominationType:  string(d.Kind),
		DenominationValue: d.Value,
		TotalAmount:       d.Amount(),
	}
	switch d.Mode.Kind {
	case domain.ModeQuantity:
		q := d.Mode.Quantity
		resp.Quantity = &q
	case domain.ModeValue:
		v := d.Mode.Value
		resp.ValueEntered = &v
	}
	return resp
}

// CardMachineResponse represents one terminal's split.
type CardMachineResponse struct {
	Name         string          `json:"name"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	AmexAmount   decimal.Decimal `json:"amexAmount"`
	VisaMcAmount decimal.Decimal `json:"visaMcAmount"`
}

// ReconciliationRowResponse is one category's banked/reported/variance row.
type ReconciliationRowResponse struct {
	Category string          `json:"category"`
	Banked   decimal.Decimal `json:"banked"`
	Reported decimal.Decimal `json:"reported"`
	Variance decimal.Decimal `json:"variance"`
}

func rowFromDomain(r domain.ReconciliationRow) ReconciliationRowResponse {
	return ReconciliationRowResponse{
		Category: string(r.Category),
		Banked:   r.Banked,
		Reported: r.Reported,
		Variance: r.Variance,
	}
}

// CashUpResponse represents a full cash-up record.
type CashUpResponse struct {
	ID            string                      `json:"id"`
	Date          string                      `json:"date"`
	Denominations []DenominationResponse      `json:"denominations"`
	CardMachines  []CardMachineResponse       `json:"cardMachines"`
	Rows          []ReconciliationRowResponse `json:"rows"`
	Totals        ReconciliationRowResponse   `json:"totals"`
	Status        string                      `json:"status"`
	Notes         string                      `json:"notes"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// CashUpFromDomain converts a domain record to a response.
func CashUpFromDomain(c *domain.CashUp) *CashUpResponse {
	denoms := make([]DenominationResponse, len(c.Denominations))
	for i, d := range c.Denominations {
		denoms[i] = DenominationFromDomain(d)
	}

	machines := make([]CardMachineResponse, len(c.CardMachines))
	for i, m := range c.CardMachines {
		machines[i] = CardMachineResponse{
			Name:         m.Name,
			TotalAmount:  m.Total,
			AmexAmount:   m.Amex,
			VisaMcAmount: m.VisaMc,
		}
	}

	rows := make([]ReconciliationRowResponse, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = rowFromDomain(r)
	}

	return &CashUpResponse{
		ID:            c.ID,
		Date:          domain.DateKey(c.Date),
		Denominations: denoms,
		CardMachines:  machines,
		Rows:          rows,
		Totals:        rowFromDomain(c.Totals),
		Status:        string(c.Status),
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ReconciliationResponse carries the rows and the totals row.
type ReconciliationResponse struct {
	Rows   []ReconciliationRowResponse `json:"rows"`
	Totals ReconciliationRowResponse   `json:"totals"`
}

// ReconciliationFromDomain builds the rows response.
func ReconciliationFromDomain(rows []domain.ReconciliationRow, totals domain.ReconciliationRow) ReconciliationResponse {
	out := make([]ReconciliationRowResponse, len(rows))
	for i, r := range rows {
		out[i] = rowFromDomain(r)
	}
	return ReconciliationResponse{Rows: out, Totals: rowFromDomain(totals)}
}

// PeriodBucketResponse is one weekly or monthly rollup.
type PeriodBucketResponse struct {
	Key               string          `json:"key"`
	Label             string          `json:"label"`
	Actual            decimal.Decimal `json:"actual"`
	OTB               decimal.Decimal `json:"otb"`
	ForecastRemaining decimal.Decimal `json:"forecast_remaining"`
	Pickup            decimal.Decimal `json:"pickup"`
	Projected         decimal.Decimal `json:"projected"`
	Budget            decimal.Decimal `json:"budget"`
	PriorYear         decimal.Decimal `json:"prior_year"`
	Variance          decimal.Decimal `json:"variance"`
	VariancePct       decimal.Decimal `json:"variance_pct"`
	PastDays          int             `json:"past_days"`
	FutureDays        int             `json:"future_days"`
}

// PeriodBucketsFromDomain converts buckets to responses.
func PeriodBucketsFromDomain(buckets []domain.PeriodBucket) []PeriodBucketResponse {
	out := make([]PeriodBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = PeriodBucketResponse{
			Key:               domain.DateKey(b.Key),
			Label:             b.Label,
			Actual:            b.Actual,
			OTB:               b.OTB,
			ForecastRemaining: b.ForecastRemaining,
			Pickup:            b.Pickup,
			Projected:         b.Projected,
			Budget:            b.Budget,
			PriorYear:         b.PriorYear,
			Variance:          b.Variance,
			VariancePct:       b.VariancePct,
			PastDays:          b.PastDays,
			FutureDays:        b.FutureDays,
		}
	}
	return out
}

// SettingsResponse represents cash-handling settings.
type SettingsResponse struct {
	ExpectedTillFloat decimal.Decimal `json:"expectedTillFloat"`
	PettyCashTarget   decimal.Decimal `json:"pettyCashTarget"`
	SafeCashTarget    decimal.Decimal `json:"safeCashTarget"`
	VarianceThreshold decimal.Decimal `json:"varianceThreshold"`
	DefaultReportDays int             `json:"defaultReportDays"`
}

// SettingsFromDomain converts settings to a response.
func SettingsFromDomain(s domain.Settings) SettingsResponse {
	return SettingsResponse{
		ExpectedTillFloat: s.ExpectedTillFloat,
		PettyCashTarget:   s.PettyCashTarget,
		SafeCashTarget:    s.SafeCashTarget,
		VarianceThreshold: s.VarianceThreshold,
		DefaultReportDays: s.DefaultReportDays,
	}
}

// SelectionStatsResponse is the live summary of a selection.
type SelectionStatsResponse struct {
	Count   int             `json:"count"`
	Sum     decimal.Decimal `json:"sum"`
	Average decimal.Decimal `json:"average"`
}

// StatsFromGrid converts selection stats, or nil when no summary applies.
func StatsFromGrid(s *grid.Stats) *SelectionStatsResponse {
	if s == nil {
		return nil
	}
	return &SelectionStatsResponse{Count: s.Count, Sum: s.Sum, Average: s.Average}
}

// SerializedSelectionResponse carries clipboard-ready selection text.
type SerializedSelectionResponse struct {
	Text string `json:"text"`
}
