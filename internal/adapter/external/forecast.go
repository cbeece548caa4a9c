package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
)

// ForecastClient implements usecase.ForecastProvider against the revenue
// forecasting service. Each call returns one model's per-day points.
type ForecastClient struct {
	client *client
}

// NewForecastClient creates a new ForecastClient.
func NewForecastClient(cfg Config) *ForecastClient {
	return &ForecastClient{client: newClient(cfg)}
}

type forecastPointResponse struct {
	Date           string           `json:"date"`
	CurrentOTB     decimal.Decimal  `json:"current_otb"`
	PriorYearOTB   decimal.Decimal  `json:"prior_year_otb"`
	PriorYearFinal decimal.Decimal  `json:"prior_year_final"`
	Forecast       decimal.Decimal  `json:"forecast"`
	Lower          *decimal.Decimal `json:"lower,omitempty"`
	Upper          *decimal.Decimal `json:"upper,omitempty"`
}

// GetForecast fetches one model's daily forecast for a metric and range.
func (c *ForecastClient) GetForecast(ctx context.Context, model, metric string, from, to time.Time) ([]domain.ForecastPoint, error) {
	params := url.Values{}
	params.Set("model", model)
	params.Set("metric", metric)
	params.Set("start", domain.DateKey(from))
	params.Set("end", domain.DateKey(to))

	body, err := c.client.getJSON(ctx, "/v1/forecasts", params)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast %s/%s: %w", model, metric, err)
	}

	var parsed []forecastPointResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	points := make([]domain.ForecastPoint, 0, len(parsed))
	for _, p := range parsed {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("decode forecast date %q: %w", p.Date, err)
		}
		points = append(points, domain.NormalizeForecast(domain.ForecastPoint{
			Date:           date,
			CurrentOTB:     p.CurrentOTB,
			PriorYearOTB:   p.PriorYearOTB,
			PriorYearFinal: p.PriorYearFinal,
			Forecast:       p.Forecast,
			Lower:          p.Lower,
			Upper:          p.Upper,
		}))
	}
	return points, nil
}
