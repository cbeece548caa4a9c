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

// BudgetClient implements usecase.BudgetProvider against the planning
// service's budget endpoint.
type BudgetClient struct {
	client *client
}

// NewBudgetClient creates a new BudgetClient.
func NewBudgetClient(cfg Config) *BudgetClient {
	return &BudgetClient{client: newClient(cfg)}
}

type budgetEntryResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// GetBudget fetches per-day budget values keyed by YYYY-MM-DD date.
func (c *BudgetClient) GetBudget(ctx context.Context, from, to time.Time, budgetType string) (map[string]decimal.Decimal, error) {
	params := url.Values{}
	params.Set("start", domain.DateKey(from))
	params.Set("end", domain.DateKey(to))
	if budgetType != "" {
		params.Set("type", budgetType)
	}

	body, err := c.client.getJSON(ctx, "/v1/budgets", params)
	if err != nil {
		return nil, fmt.Errorf("fetch budget: %w", err)
	}

	var parsed []budgetEntryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode budget: %w", err)
	}

	budget := make(map[string]decimal.Decimal, len(parsed))
	for _, e := range parsed {
		budget[e.Date] = e.Amount
	}
	return budget, nil
}
