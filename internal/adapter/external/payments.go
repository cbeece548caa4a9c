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

// PaymentsClient implements usecase.PaymentTotalsProvider against the
// payment platform's daily totals endpoint.
type PaymentsClient struct {
	client *client
}

// NewPaymentsClient creates a new PaymentsClient.
func NewPaymentsClient(cfg Config) *PaymentsClient {
	return &PaymentsClient{client: newClient(cfg)}
}

type paymentTotalsResponse struct {
	Cash          decimal.Decimal `json:"cash"`
	ManualVisaMc  decimal.Decimal `json:"manual_visa_mc"`
	ManualAmex    decimal.Decimal `json:"manual_amex"`
	GatewayVisaMc decimal.Decimal `json:"gateway_visa_mc"`
	GatewayAmex   decimal.Decimal `json:"gateway_amex"`
	BACS          decimal.Decimal `json:"bacs"`
}

// GetTotals fetches the reported payment totals for one business date.
func (c *PaymentsClient) GetTotals(ctx context.Context, date time.Time) (domain.ReportedTotals, error) {
	params := url.Values{}
	params.Set("date", domain.DateKey(date))

	body, err := c.client.getJSON(ctx, "/v1/payments/daily-totals", params)
	if err != nil {
		return domain.ReportedTotals{}, fmt.Errorf("fetch payment totals: %w", err)
	}

	var parsed paymentTotalsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.ReportedTotals{}, fmt.Errorf("decode payment totals: %w", err)
	}

	return domain.ReportedTotals{
		Cash:          parsed.Cash,
		ManualVisaMc:  parsed.ManualVisaMc,
		ManualAmex:    parsed.ManualAmex,
		GatewayVisaMc: parsed.GatewayVisaMc,
		GatewayAmex:   parsed.GatewayAmex,
		BACS:          parsed.BACS,
	}, nil
}
