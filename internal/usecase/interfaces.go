package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
)

// CashUpRepository defines data access for cash-up records.
type CashUpRepository interface {
	Create(ctx context.Context, record *domain.CashUp) error
	GetByID(ctx context.Context, id string) (*domain.CashUp, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.CashUp, error)
	Update(ctx context.Context, record *domain.CashUp) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.CashUp, error)
}

// PaymentTotalsProvider is the external payment system: the reported side
// of the reconciliation.
type PaymentTotalsProvider interface {
	GetTotals(ctx context.Context, date time.Time) (domain.ReportedTotals, error)
}

// ForecastProvider returns one model's per-day forecast points.
type ForecastProvider interface {
	GetForecast(ctx context.Context, model string, metric string, from, to time.Time) ([]domain.ForecastPoint, error)
}

// BudgetProvider returns budget values keyed by date.
type BudgetProvider interface {
	GetBudget(ctx context.Context, from, to time.Time, budgetType string) (map[string]decimal.Decimal, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Clock supplies "today" so the past/future partition is testable.
type Clock func() time.Time
