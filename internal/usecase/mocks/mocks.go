package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
)

// ErrCacheMiss is returned by MockCache for absent keys.
var ErrCacheMiss = errors.New("cache miss")

// MockCashUpRepository is an in-memory CashUpRepository with overridable
// behavior per method.
type MockCashUpRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.CashUp

	CreateFunc          func(ctx context.Context, record *domain.CashUp) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.CashUp, error)
	GetByDateFunc       func(ctx context.Context, date time.Time) (*domain.CashUp, error)
	UpdateFunc          func(ctx context.Context, record *domain.CashUp) error
	ListByDateRangeFunc func(ctx context.Context, from, to time.Time) ([]*domain.CashUp, error)
}

func NewMockCashUpRepository() *MockCashUpRepository {
	return &MockCashUpRepository{records: make(map[string]*domain.CashUp)}
}

func (m *MockCashUpRepository) Create(ctx context.Context, record *domain.CashUp) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *MockCashUpRepository) GetByID(ctx context.Context, id string) (*domain.CashUp, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, domain.ErrCashUpNotFound
}

func (m *MockCashUpRepository) GetByDate(ctx context.Context, date time.Time) (*domain.CashUp, error) {
	if m.GetByDateFunc != nil {
		return m.GetByDateFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.Date.Equal(date) {
			return r, nil
		}
	}
	return nil, domain.ErrCashUpNotFound
}

func (m *MockCashUpRepository) Update(ctx context.Context, record *domain.CashUp) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return domain.ErrCashUpNotFound
	}
	m.records[record.ID] = record
	return nil
}

func (m *MockCashUpRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.CashUp, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CashUp
	for _, r := range m.records {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockPaymentTotalsProvider stubs the external payment system.
type MockPaymentTotalsProvider struct {
	GetTotalsFunc func(ctx context.Context, date time.Time) (domain.ReportedTotals, error)
}

func NewMockPaymentTotalsProvider() *MockPaymentTotalsProvider {
	return &MockPaymentTotalsProvider{}
}

func (m *MockPaymentTotalsProvider) GetTotals(ctx context.Context, date time.Time) (domain.ReportedTotals, error) {
	if m.GetTotalsFunc != nil {
		return m.GetTotalsFunc(ctx, date)
	}
	return domain.ReportedTotals{}, nil
}

// MockForecastProvider stubs a forecast model endpoint.
type MockForecastProvider struct {
	GetForecastFunc func(ctx context.Context, model, metric string, from, to time.Time) ([]domain.ForecastPoint, error)
}

func NewMockForecastProvider() *MockForecastProvider {
	return &MockForecastProvider{}
}

func (m *MockForecastProvider) GetForecast(ctx context.Context, model, metric string, from, to time.Time) ([]domain.ForecastPoint, error) {
	if m.GetForecastFunc != nil {
		return m.GetForecastFunc(ctx, model, metric, from, to)
	}
	return nil, nil
}

// MockBudgetProvider stubs the budget collaborator.
type MockBudgetProvider struct {
	GetBudgetFunc func(ctx context.Context, from, to time.Time, budgetType string) (map[string]decimal.Decimal, error)
}

func NewMockBudgetProvider() *MockBudgetProvider {
	return &MockBudgetProvider{}
}

func (m *MockBudgetProvider) GetBudget(ctx context.Context, from, to time.Time, budgetType string) (map[string]decimal.Decimal, error) {
	if m.GetBudgetFunc != nil {
		return m.GetBudgetFunc(ctx, from, to, budgetType)
	}
	return nil, nil
}

// MockIDGenerator returns sequential IDs unless overridden.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%03d", m.next)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return nil, ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
