package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/infrastructure/metrics"
)

// CashUpUseCase handles the daily cash-up workflow: create a draft, save
// counted denominations and card machine splits, recompute reconciliation
// rows against externally reported totals, and finalize.
type CashUpUseCase struct {
	repo     CashUpRepository
	payments PaymentTotalsProvider
	cache    Cache
	idGen    IDGenerator
	clock    Clock
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	totalsTTL time.Duration
}

// NewCashUpUseCase creates a new CashUpUseCase. Metrics may be nil.
func NewCashUpUseCase(repo CashUpRepository, payments PaymentTotalsProvider, cache Cache, idGen IDGenerator, clock Clock, logger zerolog.Logger, m *metrics.Metrics) *CashUpUseCase {
	return &CashUpUseCase{
		repo:      repo,
		payments:  payments,
		cache:     cache,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		metrics:   m,
		totalsTTL: 5 * time.Minute,
	}
}

// CreateCashUp creates a draft record for a date. The date is truncated to
// midnight UTC; one record exists per business day.
func (uc *CashUpUseCase) CreateCashUp(ctx context.Context, date time.Time) (*domain.CashUp, error) {
	date = midnight(date)
	if existing, err := uc.repo.GetByDate(ctx, date); err == nil && existing != nil {
		return nil, domain.ErrCashUpExists
	}

	now := uc.clock().UTC()
	record := &domain.CashUp{
		ID:        uc.idGen.Generate(),
		Date:      date,
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	record.Recompute(uc.reportedTotals(ctx, date))

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CashUpsCreated.Inc()
	}

	return record, nil
}

// GetCashUpByDate fetches a record by business date. Draft records get
// their rows recomputed against the latest reported totals; finalized
// records are returned exactly as persisted and are never recomputed.
func (uc *CashUpUseCase) GetCashUpByDate(ctx context.Context, date time.Time) (*domain.CashUp, error) {
	record, err := uc.repo.GetByDate(ctx, midnight(date))
	if err != nil {
		return nil, err
	}
	if !record.Final() {
		record.Recompute(uc.reportedTotals(ctx, record.Date))
	}
	return record, nil
}

// DenominationInput is one denomination entry as submitted by a client.
// Exactly one of Quantity or ValueEntered should be set; conflicting or
// invalid input resolves by the ledger's write-boundary coercion.
type DenominationInput struct {
	Pool         domain.Pool
	Kind         domain.DenominationKind
	Value        decimal.Decimal
	Quantity     *int
	ValueEntered *decimal.Decimal
}

// CardMachineInput is one card terminal's figures as submitted.
type CardMachineInput struct {
	Name  string
	Total decimal.Decimal
	Amex  decimal.Decimal
}

// SaveCashUpInput carries a full snapshot save.
type SaveCashUpInput struct {
	ID            string
	Denominations []DenominationInput
	CardMachines  []CardMachineInput
	Notes         string
}

// SaveCashUp replaces the record's counted state and recomputes all
// derived rows before persisting. Saving a finalized record is rejected
// before any recomputation.
func (uc *CashUpUseCase) SaveCashUp(ctx context.Context, input SaveCashUpInput) (*domain.CashUp, error) {
	record, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if record.Final() {
		return nil, domain.ErrCashUpFinalized
	}

	ledger := domain.NewDenominationLedger()
	for _, d := range input.Denominations {
		switch {
		case d.ValueEntered != nil:
			ledger.SetValue(d.Pool, d.Kind, d.Value, *d.ValueEntered)
		case d.Quantity != nil:
			ledger.SetQuantity(d.Pool, d.Kind, d.Value, *d.Quantity)
		}
	}
	record.Denominations = ledger.Counts()

	machines := make([]domain.CardMachine, 0, len(input.CardMachines))
	for _, m := range input.CardMachines {
		machines = append(machines, domain.NewCardMachine(m.Name, m.Total, m.Amex))
	}
	record.CardMachines = machines
	record.Notes = input.Notes

	record.Recompute(uc.reportedTotals(ctx, record.Date))
	record.UpdatedAt = uc.clock().UTC()

	if err := uc.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CashUpSaves.Inc()
		variance, _ := record.Totals.Variance.Abs().Float64()
		uc.metrics.VarianceObserved.Observe(variance)
	}

	return record, nil
}

// FinalizeCashUp irreversibly transitions a draft to final. The persisted
// snapshot carries the rows computed at finalization time.
func (uc *CashUpUseCase) FinalizeCashUp(ctx context.Context, id string) (*domain.CashUp, error) {
	record, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Final() {
		return nil, domain.ErrCashUpFinalized
	}

	record.Recompute(uc.reportedTotals(ctx, record.Date))
	record.Status = domain.StatusFinal
	record.UpdatedAt = uc.clock().UTC()

	if err := uc.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CashUpsFinalized.Inc()
	}

	return record, nil
}

// GetReconciliation returns the current rows and totals for a record.
func (uc *CashUpUseCase) GetReconciliation(ctx context.Context, id string) ([]domain.ReconciliationRow, domain.ReconciliationRow, error) {
	record, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ReconciliationRow{}, err
	}
	if !record.Final() {
		record.Recompute(uc.reportedTotals(ctx, record.Date))
	}
	return record.Rows, record.Totals, nil
}

// reportedTotals fetches the external payment totals for a date, reading
// through the cache. Missing external data degrades to zeros so the
// reconciliation view never fails outright.
func (uc *CashUpUseCase) reportedTotals(ctx context.Context, date time.Time) domain.ReportedTotals {
	key := "payments:" + domain.DateKey(date)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var totals domain.ReportedTotals
			if err := json.Unmarshal(raw, &totals); err == nil {
				return totals
			}
		}
	}

	totals, err := uc.payments.GetTotals(ctx, date)
	if err != nil {
		uc.logger.Warn().Err(err).Str("date", domain.DateKey(date)).Msg("reported totals unavailable, degrading to zeros")
		return domain.ReportedTotals{}
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(totals); err == nil {
			if err := uc.cache.Set(ctx, key, raw, uc.totalsTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache reported totals")
			}
		}
	}
	return totals
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
