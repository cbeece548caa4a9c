package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/usecase"
	"github.com/ratiohq/cashup/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixedClock(s string) usecase.Clock {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newCashUpUC(repo *mocks.MockCashUpRepository, payments *mocks.MockPaymentTotalsProvider) *usecase.CashUpUseCase {
	return usecase.NewCashUpUseCase(repo, payments, mocks.NewMockCache(), mocks.NewMockIDGenerator(), fixedClock("2026-03-05"), zerolog.Nop(), nil)
}

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCashUpUseCase_CreateCashUp(t *testing.T) {
	repo := mocks.NewMockCashUpRepository()
	uc := newCashUpUC(repo, mocks.NewMockPaymentTotalsProvider())

	record, err := uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, record.Status)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), record.Date, "date truncates to midnight")
	assert.Len(t, record.Rows, 6)

	_, err = uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrCashUpExists)
}

func TestCashUpUseCase_SaveRecomputesRows(t *testing.T) {
	repo := mocks.NewMockCashUpRepository()
	payments := mocks.NewMockPaymentTotalsProvider()
	payments.GetTotalsFunc = func(ctx context.Context, date time.Time) (domain.ReportedTotals, error) {
		return domain.ReportedTotals{
			Cash:         dec("1000"),
			ManualVisaMc: dec("400"),
			ManualAmex:   dec("75"),
		}, nil
	}
	uc := newCashUpUC(repo, payments)

	record, err := uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	saved, err := uc.SaveCashUp(context.Background(), usecase.SaveCashUpInput{
		ID: record.ID,
		Denominations: []usecase.DenominationInput{
			{Pool: domain.PoolTakings, Kind: domain.KindNote, Value: dec("20"), ValueEntered: decPtr("990")},
			{Pool: domain.PoolFloat, Kind: domain.KindNote, Value: dec("20"), Quantity: intPtr(3)},
			{Pool: domain.PoolFloat, Kind: domain.KindNote, Value: dec("5"), Quantity: intPtr(1)},
		},
		CardMachines: []usecase.CardMachineInput{
			{Name: "bar", Total: dec("500"), Amex: dec("80")},
		},
		Notes: "till short",
	})
	require.NoError(t, err)

	byCat := map[domain.Category]domain.ReconciliationRow{}
	for _, row := range saved.Rows {
		byCat[row.Category] = row
	}
	assert.True(t, byCat[domain.CategoryCash].Variance.Equal(dec("-10")), "cash variance = %s", byCat[domain.CategoryCash].Variance)
	assert.True(t, byCat[domain.CategoryPDQVisaMc].Variance.Equal(dec("20")))
	assert.True(t, byCat[domain.CategoryPDQAmex].Variance.Equal(dec("5")))
	assert.Equal(t, "till short", saved.Notes)
}

func TestCashUpUseCase_SaveFinalizedRejected(t *testing.T) {
	repo := mocks.NewMockCashUpRepository()
	uc := newCashUpUC(repo, mocks.NewMockPaymentTotalsProvider())

	record, err := uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	_, err = uc.FinalizeCashUp(context.Background(), record.ID)
	require.NoError(t, err)

	_, err = uc.SaveCashUp(context.Background(), usecase.SaveCashUpInput{ID: record.ID})
	assert.ErrorIs(t, err, domain.ErrCashUpFinalized)

	_, err = uc.FinalizeCashUp(context.Background(), record.ID)
	assert.ErrorIs(t, err, domain.ErrCashUpFinalized, "finalize is irreversible and not repeatable")
}

func TestCashUpUseCase_GetByDateDegradesOnMissingTotals(t *testing.T) {
	repo := mocks.NewMockCashUpRepository()
	payments := mocks.NewMockPaymentTotalsProvider()
	payments.GetTotalsFunc = func(ctx context.Context, date time.Time) (domain.ReportedTotals, error) {
		return domain.ReportedTotals{}, errors.New("payments api down")
	}
	uc := newCashUpUC(repo, payments)

	created, err := uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, err := uc.GetCashUpByDate(context.Background(), created.Date)
	require.NoError(t, err, "missing external data must degrade, not fail")
	for _, row := range got.Rows {
		assert.True(t, row.Reported.IsZero(), "%s reported should degrade to zero", row.Category)
	}
}

func TestCashUpUseCase_GetByDateNotFound(t *testing.T) {
	uc := newCashUpUC(mocks.NewMockCashUpRepository(), mocks.NewMockPaymentTotalsProvider())

	_, err := uc.GetCashUpByDate(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrCashUpNotFound)
}

func TestCashUpUseCase_FinalizedRecordNotRecomputed(t *testing.T) {
	repo := mocks.NewMockCashUpRepository()
	payments := mocks.NewMockPaymentTotalsProvider()
	totals := domain.ReportedTotals{Cash: dec("500")}
	payments.GetTotalsFunc = func(ctx context.Context, date time.Time) (domain.ReportedTotals, error) {
		return totals, nil
	}
	uc := usecase.NewCashUpUseCase(repo, payments, nil, mocks.NewMockIDGenerator(), fixedClock("2026-03-05"), zerolog.Nop(), nil)

	record, err := uc.CreateCashUp(context.Background(), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = uc.FinalizeCashUp(context.Background(), record.ID)
	require.NoError(t, err)

	// Reported totals move after finalization; the snapshot must not.
	totals = domain.ReportedTotals{Cash: dec("9999")}

	got, err := uc.GetCashUpByDate(context.Background(), record.Date)
	require.NoError(t, err)
	for _, row := range got.Rows {
		if row.Category == domain.CategoryCash {
			assert.True(t, row.Reported.Equal(dec("500")), "finalized rows are immutable, got %s", row.Reported)
		}
	}
}
