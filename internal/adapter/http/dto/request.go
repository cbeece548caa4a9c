package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/usecase"
)

// CreateCashUpRequest represents a request to create a draft cash-up.
type CreateCashUpRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// DenominationRequest is one denomination entry on the wire. Exactly one
// of quantity and value_entered should be non-null; conflicting input is
// resolved by the ledger's last-write-wins coercion, value taking
// precedence. valueEntered is operator-typed text, so it arrives raw and
// is parsed server-side with the usual currency stripping.
type DenominationRequest struct {
	CountType         string          `json:"countType"`
	DenominationType  string          `json:"denominationType"`
	DenominationValue decimal.Decimal `json:"denominationValue"`
	Quantity          *int            `json:"quantity"`
	ValueEntered      *string         `json:"valueEntered"`
}

// CardMachineRequest is one card terminal's figures. The Visa/MC split is
// derived server-side and never accepted as input.
type CardMachineRequest struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	AmexAmount  decimal.Decimal `json:"amexAmount"`
}

// SaveCashUpRequest represents a full snapshot save.
type SaveCashUpRequest struct {
	Denominations []DenominationRequest `json:"denominations"`
	CardMachines  []CardMachineRequest  `json:"cardMachines"`
	Notes         string                `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *SaveCashUpRequest) ToUseCaseInput(id string) usecase.SaveCashUpInput {
	denoms := make([]usecase.DenominationInput, len(r.Denominations))
	for i, d := range r.Denominations {
		denoms[i] = usecase.DenominationInput{
			Pool:     domain.Pool(d.CountType),
			Kind:     domain.DenominationKind(d.DenominationType),
			Value:    d.DenominationValue,
			Quantity: d.Quantity,
		}
		if d.ValueEntered != nil {
			v := domain.CoerceAmount(*d.ValueEntered)
			denoms[i].ValueEntered = &v
		}
	}

	machines := make([]usecase.CardMachineInput, len(r.CardMachines))
	for i, m := range r.CardMachines {
		machines[i] = usecase.CardMachineInput{
			Name:  m.Name,
			Total: m.TotalAmount,
			Amex:  m.AmexAmount,
		}
	}

	return usecase.SaveCashUpInput{
		ID:            id,
		Denominations: denoms,
		CardMachines:  machines,
		Notes:         r.Notes,
	}
}

// SelectCellRequest addresses one grid cell for selection.
type SelectCellRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// UpdateSettingsRequest replaces the site's cash-handling settings.
type UpdateSettingsRequest struct {
	ExpectedTillFloat decimal.Decimal `json:"expectedTillFloat"`
	PettyCashTarget   decimal.Decimal `json:"pettyCashTarget"`
	SafeCashTarget    decimal.Decimal `json:"safeCashTarget"`
	VarianceThreshold decimal.Decimal `json:"varianceThreshold"`
	DefaultReportDays int             `json:"defaultReportDays"`
}

// ToDomain converts to domain settings, rejecting negative values.
func (r *UpdateSettingsRequest) ToDomain() (domain.Settings, error) {
	for _, d := range []decimal.Decimal{r.ExpectedTillFloat, r.PettyCashTarget, r.SafeCashTarget, r.VarianceThreshold} {
		if d.IsNegative() {
			return domain.Settings{}, fmt.Errorf("settings amounts must not be negative")
		}
	}
	if r.DefaultReportDays < 1 {
		return domain.Settings{}, fmt.Errorf("default report days must be at least 1")
	}
	return domain.Settings{
		ExpectedTillFloat: r.ExpectedTillFloat,
		PettyCashTarget:   r.PettyCashTarget,
		SafeCashTarget:    r.SafeCashTarget,
		VarianceThreshold: r.VarianceThreshold,
		DefaultReportDays: r.DefaultReportDays,
	}, nil
}
