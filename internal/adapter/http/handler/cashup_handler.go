package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ratiohq/cashup/internal/adapter/http/dto"
	"github.com/ratiohq/cashup/internal/domain"
	"github.com/ratiohq/cashup/internal/grid"
	"github.com/ratiohq/cashup/internal/usecase"
)

// CashUpService defines the behavior needed by CashUpHandler.
type CashUpService interface {
	CreateCashUp(ctx context.Context, date time.Time) (*domain.CashUp, error)
	GetCashUpByDate(ctx context.Context, date time.Time) (*domain.CashUp, error)
	SaveCashUp(ctx context.Context, input usecase.SaveCashUpInput) (*domain.CashUp, error)
	FinalizeCashUp(ctx context.Context, id string) (*domain.CashUp, error)
	GetReconciliation(ctx context.Context, id string) ([]domain.ReconciliationRow, domain.ReconciliationRow, error)
}

// CashUpHandler handles cash-up HTTP requests.
type CashUpHandler struct {
	cashupUC CashUpService
	grids    *usecase.GridStore
}

// NewCashUpHandler creates a new CashUpHandler.
func NewCashUpHandler(cashupUC CashUpService, grids *usecase.GridStore) *CashUpHandler {
	return &CashUpHandler{cashupUC: cashupUC, grids: grids}
}

// Create creates a draft cash-up for a date.
func (h *CashUpHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCashUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	record, err := h.cashupUC.CreateCashUp(r.Context(), date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create cash-up", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashUpFromDomain(record))
}

// GetByDate retrieves a cash-up by business date.
func (h *CashUpHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	record, err := h.cashupUC.GetCashUpByDate(r.Context(), date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get cash-up", err.Error())
		return
	}

	h.publishGrid(record)
	writeJSON(w, http.StatusOK, dto.CashUpFromDomain(record))
}

// Save replaces a cash-up's counted state.
func (h *CashUpHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolveID(w, r)
	if !ok {
		return
	}

	var req dto.SaveCashUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record, err := h.cashupUC.SaveCashUp(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to save cash-up", err.Error())
		return
	}

	h.publishGrid(record)
	writeJSON(w, http.StatusOK, dto.CashUpFromDomain(record))
}

// Finalize irreversibly finalizes a draft.
func (h *CashUpHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolveID(w, r)
	if !ok {
		return
	}

	record, err := h.cashupUC.FinalizeCashUp(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to finalize cash-up", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CashUpFromDomain(record))
}

// GetReconciliation returns the computed rows for a record.
func (h *CashUpHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolveID(w, r)
	if !ok {
		return
	}

	rows, totals, err := h.cashupUC.GetReconciliation(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get reconciliation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromDomain(rows, totals))
}

// resolveID maps the business date in the URL to the stored record's ID.
// Cash-ups are unique per date, so the date is the stable public key.
func (h *CashUpHandler) resolveID(w http.ResponseWriter, r *http.Request) (string, bool) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return "", false
	}

	record, err := h.cashupUC.GetCashUpByDate(r.Context(), date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get cash-up", err.Error())
		return "", false
	}

	return record.ID, true
}

// publishGrid registers the record's reconciliation table so selection
// statistics and clipboard output read the same typed values the client
// renders.
func (h *CashUpHandler) publishGrid(record *domain.CashUp) {
	if h.grids == nil {
		return
	}
	data := make(grid.Grid, 0, len(record.Rows)+1)
	for _, row := range record.Rows {
		data = append(data, []grid.Value{
			grid.TextValue(string(row.Category)),
			grid.NumberValue(row.Banked),
			grid.NumberValue(row.Reported),
			grid.NumberValue(row.Variance),
		})
	}
	data = append(data, []grid.Value{
		grid.TextValue("total"),
		grid.NumberValue(record.Totals.Banked),
		grid.NumberValue(record.Totals.Reported),
		grid.NumberValue(record.Totals.Variance),
	})
	h.grids.Put("cashup:"+domain.DateKey(record.Date), data)
}
