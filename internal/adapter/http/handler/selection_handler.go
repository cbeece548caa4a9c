package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ratiohq/cashup/internal/adapter/http/dto"
	"github.com/ratiohq/cashup/internal/usecase"
)

// SelectionHandler manages per-session grid selections.
type SelectionHandler struct {
	selectionUC *usecase.SelectionUseCase
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(selectionUC *usecase.SelectionUseCase) *SelectionHandler {
	return &SelectionHandler{selectionUC: selectionUC}
}

// Select anchors a new selection at a single cell.
func (h *SelectionHandler) Select(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req dto.SelectCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.selectionUC.Select(sessionID(r), table, req.Row, req.Col)
	h.writeStats(w, r)
}

// Extend grows the selection rectangle to the given cell.
func (h *SelectionHandler) Extend(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req dto.SelectCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	h.selectionUC.Extend(sessionID(r), table, req.Row, req.Col)
	h.writeStats(w, r)
}

// Commit freezes the current rectangle as the settled selection.
func (h *SelectionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	h.selectionUC.Commit(sessionID(r))
	h.writeStats(w, r)
}

// Clear discards the session's selection.
func (h *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.selectionUC.Clear(sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns count, sum and average over the selected numeric cells.
func (h *SelectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeStats(w, r)
}

// Serialize returns the selection as tab separated clipboard text.
func (h *SelectionHandler) Serialize(w http.ResponseWriter, r *http.Request) {
	text := h.selectionUC.Serialize(sessionID(r))
	writeJSON(w, http.StatusOK, dto.SerializedSelectionResponse{Text: text})
}

func (h *SelectionHandler) writeStats(w http.ResponseWriter, r *http.Request) {
	stats := h.selectionUC.Stats(sessionID(r))
	writeJSON(w, http.StatusOK, dto.StatsFromGrid(stats))
}
