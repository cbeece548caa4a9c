package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ratiohq/cashup/internal/adapter/http/dto"
	"github.com/ratiohq/cashup/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrCashUpNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCashUpExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCashUpFinalized):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownMetric):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownGranularity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidWeights):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMisalignedSeries):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseDate parses a YYYY-MM-DD path or query value.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// sessionID resolves the logical session owning selection state. The
// transport layer normally supplies it; a shared default keeps single-user
// setups working.
func sessionID(r *http.Request) string {
	if s := r.Header.Get("X-Session-ID"); s != "" {
		return s
	}
	return "default"
}
