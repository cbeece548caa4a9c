package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPaymentsClientFetchesTotals(t *testing.T) {
	var gotDate, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		gotKey = r.Header.Get("X-API-Key")
		w.Write([]byte(`{"cash":"120.50","manual_visa_mc":"300","manual_amex":"45.25","gateway_visa_mc":"0","gateway_amex":"0","bacs":"1000"}`))
	}))
	defer srv.Close()

	c := NewPaymentsClient(Config{BaseURL: srv.URL, APIKey: "secret"})

	totals, err := c.GetTotals(context.Background(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}

	if gotDate != "2026-03-02" {
		t.Fatalf("expected date query 2026-03-02, got %q", gotDate)
	}
	if gotKey != "secret" {
		t.Fatalf("expected API key header to be sent, got %q", gotKey)
	}
	if !totals.Cash.Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("unexpected cash total: %s", totals.Cash)
	}
	if !totals.BACS.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected BACS total: %s", totals.BACS)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewBudgetClient(Config{BaseURL: srv.URL})

	_, err := c.GetBudget(context.Background(), time.Now(), time.Now(), "")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewForecastClient(Config{BaseURL: srv.URL})

	_, err := c.GetForecast(context.Background(), "prophet", "revenue", time.Now(), time.Now())
	if err == nil {
		t.Fatalf("expected error for 401 response")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt for permanent error, got %d", attempts)
	}
}

func TestForecastClientNormalizesPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"date":"2026-03-02","current_otb":"500","forecast":"-10","prior_year_otb":"0","prior_year_final":"0"}]`))
	}))
	defer srv.Close()

	c := NewForecastClient(Config{BaseURL: srv.URL})

	points, err := c.GetForecast(context.Background(), "prophet", "revenue", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if !points[0].Forecast.IsZero() {
		t.Fatalf("expected negative forecast to clamp to zero, got %s", points[0].Forecast)
	}
}
