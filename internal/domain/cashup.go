package domain

import (
	"time"
)

// CashUpStatus is the lifecycle state of a day's cash-up record.
type CashUpStatus string

const (
	StatusDraft CashUpStatus = "draft"
	StatusFinal CashUpStatus = "final"
)

// CashUp is one business day's full reconciliation snapshot. Once the
// status is final every numeric field is immutable; the owning workflow
// rejects writes before any recomputation happens.
type CashUp struct {
	ID            string
	Date          time.Time
	Denominations []DenominationCount
	CardMachines  []CardMachine
	Rows          []ReconciliationRow
	Totals        ReconciliationRow
	Status        CashUpStatus
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Final reports whether the record has been irreversibly finalized.
func (c *CashUp) Final() bool {
	return c.Status == StatusFinal
}

// Recompute rebuilds the reconciliation rows and totals from the record's
// current denominations and card machines plus the externally reported
// figures. Mutating callers invoke this before returning so derived state
// never goes stale.
func (c *CashUp) Recompute(reported ReportedTotals) {
	ledger := LedgerFromCounts(c.Denominations)
	c.Rows = BuildRows(ledger, c.CardMachines, reported)
	c.Totals = TotalsRow(c.Rows)
}
