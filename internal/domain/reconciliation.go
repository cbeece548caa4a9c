package domain

import "github.com/shopspring/decimal"

// Category is one of the six fixed payment categories reconciled each day.
type Category string

const (
	CategoryCash          Category = "cash"
	CategoryPDQVisaMc     Category = "pdq_visa_mc"
	CategoryPDQAmex       Category = "pdq_amex"
	CategoryGatewayVisaMc Category = "gateway_visa_mc"
	CategoryGatewayAmex   Category = "gateway_amex"
	CategoryBACS          Category = "bacs"
)

// Categories lists the reconciliation categories in presentation order.
var Categories = []Category{
	CategoryCash,
	CategoryPDQVisaMc,
	CategoryPDQAmex,
	CategoryGatewayVisaMc,
	CategoryGatewayAmex,
	CategoryBACS,
}

// ValidCategory reports whether c is one of the six fixed categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ReconciliationRow is one payment category's banked-vs-reported comparison
// for a single day.
type ReconciliationRow struct {
	Category Category
	Banked   decimal.Decimal
	Reported decimal.Decimal
	Variance decimal.Decimal
}

// ReportedTotals is the externally reported side of the reconciliation,
// as returned by the payment-system collaborator. Absent figures are zero.
type ReportedTotals struct {
	Cash          decimal.Decimal
	ManualVisaMc  decimal.Decimal
	ManualAmex    decimal.Decimal
	GatewayVisaMc decimal.Decimal
	GatewayAmex   decimal.Decimal
	BACS          decimal.Decimal
}

// ByCategory returns the reported figures keyed by category.
func (t ReportedTotals) ByCategory() map[Category]decimal.Decimal {
	return map[Category]decimal.Decimal{
		CategoryCash:          t.Cash,
		CategoryPDQVisaMc:     t.ManualVisaMc,
		CategoryPDQAmex:       t.ManualAmex,
		CategoryGatewayVisaMc: t.GatewayVisaMc,
		CategoryGatewayAmex:   t.GatewayAmex,
		CategoryBACS:          t.BACS,
	}
}

// BuildRows assembles the six category rows for a day. Banked cash comes
// from the takings pool, PDQ figures from the card machine split, and the
// gateway and BACS categories have no independent banked source, so banked
// is defined equal to reported and their variance is zero by construction.
// Amounts are rounded here, at row construction, and never earlier.
func BuildRows(ledger *DenominationLedger, machines []CardMachine, reported ReportedTotals) []ReconciliationRow {
	visaMc, amex := SumCardMachines(machines)

	banked := map[Category]decimal.Decimal{
		CategoryCash:          ledger.TotalFor(PoolTakings),
		CategoryPDQVisaMc:     visaMc,
		CategoryPDQAmex:       amex,
		CategoryGatewayVisaMc: reported.GatewayVisaMc,
		CategoryGatewayAmex:   reported.GatewayAmex,
		CategoryBACS:          reported.BACS,
	}
	reportedBy := reported.ByCategory()

	rows := make([]ReconciliationRow, 0, len(Categories))
	for _, cat := range Categories {
		b := Round2(banked[cat])
		r := Round2(reportedBy[cat])
		rows = append(rows, ReconciliationRow{
			Category: cat,
			Banked:   b,
			Reported: r,
			Variance: Round2(b.Sub(r)),
		})
	}
	return rows
}

// TotalsRow is the column-wise sum of all category rows. The sums are not
// independently rounded; each component row already is.
func TotalsRow(rows []ReconciliationRow) ReconciliationRow {
	total := ReconciliationRow{Category: "total"}
	for _, row := range rows {
		total.Banked = total.Banked.Add(row.Banked)
		total.Reported = total.Reported.Add(row.Reported)
		total.Variance = total.Variance.Add(row.Variance)
	}
	return total
}
