package domain

import "github.com/shopspring/decimal"

// Settings are the site's cash-handling baselines: the fixed float a till
// starts with, the petty cash and safe targets, the variance above which a
// row is flagged, and how many days reports cover by default.
type Settings struct {
	ExpectedTillFloat decimal.Decimal
	PettyCashTarget   decimal.Decimal
	SafeCashTarget    decimal.Decimal
	VarianceThreshold decimal.Decimal
	DefaultReportDays int
}
