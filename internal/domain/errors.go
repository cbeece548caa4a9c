package domain

import "errors"

var (
	// Cash-up errors
	ErrCashUpNotFound  = errors.New("cash-up not found")
	ErrCashUpExists    = errors.New("cash-up already exists for date")
	ErrCashUpFinalized = errors.New("cash-up is finalized and cannot be modified")

	// Forecast errors
	ErrMisalignedSeries = errors.New("forecast series do not share the same date axis")
	ErrNoSeries         = errors.New("no forecast series provided")
	ErrInvalidWeights   = errors.New("blend weights must match series count and sum to 1")

	// Aggregation errors
	ErrUnknownGranularity = errors.New("unknown granularity")
	ErrUnknownMetric      = errors.New("unknown metric")

	// Category errors
	ErrUnknownCategory = errors.New("unknown payment category")
)
