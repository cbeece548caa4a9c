package domain

import "github.com/shopspring/decimal"

// CardMachine is one physical PDQ terminal's takings for a day. VisaMc is
// always derived from Total and Amex and is never set directly; it may go
// negative when Amex exceeds Total, which is surfaced rather than clamped
// since it signals an operator entry error.
type CardMachine struct {
	Name   string
	Total  decimal.Decimal
	Amex   decimal.Decimal
	VisaMc decimal.Decimal
}

// NewCardMachine creates a machine with the split already derived.
func NewCardMachine(name string, total, amex decimal.Decimal) CardMachine {
	m := CardMachine{Name: name, Total: total, Amex: amex}
	m.recompute()
	return m
}

// SetTotal updates the machine total and rederives the Visa/MC split.
func (m *CardMachine) SetTotal(total decimal.Decimal) {
	m.Total = total
	m.recompute()
}

// SetAmex updates the Amex sub-total and rederives the Visa/MC split.
func (m *CardMachine) SetAmex(amex decimal.Decimal) {
	m.Amex = amex
	m.recompute()
}

func (m *CardMachine) recompute() {
	m.VisaMc = Round2(m.Total.Sub(m.Amex))
}

// SumCardMachines returns the Visa/MC and Amex totals across machines.
func SumCardMachines(machines []CardMachine) (visaMc, amex decimal.Decimal) {
	visaMc, amex = decimal.Zero, decimal.Zero
	for _, m := range machines {
		visaMc = visaMc.Add(m.VisaMc)
		amex = amex.Add(m.Amex)
	}
	return visaMc, amex
}
