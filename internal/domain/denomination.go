package domain

import (
	"github.com/shopspring/decimal"
)

// Pool identifies which cash pool a denomination count belongs to.
type Pool string

const (
	PoolFloat   Pool = "float"
	PoolTakings Pool = "takings"
)

// DenominationKind distinguishes notes from coins.
type DenominationKind string

const (
	KindNote DenominationKind = "note"
	KindCoin DenominationKind = "coin"
)

// CountModeKind tags how a denomination was counted.
type CountModeKind int

const (
	// ModeUncounted means neither a quantity nor a direct value was entered.
	ModeUncounted CountModeKind = iota
	// ModeQuantity means the operator counted individual notes/coins.
	ModeQuantity
	// ModeValue means the operator entered a total value directly.
	ModeValue
)

// CountMode is the entry mode for one denomination in one pool. Exactly one
// of Quantity or Value is meaningful, selected by Kind, so quantity and
// direct value can never both be present.
type CountMode struct {
	Kind     CountModeKind
	Quantity int
	Value    decimal.Decimal
}

// Uncounted returns the zero entry mode.
func Uncounted() CountMode {
	return CountMode{Kind: ModeUncounted}
}

// QuantityMode returns a counted-quantity mode. Negative counts coerce to
// zero, and a zero count is indistinguishable from uncounted.
func QuantityMode(qty int) CountMode {
	qty = CoerceQuantity(qty)
	if qty == 0 {
		return Uncounted()
	}
	return CountMode{Kind: ModeQuantity, Quantity: qty}
}

// ValueMode returns a direct-value mode. Non-positive values coerce to
// uncounted.
func ValueMode(value decimal.Decimal) CountMode {
	if !value.IsPositive() {
		return Uncounted()
	}
	return CountMode{Kind: ModeValue, Value: value}
}

// DenominationCount is one denomination's entry within one cash pool.
type DenominationCount struct {
	Pool  Pool
	Kind  DenominationKind
	Value decimal.Decimal // face value of one note/coin
	Mode  CountMode
}

// Amount returns this denomination's contribution to its pool total:
// the entered value when in value mode, quantity times face value when in
// quantity mode, zero otherwise. Not rounded; rounding happens when rows
// are built.
func (d DenominationCount) Amount() decimal.Decimal {
	switch d.Mode.Kind {
	case ModeValue:
		return d.Mode.Value
	case ModeQuantity:
		return d.Value.Mul(decimal.NewFromInt(int64(d.Mode.Quantity)))
	default:
		return decimal.Zero
	}
}

// Counted reports whether this denomination contributes to a total.
func (d DenominationCount) Counted() bool {
	return d.Mode.Kind != ModeUncounted
}

// DenominationLedger tracks per-denomination counts for the float and
// takings pools. Setting a quantity replaces any direct value for that
// (pool, denomination) and vice versa; the mutual exclusion is enforced at
// the write boundary by replacing the whole entry mode.
type DenominationLedger struct {
	entries map[Pool]map[string]DenominationCount
}

// NewDenominationLedger creates an empty ledger.
func NewDenominationLedger() *DenominationLedger {
	return &DenominationLedger{
		entries: map[Pool]map[string]DenominationCount{
			PoolFloat:   {},
			PoolTakings: {},
		},
	}
}

func denomKey(value decimal.Decimal) string {
	return value.String()
}

// SetQuantity records a counted quantity for a denomination, clearing any
// previously entered direct value.
func (l *DenominationLedger) SetQuantity(pool Pool, kind DenominationKind, value decimal.Decimal, qty int) {
	l.set(DenominationCount{Pool: pool, Kind: kind, Value: value, Mode: QuantityMode(qty)})
}

// SetValue records a directly entered value for a denomination, clearing
// any previously counted quantity.
func (l *DenominationLedger) SetValue(pool Pool, kind DenominationKind, value decimal.Decimal, entered decimal.Decimal) {
	l.set(DenominationCount{Pool: pool, Kind: kind, Value: value, Mode: ValueMode(entered)})
}

func (l *DenominationLedger) set(d DenominationCount) {
	if l.entries[d.Pool] == nil {
		l.entries[d.Pool] = map[string]DenominationCount{}
	}
	l.entries[d.Pool][denomKey(d.Value)] = d
}

// Get returns the entry for a denomination in a pool, or an uncounted entry
// if it was never touched.
func (l *DenominationLedger) Get(pool Pool, value decimal.Decimal) DenominationCount {
	if d, ok := l.entries[pool][denomKey(value)]; ok {
		return d
	}
	return DenominationCount{Pool: pool, Value: value, Mode: Uncounted()}
}

// TotalFor sums a pool's denominations. Uncounted entries contribute zero.
func (l *DenominationLedger) TotalFor(pool Pool) decimal.Decimal {
	total := decimal.Zero
	for _, d := range l.entries[pool] {
		total = total.Add(d.Amount())
	}
	return total
}

// Counts returns all counted denominations across both pools, for
// persistence. Uncounted entries are omitted: "not counted" and "counted as
// zero" serialize identically by never appearing.
func (l *DenominationLedger) Counts() []DenominationCount {
	var out []DenominationCount
	for _, pool := range []Pool{PoolFloat, PoolTakings} {
		for _, d := range l.entries[pool] {
			if d.Counted() {
				out = append(out, d)
			}
		}
	}
	return out
}

// LedgerFromCounts rebuilds a ledger from persisted denomination counts.
func LedgerFromCounts(counts []DenominationCount) *DenominationLedger {
	l := NewDenominationLedger()
	for _, d := range counts {
		l.set(d)
	}
	return l
}
