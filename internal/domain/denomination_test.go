package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDenominationLedger_TotalFor(t *testing.T) {
	tests := []struct {
		name  string
		setup func(l *DenominationLedger)
		pool  Pool
		want  string
	}{
		{
			name: "quantities only",
			setup: func(l *DenominationLedger) {
				l.SetQuantity(PoolFloat, KindNote, dec("20"), 3)
				l.SetQuantity(PoolFloat, KindNote, dec("5"), 1)
			},
			pool: PoolFloat,
			want: "65",
		},
		{
			name: "direct value overrides quantity for same denomination",
			setup: func(l *DenominationLedger) {
				l.SetQuantity(PoolTakings, KindCoin, dec("0.01"), 10)
				l.SetValue(PoolTakings, KindCoin, dec("0.01"), dec("123.45"))
			},
			pool: PoolTakings,
			want: "123.45",
		},
		{
			name: "quantity clears earlier direct value",
			setup: func(l *DenominationLedger) {
				l.SetValue(PoolTakings, KindNote, dec("10"), dec("55"))
				l.SetQuantity(PoolTakings, KindNote, dec("10"), 2)
			},
			pool: PoolTakings,
			want: "20",
		},
		{
			name:  "empty ledger",
			setup: func(l *DenominationLedger) {},
			pool:  PoolFloat,
			want:  "0",
		},
		{
			name: "pools are independent",
			setup: func(l *DenominationLedger) {
				l.SetQuantity(PoolFloat, KindNote, dec("20"), 5)
				l.SetQuantity(PoolTakings, KindNote, dec("20"), 1)
			},
			pool: PoolTakings,
			want: "20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewDenominationLedger()
			tt.setup(l)

			got := l.TotalFor(tt.pool)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalFor(%s) = %s, want %s", tt.pool, got, tt.want)
			}
		})
	}
}

func TestDenominationLedger_MutualExclusion(t *testing.T) {
	l := NewDenominationLedger()

	l.SetValue(PoolFloat, KindNote, dec("10"), dec("40"))
	l.SetQuantity(PoolFloat, KindNote, dec("10"), 3)

	got := l.Get(PoolFloat, dec("10"))
	if got.Mode.Kind != ModeQuantity {
		t.Fatalf("expected quantity mode after SetQuantity, got %v", got.Mode.Kind)
	}
	if !got.Mode.Value.IsZero() {
		t.Errorf("stale direct value survived a quantity write: %s", got.Mode.Value)
	}

	l.SetValue(PoolFloat, KindNote, dec("10"), dec("99.99"))
	got = l.Get(PoolFloat, dec("10"))
	if got.Mode.Kind != ModeValue {
		t.Fatalf("expected value mode after SetValue, got %v", got.Mode.Kind)
	}
	if got.Mode.Quantity != 0 {
		t.Errorf("stale quantity survived a value write: %d", got.Mode.Quantity)
	}
}

func TestDenominationLedger_CoercesBadInput(t *testing.T) {
	l := NewDenominationLedger()

	l.SetQuantity(PoolTakings, KindNote, dec("20"), -4)
	l.SetValue(PoolTakings, KindNote, dec("10"), dec("-50"))

	if !l.TotalFor(PoolTakings).IsZero() {
		t.Errorf("negative input should coerce to zero, total = %s", l.TotalFor(PoolTakings))
	}
	if got := l.Get(PoolTakings, dec("20")); got.Counted() {
		t.Error("zero-coerced quantity should read as uncounted")
	}
}

func TestDenominationLedger_CountsOmitsUncounted(t *testing.T) {
	l := NewDenominationLedger()
	l.SetQuantity(PoolFloat, KindNote, dec("20"), 2)
	l.SetQuantity(PoolFloat, KindNote, dec("10"), 0)
	l.SetValue(PoolTakings, KindCoin, dec("0.5"), dec("12.50"))

	counts := l.Counts()
	if len(counts) != 2 {
		t.Fatalf("expected 2 counted denominations, got %d", len(counts))
	}
	for _, c := range counts {
		if !c.Counted() {
			t.Errorf("uncounted entry leaked into persisted output: %+v", c)
		}
	}
}

func TestLedgerFromCounts_RoundTrip(t *testing.T) {
	l := NewDenominationLedger()
	l.SetQuantity(PoolFloat, KindNote, dec("20"), 3)
	l.SetQuantity(PoolFloat, KindNote, dec("5"), 1)
	l.SetValue(PoolTakings, KindCoin, dec("0.01"), dec("123.45"))

	reloaded := LedgerFromCounts(l.Counts())

	if !reloaded.TotalFor(PoolFloat).Equal(dec("65")) {
		t.Errorf("float total after round-trip = %s, want 65", reloaded.TotalFor(PoolFloat))
	}
	if !reloaded.TotalFor(PoolTakings).Equal(dec("123.45")) {
		t.Errorf("takings total after round-trip = %s, want 123.45", reloaded.TotalFor(PoolTakings))
	}

	orig := l.Get(PoolTakings, dec("0.01"))
	back := reloaded.Get(PoolTakings, dec("0.01"))
	if orig.Mode.Kind != back.Mode.Kind || !orig.Mode.Value.Equal(back.Mode.Value) {
		t.Errorf("entry mode changed across round-trip: %+v vs %+v", orig.Mode, back.Mode)
	}
}
