package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildRows(t *testing.T) {
	ledger := NewDenominationLedger()
	ledger.SetValue(PoolTakings, KindNote, dec("20"), dec("990"))

	machines := []CardMachine{
		NewCardMachine("bar", dec("500"), dec("80")),
	}
	// VisaMc 420, Amex 80.

	reported := ReportedTotals{
		Cash:          dec("1000"),
		ManualVisaMc:  dec("400"),
		ManualAmex:    dec("75"),
		GatewayVisaMc: dec("0"),
		GatewayAmex:   dec("0"),
		BACS:          dec("0"),
	}

	rows := BuildRows(ledger, machines, reported)
	if len(rows) != len(Categories) {
		t.Fatalf("expected %d rows, got %d", len(Categories), len(rows))
	}

	want := map[Category]string{
		CategoryCash:          "-10",
		CategoryPDQVisaMc:     "20",
		CategoryPDQAmex:       "5",
		CategoryGatewayVisaMc: "0",
		CategoryGatewayAmex:   "0",
		CategoryBACS:          "0",
	}
	for _, row := range rows {
		if !row.Variance.Equal(dec(want[row.Category])) {
			t.Errorf("%s variance = %s, want %s", row.Category, row.Variance, want[row.Category])
		}
		if !row.Variance.Equal(Round2(row.Banked.Sub(row.Reported))) {
			t.Errorf("%s variance identity broken: %s != round2(%s - %s)", row.Category, row.Variance, row.Banked, row.Reported)
		}
	}
}

func TestBuildRows_GatewayAndBACSZeroVariance(t *testing.T) {
	reported := ReportedTotals{
		GatewayVisaMc: dec("345.67"),
		GatewayAmex:   dec("89.10"),
		BACS:          dec("1500"),
	}

	rows := BuildRows(NewDenominationLedger(), nil, reported)
	for _, row := range rows {
		switch row.Category {
		case CategoryGatewayVisaMc, CategoryGatewayAmex, CategoryBACS:
			if !row.Banked.Equal(row.Reported) {
				t.Errorf("%s banked %s != reported %s", row.Category, row.Banked, row.Reported)
			}
			if !row.Variance.IsZero() {
				t.Errorf("%s variance must be zero by construction, got %s", row.Category, row.Variance)
			}
		}
	}
}

func TestTotalsRow(t *testing.T) {
	ledger := NewDenominationLedger()
	ledger.SetQuantity(PoolTakings, KindNote, dec("20"), 50)

	machines := []CardMachine{
		NewCardMachine("bar", dec("512.34"), dec("77.89")),
		NewCardMachine("restaurant", dec("301.01"), dec("12.30")),
	}

	reported := ReportedTotals{
		Cash:         dec("995.55"),
		ManualVisaMc: dec("700.10"),
		ManualAmex:   dec("90.19"),
		BACS:         dec("250"),
	}

	rows := BuildRows(ledger, machines, reported)
	total := TotalsRow(rows)

	varianceSum := decimal.Zero
	bankedSum := decimal.Zero
	for _, row := range rows {
		varianceSum = varianceSum.Add(row.Variance)
		bankedSum = bankedSum.Add(row.Banked)
	}

	if !total.Variance.Sub(varianceSum).Abs().LessThanOrEqual(dec("0.01")) {
		t.Errorf("totals variance %s differs from row sum %s beyond rounding tolerance", total.Variance, varianceSum)
	}
	if !total.Banked.Equal(bankedSum) {
		t.Errorf("totals banked %s != column sum %s", total.Banked, bankedSum)
	}
}

func TestRound2_HalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"-1.005", "-1.01"},
		{"424.499999", "424.50"},
	}
	for _, tt := range tests {
		if got := Round2(dec(tt.in)); !got.Equal(dec(tt.want)) {
			t.Errorf("Round2(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123.45", "123.45"},
		{"£1,234.56", "1234.56"},
		{" 10 ", "10"},
		{"-5", "0"},
		{"abc", "0"},
		{"", "0"},
	}
	for _, tt := range tests {
		if got := CoerceAmount(tt.in); !got.Equal(dec(tt.want)) {
			t.Errorf("CoerceAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
