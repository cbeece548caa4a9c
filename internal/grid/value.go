package grid

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind tags what a grid cell holds.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
)

// Value is one cell of a logical grid: the underlying typed datum that the
// renderer formats, not the rendered text. Selection statistics and
// clipboard output read these values directly so no formatted-text
// round trip is needed.
type Value struct {
	Kind   ValueKind
	Number decimal.Decimal
	Text   string
}

// NumberValue returns a numeric cell value.
func NumberValue(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Number: d}
}

// TextValue returns a text cell value (dates, labels).
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Numeric returns the cell's numeric value when one exists. Text cells are
// still probed for an embedded number, since grids assembled from external
// feeds can carry pre-formatted figures.
func (v Value) Numeric() (decimal.Decimal, bool) {
	if v.Kind == KindNumber {
		return v.Number, true
	}
	return ExtractNumber(v.Text)
}

// String returns the cell's clipboard representation: plain numbers for
// numeric cells, the raw trimmed text otherwise.
func (v Value) String() string {
	if v.Kind == KindNumber {
		return v.Number.String()
	}
	if n, ok := ExtractNumber(v.Text); ok {
		return n.String()
	}
	return strings.TrimSpace(v.Text)
}

// stripped characters: currency symbols, thousands separators, and the
// directional glyphs tables render next to variance figures.
var numericStripper = strings.NewReplacer(
	"£", "",
	"$", "",
	"€", "",
	",", "",
	"▲", "",
	"▼", "",
	"+", "",
	"%", "",
	" ", "",
)

// ExtractNumber parses a number out of formatted cell text. Returns false
// when no numeric token is present, so callers can exclude the cell rather
// than treat it as zero.
func ExtractNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(numericStripper.Replace(s))
	if s == "" {
		return decimal.Decimal{}, false
	}

	// A leading parenthesis is an accounting-style negative.
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
