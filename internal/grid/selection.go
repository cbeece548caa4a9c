// Package grid implements rectangular range selection over a numeric
// table: anchored selection, drag extension, live summary statistics, and
// serialization to a spreadsheet-pasteable tab-separated format.
package grid

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// State is the selection state machine position.
type State int

const (
	// StateIdle means nothing is selected.
	StateIdle State = iota
	// StateAnchored means a single anchor cell has been chosen.
	StateAnchored
	// StateExtending means the selection rectangle is being dragged out.
	StateExtending
)

// Cell addresses one grid cell.
type Cell struct {
	Row int
	Col int
}

// Grid is the typed data backing one logical table.
type Grid [][]Value

// At returns the value at (row, col), or an empty text value out of range.
func (g Grid) At(row, col int) Value {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return TextValue("")
	}
	return g[row][col]
}

// Stats summarizes the numeric cells of a selection.
type Stats struct {
	Count   int
	Sum     decimal.Decimal
	Average decimal.Decimal
}

// Engine is the selection state machine for a session. A selection is
// scoped to one logical table; selecting in a different table always
// resets. The selection set is recomputed in full on every extension,
// never patched incrementally, so stale cells can never leak across
// tables.
type Engine struct {
	state  State
	table  string
	anchor Cell
	focus  Cell
	cells  map[Cell]struct{}
}

// NewEngine creates an idle selection engine.
func NewEngine() *Engine {
	return &Engine{state: StateIdle, cells: map[Cell]struct{}{}}
}

// State returns the current state machine position.
func (e *Engine) State() State {
	return e.state
}

// Table returns the table the current selection is scoped to.
func (e *Engine) Table() string {
	return e.table
}

// SelectCell starts a new single-cell selection anchored at (row, col).
// Any previous selection, in this table or another, is discarded.
func (e *Engine) SelectCell(table string, row, col int) {
	e.table = table
	e.anchor = Cell{Row: row, Col: col}
	e.focus = e.anchor
	e.rebuild()
	e.state = StateAnchored
}

// ExtendTo grows the selection to the axis-aligned rectangle spanning the
// anchor and (row, col) inclusive. Extending into a different table resets
// to a fresh single-cell selection there instead.
func (e *Engine) ExtendTo(table string, row, col int) {
	if e.state == StateIdle || table != e.table {
		e.SelectCell(table, row, col)
		return
	}
	e.focus = Cell{Row: row, Col: col}
	e.rebuild()
	e.state = StateExtending
}

// CommitExtend ends a drag; the selection persists until the next
// SelectCell.
func (e *Engine) CommitExtend() {
	if e.state == StateExtending {
		e.state = StateAnchored
	}
}

// Clear drops the selection entirely.
func (e *Engine) Clear() {
	e.state = StateIdle
	e.table = ""
	e.cells = map[Cell]struct{}{}
}

// rebuild recomputes the full selection set from the anchor and focus.
func (e *Engine) rebuild() {
	minRow, maxRow := ordered(e.anchor.Row, e.focus.Row)
	minCol, maxCol := ordered(e.anchor.Col, e.focus.Col)

	cells := make(map[Cell]struct{}, (maxRow-minRow+1)*(maxCol-minCol+1))
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			cells[Cell{Row: r, Col: c}] = struct{}{}
		}
	}
	e.cells = cells
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// Cells returns the selected cells sorted by row then column.
func (e *Engine) Cells() []Cell {
	out := make([]Cell, 0, len(e.cells))
	for c := range e.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Bounds returns the inclusive row and column ranges of the selection.
func (e *Engine) Bounds() (rowMin, rowMax, colMin, colMax int) {
	rowMin, rowMax = ordered(e.anchor.Row, e.focus.Row)
	colMin, colMax = ordered(e.anchor.Col, e.focus.Col)
	return rowMin, rowMax, colMin, colMax
}

// Stats computes count, sum, and average over the numeric-parseable subset
// of the selected cells. Non-numeric cells are excluded, not treated as
// zero. Returns nil when fewer than two numeric cells are selected, since
// a one-cell summary adds nothing.
func (e *Engine) Stats(data Grid) *Stats {
	if e.state == StateIdle {
		return nil
	}

	count := 0
	sum := decimal.Zero
	for cell := range e.cells {
		if n, ok := data.At(cell.Row, cell.Col).Numeric(); ok {
			count++
			sum = sum.Add(n)
		}
	}
	if count < 2 {
		return nil
	}

	return &Stats{
		Count:   count,
		Sum:     sum,
		Average: sum.Div(decimal.NewFromInt(int64(count))),
	}
}

// Serialize renders the selection as tab-separated lines, rows then
// columns ascending, suitable for pasting into a spreadsheet.
func (e *Engine) Serialize(data Grid) string {
	if e.state == StateIdle {
		return ""
	}

	cells := e.Cells()
	var b strings.Builder
	currentRow := -1
	for i, cell := range cells {
		switch {
		case i == 0:
			currentRow = cell.Row
		case cell.Row != currentRow:
			b.WriteByte('\n')
			currentRow = cell.Row
		default:
			b.WriteByte('\t')
		}
		b.WriteString(data.At(cell.Row, cell.Col).String())
	}
	return b.String()
}
