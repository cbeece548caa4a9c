package usecase

import (
	"sync"

	"github.com/ratiohq/cashup/internal/grid"
)

// GridStore holds the typed data behind each rendered table so selection
// statistics and clipboard output read the same values used to render the
// cells, with formatting applied only at render time.
type GridStore struct {
	mu    sync.RWMutex
	grids map[string]grid.Grid
}

// NewGridStore creates an empty grid store.
func NewGridStore() *GridStore {
	return &GridStore{grids: map[string]grid.Grid{}}
}

// Put registers or replaces a table's data.
func (s *GridStore) Put(table string, data grid.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[table] = data
}

// Get returns a table's data; a missing table yields an empty grid.
func (s *GridStore) Get(table string) grid.Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grids[table]
}

// SelectionUseCase owns the per-session selection engines. Each logical
// session has one engine and one writer; the mutex only guards the
// registry map shared across HTTP handlers.
type SelectionUseCase struct {
	mu       sync.Mutex
	sessions map[string]*grid.Engine
	grids    *GridStore
}

// NewSelectionUseCase creates a new SelectionUseCase.
func NewSelectionUseCase(grids *GridStore) *SelectionUseCase {
	return &SelectionUseCase{
		sessions: map[string]*grid.Engine{},
		grids:    grids,
	}
}

func (uc *SelectionUseCase) engine(session string) *grid.Engine {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	e, ok := uc.sessions[session]
	if !ok {
		e = grid.NewEngine()
		uc.sessions[session] = e
	}
	return e
}

// Select starts a new selection anchored at (row, col).
func (uc *SelectionUseCase) Select(session, table string, row, col int) {
	uc.engine(session).SelectCell(table, row, col)
}

// Extend grows the selection rectangle to (row, col).
func (uc *SelectionUseCase) Extend(session, table string, row, col int) {
	uc.engine(session).ExtendTo(table, row, col)
}

// Commit ends a drag, keeping the selection.
func (uc *SelectionUseCase) Commit(session string) {
	uc.engine(session).CommitExtend()
}

// Clear discards the session's selection entirely.
func (uc *SelectionUseCase) Clear(session string) {
	uc.engine(session).Clear()
}

// Stats returns live summary statistics for the session's selection, or
// nil when fewer than two numeric cells are selected.
func (uc *SelectionUseCase) Stats(session string) *grid.Stats {
	e := uc.engine(session)
	return e.Stats(uc.grids.Get(e.Table()))
}

// Serialize returns the session's selection as tab-separated lines.
func (uc *SelectionUseCase) Serialize(session string) string {
	e := uc.engine(session)
	return e.Serialize(uc.grids.Get(e.Table()))
}
