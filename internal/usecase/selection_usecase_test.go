package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratiohq/cashup/internal/grid"
	"github.com/ratiohq/cashup/internal/usecase"
)

func numCell(s string) grid.Value {
	return grid.NumberValue(decimal.RequireFromString(s))
}

func TestSelectionUseCase_SessionsAreIndependent(t *testing.T) {
	store := usecase.NewGridStore()
	store.Put("recon", grid.Grid{
		{numCell("10"), numCell("20"), numCell("30")},
		{numCell("5"), numCell("15"), numCell("25")},
	})

	uc := usecase.NewSelectionUseCase(store)

	uc.Select("alice", "recon", 0, 0)
	uc.Extend("alice", "recon", 1, 2)
	uc.Commit("alice")

	uc.Select("bob", "recon", 0, 0)

	stats := uc.Stats("alice")
	require.NotNil(t, stats)
	assert.Equal(t, 6, stats.Count)
	assert.True(t, stats.Sum.Equal(decimal.RequireFromString("105")))
	assert.True(t, stats.Average.Equal(decimal.RequireFromString("17.5")))

	assert.Nil(t, uc.Stats("bob"), "bob's single cell has no summary")
	assert.Equal(t, "10\t20\t30\n5\t15\t25", uc.Serialize("alice"))
}

func TestSelectionUseCase_MissingTableYieldsEmpty(t *testing.T) {
	uc := usecase.NewSelectionUseCase(usecase.NewGridStore())

	uc.Select("alice", "ghost", 0, 0)
	uc.Extend("alice", "ghost", 2, 2)

	assert.Nil(t, uc.Stats("alice"), "no data means no numeric cells")
}
