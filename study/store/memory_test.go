package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
	"github.com/warp/reserve-engine/study/store"
)

func storedStudy() study.Study {
	then := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	return study.Study{
		ID:             "gvm",
		Property:       study.Property{Name: "Golf View Manor II"},
		StartYear:      2025,
		HorizonYears:   30,
		SelectedPolicy: reserve.PolicyBaseline,
		Policies: []reserve.FundingPolicy{
			{Name: reserve.PolicyBaseline, AnnualContribution: decimal.NewFromInt(44709)},
		},
		Components: []reserve.Component{
			{ID: "1", Name: "Roof", Category: "Roof", RemainingLife: 11, ReplacementCost: decimal.NewFromInt(448800)},
		},
		CreatedAt: then,
		UpdatedAt: then,
	}
}

func TestMemory_InventoryChangesTouchUpdatedAt(t *testing.T) {
	// GIVEN: A stored study last updated in January 2025
	// WHEN: Adding and then removing a component
	// THEN: UpdatedAt moves forward each time; CreatedAt stays

	mem := store.NewMemory()
	ctx := context.Background()
	st := storedStudy()
	require.NoError(t, mem.SaveStudy(ctx, st))

	require.NoError(t, mem.SaveComponent(ctx, "gvm", reserve.Component{
		ID: "9", Name: "Pool", Category: "Amenities", RemainingLife: 3, ReplacementCost: decimal.NewFromInt(42000),
	}))
	added, err := mem.GetStudy(ctx, "gvm")
	require.NoError(t, err)
	assert.Len(t, added.Components, 2)
	assert.True(t, added.UpdatedAt.After(st.UpdatedAt))
	assert.Equal(t, st.CreatedAt, added.CreatedAt)

	require.NoError(t, mem.SaveStudy(ctx, st))
	require.NoError(t, mem.DeleteComponent(ctx, "gvm", "1"))
	removed, err := mem.GetStudy(ctx, "gvm")
	require.NoError(t, err)
	assert.Empty(t, removed.Components)
	assert.True(t, removed.UpdatedAt.After(st.UpdatedAt))
}

func TestMemory_MissingStudyOrComponent(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SaveStudy(ctx, storedStudy()))

	assert.ErrorIs(t, mem.SaveComponent(ctx, "missing", reserve.Component{ID: "x"}), study.ErrStudyNotFound)
	assert.ErrorIs(t, mem.DeleteComponent(ctx, "missing", "1"), study.ErrStudyNotFound)
	assert.ErrorIs(t, mem.DeleteComponent(ctx, "gvm", "nope"), study.ErrComponentNotFound)
}
