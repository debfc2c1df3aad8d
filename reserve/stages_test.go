package reserve_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reserve-engine/reserve"
)

// =============================================================================
// SCHEDULER
// =============================================================================

func TestSchedule_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		horizon   int
		wantOK    bool
		wantYear  int
	}{
		{"due now", 0, 30, true, 0},
		{"inside", 11, 30, true, 11},
		{"last year of horizon", 29, 30, true, 29},
		{"exactly at horizon", 30, 30, false, 0},
		{"beyond horizon", 100, 30, false, 0},
		{"fraction floors down", 4.9, 30, true, 4},
		{"fraction just below horizon", 29.99, 30, true, 29},
		{"zero horizon", 0, 0, false, 0},
		{"huge remaining life", math.MaxFloat64, 30, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := component("c", "Roof", tt.remaining, 100)
			e, ok := reserve.Schedule(c, tt.horizon)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantYear, e.OffsetYear)
				assert.Equal(t, "c", e.ComponentID)
				assert.Equal(t, "Roof", e.Category)
				assert.True(t, money(100).Equal(e.Amount))
			}
		})
	}
}

func TestSchedule_FirstReplacementOnly(t *testing.T) {
	// GIVEN: A 7-year useful life item due in year 5, 30-year horizon
	// WHEN: Scheduling
	// THEN: Exactly one event, no repeat at 12, 19, 26

	c := component("stairs", "Structure", 5, 37928)
	c.UsefulLife = 7

	events := reserve.ScheduleAll([]reserve.Component{c}, 30)
	require.Len(t, events, 1)
	assert.Equal(t, 5, events[0].OffsetYear)
}

func TestScheduleAll_PreservesOrderAndSkips(t *testing.T) {
	events := reserve.ScheduleAll([]reserve.Component{
		component("late", "Roof", 40, 1),
		component("b", "Roof", 9, 2),
		component("a", "Roof", 1, 3),
	}, 30)

	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].ComponentID)
	assert.Equal(t, "a", events[1].ComponentID)
}

// =============================================================================
// AGGREGATOR
// =============================================================================

func TestAggregateByYear_FillsGapsWithZero(t *testing.T) {
	events := []reserve.ScheduledEvent{
		{ComponentID: "a", OffsetYear: 1, Amount: money(10)},
		{ComponentID: "b", OffsetYear: 3, Amount: money(5)},
		{ComponentID: "c", OffsetYear: 3, Amount: money(7)},
	}
	assertMoneySeq(t, []int64{0, 10, 0, 12}, reserve.AggregateByYear(events, 4))
}

func TestAggregateByYear_IgnoresOutOfRange(t *testing.T) {
	events := []reserve.ScheduledEvent{
		{OffsetYear: -1, Amount: money(10)},
		{OffsetYear: 2, Amount: money(10)},
	}
	assertMoneySeq(t, []int64{0, 0}, reserve.AggregateByYear(events, 2))
}

func TestAggregateByYear_NonPositiveHorizon(t *testing.T) {
	assert.Empty(t, reserve.AggregateByYear(nil, 0))
	assert.Empty(t, reserve.AggregateByYear(nil, -3))
	assert.NotNil(t, reserve.AggregateByYear(nil, 0))
}

func TestYearBuckets(t *testing.T) {
	buckets := reserve.YearBuckets([]decimal.Decimal{money(0), money(5)})
	require.Len(t, buckets, 2)
	assert.Equal(t, 1, buckets[1].OffsetYear)
	assert.True(t, money(5).Equal(buckets[1].TotalExpenditure))
}

func TestCategoryTotals_FirstSeenOrder(t *testing.T) {
	// GIVEN: The demo inventory (two roofs, everything else single)
	// WHEN: Grouping by category
	// THEN: First-seen order, roofs summed, grand total preserved

	inventory := golfViewInventory()
	totals := reserve.CategoryTotals(inventory)

	var names []string
	for _, ct := range totals {
		names = append(names, ct.Category)
	}
	assert.Equal(t, []string{"Roof", "Structure", "Waterproofing", "Mechanical", "Fireproofing", "Plumbing", "Electrical"}, names)

	assert.True(t, money(498780).Equal(totals[0].Total))
	assert.Equal(t, 2, totals[0].Count)

	grand := decimal.Zero
	for _, ct := range totals {
		grand = grand.Add(ct.Total)
	}
	assert.True(t, money(965371).Equal(grand))
}

func TestCategoryTotals_IndependentOfHorizon(t *testing.T) {
	// Category totals include components far beyond any horizon.
	inventory := []reserve.Component{
		component("a", "Roof", 100, 10),
		component("b", "Roof", 1, 5),
	}
	result, err := reserve.Project(inventory, nil, decimal.Zero, 5, 2025)
	require.NoError(t, err)

	require.Len(t, result.Categories, 1)
	assert.True(t, money(15).Equal(result.Categories[0].Total))
	assert.True(t, money(5).Equal(result.Totals.ScheduledCost))
}

func TestCategoryTotals_Empty(t *testing.T) {
	assert.Equal(t, []reserve.CategoryTotal{}, reserve.CategoryTotals(nil))
}

// =============================================================================
// SIMULATOR
// =============================================================================

func TestSimulate_NoClamping(t *testing.T) {
	// GIVEN: A large expense in year 0
	// WHEN: Simulating
	// THEN: Balance goes negative and recovers linearly, no clamping

	exp := []decimal.Decimal{money(500), money(0), money(0)}
	trajs := reserve.Simulate(money(100), exp, []reserve.FundingPolicy{policy("p", 150)})

	require.Len(t, trajs, 1)
	tr := trajs[0]
	assertMoneySeq(t, []int64{-250, -100, 50}, tr.Balances)
	assert.Equal(t, 0, tr.FirstDeficitOffset)
	assert.Equal(t, 0, tr.MinOffsetYear)
	assert.True(t, money(-250).Equal(tr.MinBalance))
	assert.True(t, money(50).Equal(tr.EndingBalance))
	assert.False(t, tr.Solvent())
}

func TestSimulate_PolicyOrderPreserved(t *testing.T) {
	exp := []decimal.Decimal{money(0)}
	trajs := reserve.Simulate(decimal.Zero, exp, []reserve.FundingPolicy{
		policy("z", 1), policy("a", 2), policy("m", 3),
	})
	require.Len(t, trajs, 3)
	assert.Equal(t, "z", trajs[0].Policy)
	assert.Equal(t, "a", trajs[1].Policy)
	assert.Equal(t, "m", trajs[2].Policy)
}

func TestSimulate_EmptyHorizon(t *testing.T) {
	trajs := reserve.Simulate(money(100), []decimal.Decimal{}, []reserve.FundingPolicy{policy("p", 10)})
	require.Len(t, trajs, 1)
	assert.Empty(t, trajs[0].Balances)
	assert.True(t, money(100).Equal(trajs[0].EndingBalance))
	assert.True(t, trajs[0].Solvent())
}

func TestSimulate_MinimumTracksFirstOccurrence(t *testing.T) {
	exp := []decimal.Decimal{money(0), money(20), money(0), money(10)}
	trajs := reserve.Simulate(money(0), exp, []reserve.FundingPolicy{policy("p", 10)})
	// balances: 10, 0, 10, 10
	assertMoneySeq(t, []int64{10, 0, 10, 10}, trajs[0].Balances)
	assert.Equal(t, 1, trajs[0].MinOffsetYear)
	assert.True(t, trajs[0].Solvent())
}

// =============================================================================
// CRITICAL COMPONENTS
// =============================================================================

func TestCriticalComponents_DefaultThresholdAndOrder(t *testing.T) {
	// GIVEN: The demo inventory
	// WHEN: Asking for critical components with the default threshold
	// THEN: Everything under 10 years, ascending, ties in input order

	crit := reserve.CriticalComponents(golfViewInventory(), 0)

	var ids []string
	for _, c := range crit {
		ids = append(ids, c.Component.ID)
	}
	assert.Equal(t, []string{"3", "4", "2", "7"}, ids)
}

func TestCriticalComponents_StableTies(t *testing.T) {
	crit := reserve.CriticalComponents([]reserve.Component{
		component("first", "A", 3, 1),
		component("second", "B", 1, 1),
		component("third", "C", 3, 1),
	}, 5)

	require.Len(t, crit, 3)
	assert.Equal(t, "second", crit[0].Component.ID)
	assert.Equal(t, "first", crit[1].Component.ID)
	assert.Equal(t, "third", crit[2].Component.ID)
}

func TestCriticalComponents_NoneBelowThreshold(t *testing.T) {
	crit := reserve.CriticalComponents([]reserve.Component{component("a", "A", 20, 1)}, 10)
	assert.NotNil(t, crit)
	assert.Empty(t, crit)
}

func TestUrgencyFor(t *testing.T) {
	assert.Equal(t, reserve.UrgencyDueNow, reserve.UrgencyFor(0))
	assert.Equal(t, reserve.UrgencyDueNow, reserve.UrgencyFor(0.5))
	assert.Equal(t, reserve.UrgencyHigh, reserve.UrgencyFor(1))
	assert.Equal(t, reserve.UrgencyHigh, reserve.UrgencyFor(2))
	assert.Equal(t, reserve.UrgencyMedium, reserve.UrgencyFor(5))
	assert.Equal(t, reserve.UrgencyLow, reserve.UrgencyFor(5.5))
}

func TestCondition_Valid(t *testing.T) {
	assert.True(t, reserve.ConditionFair.Valid())
	assert.False(t, reserve.Condition("ruined").Valid())
}
