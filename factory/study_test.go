package factory

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

func fixedFactory(year int) *StudyFactory {
	return &StudyFactory{now: func() time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }}
}

func TestParseStudy_GolfViewManor(t *testing.T) {
	// GIVEN: The reference preset
	// WHEN: Parsing it
	// THEN: Property, financial inputs and inventory come through intact

	st, err := NewStudyFactory().ParseStudy(GolfViewManorJSON())
	require.NoError(t, err)

	assert.Equal(t, "golf-view-manor", st.ID)
	assert.Equal(t, "Golf View Manor II", st.Property.Name)
	assert.Equal(t, 75, st.Property.TotalUnits)
	assert.Equal(t, time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC), st.Property.LastInspection)

	assert.True(t, decimal.NewFromInt(143858).Equal(st.StartingBalance))
	assert.Equal(t, 2025, st.StartYear)
	assert.Equal(t, 30, st.HorizonYears)
	assert.Equal(t, reserve.PolicyBaseline, st.SelectedPolicy)

	require.Len(t, st.Policies, 3)
	assert.Equal(t, reserve.PolicyFullyFunded, st.Policies[2].Name)
	assert.True(t, decimal.NewFromInt(60165).Equal(st.Policies[2].AnnualContribution))

	require.Len(t, st.Components, 8)
	roof := st.Components[0]
	assert.Equal(t, "Roof - Flat, TPO", roof.Name)
	assert.Equal(t, 11.0, roof.RemainingLife)
	assert.Equal(t, reserve.ConditionFair, roof.Condition)
	assert.True(t, decimal.NewFromInt(448800).Equal(roof.ReplacementCost))

	require.NoError(t, study.Validate(*st))
}

func TestPresets_AllValid(t *testing.T) {
	for name, preset := range map[string]string{
		"golf-view": GolfViewManorJSON(),
		"new":       NewConstructionJSON(),
		"deferred":  DeferredMaintenanceJSON(),
	} {
		t.Run(name, func(t *testing.T) {
			st, err := NewStudyFactory().ParseStudy(preset)
			require.NoError(t, err)
			require.NoError(t, study.Validate(*st))

			_, err = reserve.Engine{}.Project(st.Input())
			require.NoError(t, err)
		})
	}
}

func TestMustMarshal_IndentedAndParseable(t *testing.T) {
	sj := StudyJSON{ID: "tiny", Property: PropertyJSON{Name: "Tiny"}}

	var out string
	require.NotPanics(t, func() { out = mustMarshal(sj) })
	assert.Contains(t, out, "\n  \"id\": \"tiny\"")
	assert.Contains(t, out, "\"Tiny\"")
}

func TestDeferredMaintenance_BaselineGoesNegativeImmediately(t *testing.T) {
	st, err := NewStudyFactory().ParseStudy(DeferredMaintenanceJSON())
	require.NoError(t, err)

	result, err := reserve.Engine{}.Project(st.Input())
	require.NoError(t, err)

	traj, ok := result.Trajectory(reserve.PolicyBaseline)
	require.True(t, ok)
	assert.Equal(t, 0, traj.FirstDeficitOffset)
	assert.False(t, traj.Solvent())
}

func TestFromJSON_Defaults(t *testing.T) {
	sj := StudyJSON{
		Property: PropertyJSON{Name: "Bare"},
		Financial: FinancialJSON{
			Policies: []FundingJSON{{Name: "only", AnnualContribution: decimal.NewFromInt(5)}},
		},
	}
	st, err := fixedFactory(2031).FromJSON(sj)
	require.NoError(t, err)
	assert.Equal(t, DefaultHorizonYears, st.HorizonYears)
	assert.Equal(t, 2031, st.StartYear)
	assert.Equal(t, "only", st.SelectedPolicy)
	assert.NotNil(t, st.Components)

	st, err = fixedFactory(2031).WithDefaultHorizon(15).FromJSON(sj)
	require.NoError(t, err)
	assert.Equal(t, 15, st.HorizonYears)
}

func TestParseStudy_AcceptsQuotedMoney(t *testing.T) {
	st, err := NewStudyFactory().ParseStudy(`{
		"property": {"name": "Quoted"},
		"financial": {"starting_balance": "1000.50", "start_year": 2025, "policies": [{"name": "b", "annual_contribution": 12.25}]},
		"components": [{"name": "Gate", "category": "Site", "useful_life": 10, "remaining_life": 2.5, "replacement_cost": "99.99"}]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "1000.5", st.StartingBalance.String())
	assert.Equal(t, "12.25", st.Policies[0].AnnualContribution.String())
	assert.Equal(t, "99.99", st.Components[0].ReplacementCost.String())
	assert.Equal(t, 2, st.Components[0].ReplacementOffset())
}

func TestParseStudy_Rejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"no property name", `{"property": {}, "financial": {"policies": []}}`},
		{"bad inspection date", `{"property": {"name": "x", "last_inspection": "12/10/2024"}}`},
		{"unnamed policy", `{"property": {"name": "x"}, "financial": {"policies": [{"annual_contribution": 1}]}}`},
		{"unnamed component", `{"property": {"name": "x"}, "components": [{"category": "Roof"}]}`},
		{"no category", `{"property": {"name": "x"}, "components": [{"name": "Roof"}]}`},
		{"unknown condition", `{"property": {"name": "x"}, "components": [{"name": "Roof", "category": "Roof", "condition": "ruined"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStudyFactory().ParseStudy(tt.json)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDefinition), "got %v", err)
		})
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := NewStudyFactory()
	st, err := f.ParseStudy(GolfViewManorJSON())
	require.NoError(t, err)

	back, err := f.FromJSON(f.ToJSON(*st))
	require.NoError(t, err)
	assert.Equal(t, st.Property, back.Property)
	assert.Equal(t, st.SelectedPolicy, back.SelectedPolicy)
	require.Len(t, back.Components, len(st.Components))
	for i := range st.Components {
		assert.Equal(t, st.Components[i].ID, back.Components[i].ID)
		assert.True(t, st.Components[i].ReplacementCost.Equal(back.Components[i].ReplacementCost))
	}
}
