/*
presets.go - Ready-made reserve study definitions

PURPOSE:
  Provides complete study definitions for demos, tests and seeding a fresh
  database. Each function returns the JSON document the factory parses, so
  presets go through exactly the same path as user-supplied studies.

AVAILABLE PRESETS:
  GolfViewManorJSON:       4-building, 75-unit condominium, 8 components,
                           three funding policies (the reference study)
  NewConstructionJSON:     Recently built property; first replacement in
                           year 7, only full funding stays solvent
  DeferredMaintenanceJSON: Aging property with several items overdue and a
                           thin reserve; baseline funding goes negative early

SEE ALSO:
  - factory/study.go: StudyJSON schema and parsing
  - api/scenarios.go: Loads presets through the API
*/
package factory

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/reserve-engine/reserve"
)

func usd(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func threePolicies(baseline, threshold, fullyFunded int64) []FundingJSON {
	return []FundingJSON{
		{Name: reserve.PolicyBaseline, AnnualContribution: usd(baseline)},
		{Name: reserve.PolicyThreshold, AnnualContribution: usd(threshold)},
		{Name: reserve.PolicyFullyFunded, AnnualContribution: usd(fullyFunded)},
	}
}

func mustMarshal(sj StudyJSON) string {
	b, err := json.MarshalIndent(sj, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("marshal preset %s: %v", sj.ID, err))
	}
	return string(b)
}

// GolfViewManorJSON returns the reference study.
func GolfViewManorJSON() string {
	return mustMarshal(StudyJSON{
		ID: "golf-view-manor",
		Property: PropertyJSON{
			Name:             "Golf View Manor II",
			Address:          "5683 Rattlesnake Hammock Rd, Naples, FL 34113",
			ConstructionYear: 1980,
			BuildingCount:    4,
			TotalUnits:       75,
			LastInspection:   "2024-12-10",
		},
		Financial: FinancialJSON{
			StartingBalance: usd(143858),
			StartYear:       2025,
			HorizonYears:    30,
			SelectedPolicy:  reserve.PolicyBaseline,
			Policies:        threePolicies(44709, 55751, 60165),
		},
		Components: []ComponentJSON{
			{ID: "1", Name: "Roof - Flat, TPO", Category: "Roof", Quantity: "330", Unit: "SQ", UsefulLife: 25, RemainingLife: 11, ReplacementCost: usd(448800), Condition: "fair", LastReplaced: "2006"},
			{ID: "2", Name: "Roof - Mansard, Asphalt Shingle", Category: "Roof", Quantity: "68", Unit: "SQ", UsefulLife: 25, RemainingLife: 8, ReplacementCost: usd(49980), Condition: "fair", LastReplaced: "2006"},
			{ID: "3", Name: "Stairways & Walkways", Category: "Structure", Quantity: "11,670", Unit: "SF", UsefulLife: 7, RemainingLife: 5, ReplacementCost: usd(37928), Condition: "good", LastReplaced: "2021"},
			{ID: "4", Name: "Exterior Wall Finishes", Category: "Waterproofing", Quantity: "39,465", Unit: "SF", UsefulLife: 10, RemainingLife: 7, ReplacementCost: usd(98663), Condition: "good", LastReplaced: "2021"},
			{ID: "5", Name: "Elevator", Category: "Mechanical", Quantity: "2", Unit: "EA", UsefulLife: 30, RemainingLife: 28, ReplacementCost: usd(250000), Condition: "excellent", LastReplaced: "2023"},
			{ID: "6", Name: "Fire Alarm & Life Safety Systems", Category: "Fireproofing", Quantity: "4", Unit: "EA", UsefulLife: 15, RemainingLife: 11, ReplacementCost: usd(20000), Condition: "good", LastReplaced: "2020"},
			{ID: "7", Name: "Plumbing", Category: "Plumbing", Quantity: "1", Unit: "LS", UsefulLife: 10, RemainingLife: 8, ReplacementCost: usd(25000), Condition: "good", LastReplaced: "2022"},
			{ID: "8", Name: "Electrical System", Category: "Electrical", Quantity: "1", Unit: "LS", UsefulLife: 25, RemainingLife: 20, ReplacementCost: usd(35000), Condition: "good", LastReplaced: "2020"},
		},
	})
}

// NewConstructionJSON returns a study for a property completed recently.
func NewConstructionJSON() string {
	return mustMarshal(StudyJSON{
		ID: "harbor-pointe",
		Property: PropertyJSON{
			Name:             "Harbor Pointe Residences",
			Address:          "200 Bayfront Dr, Sarasota, FL 34236",
			ConstructionYear: 2022,
			BuildingCount:    1,
			TotalUnits:       48,
			LastInspection:   "2025-03-04",
		},
		Financial: FinancialJSON{
			StartingBalance: usd(60000),
			StartYear:       2025,
			HorizonYears:    30,
			SelectedPolicy:  reserve.PolicyFullyFunded,
			Policies:        threePolicies(18000, 26000, 33000),
		},
		Components: []ComponentJSON{
			{ID: "hp-roof", Name: "Roof - Modified Bitumen", Category: "Roof", Quantity: "210", Unit: "SQ", UsefulLife: 20, RemainingLife: 17, ReplacementCost: usd(315000), Condition: "excellent", LastReplaced: "2022"},
			{ID: "hp-paint", Name: "Exterior Paint & Sealant", Category: "Waterproofing", Quantity: "28,000", Unit: "SF", UsefulLife: 10, RemainingLife: 7, ReplacementCost: usd(84000), Condition: "excellent", LastReplaced: "2022"},
			{ID: "hp-elev", Name: "Elevator Modernization", Category: "Mechanical", Quantity: "2", Unit: "EA", UsefulLife: 25, RemainingLife: 22, ReplacementCost: usd(280000), Condition: "excellent", LastReplaced: "2022"},
			{ID: "hp-pool", Name: "Pool Resurfacing", Category: "Amenities", Quantity: "1", Unit: "LS", UsefulLife: 12, RemainingLife: 9, ReplacementCost: usd(42000), Condition: "good", LastReplaced: "2022"},
			{ID: "hp-hvac", Name: "Common Area HVAC", Category: "Mechanical", Quantity: "6", Unit: "EA", UsefulLife: 15, RemainingLife: 12, ReplacementCost: usd(54000), Condition: "excellent", LastReplaced: "2022"},
		},
	})
}

// DeferredMaintenanceJSON returns a study for an aging property with items
// already past due.
func DeferredMaintenanceJSON() string {
	return mustMarshal(StudyJSON{
		ID: "cypress-gardens",
		Property: PropertyJSON{
			Name:             "Cypress Gardens Condominium",
			Address:          "1410 Palmetto Ave, Fort Myers, FL 33901",
			ConstructionYear: 1972,
			BuildingCount:    6,
			TotalUnits:       96,
			LastInspection:   "2024-08-22",
		},
		Financial: FinancialJSON{
			StartingBalance: usd(35000),
			StartYear:       2025,
			HorizonYears:    30,
			SelectedPolicy:  reserve.PolicyBaseline,
			Policies:        threePolicies(38000, 61000, 79000),
		},
		Components: []ComponentJSON{
			{ID: "cg-balc", Name: "Balcony Concrete Restoration", Category: "Structure", Quantity: "96", Unit: "EA", UsefulLife: 30, RemainingLife: 0, ReplacementCost: usd(288000), Condition: "poor", LastReplaced: "1990"},
			{ID: "cg-roof", Name: "Roof - Built-Up", Category: "Roof", Quantity: "410", Unit: "SQ", UsefulLife: 20, RemainingLife: 1, ReplacementCost: usd(389500), Condition: "poor", LastReplaced: "2003"},
			{ID: "cg-windows", Name: "Hurricane Windows", Category: "Waterproofing", Quantity: "540", Unit: "EA", UsefulLife: 30, RemainingLife: 4, ReplacementCost: usd(432000), Condition: "fair", LastReplaced: "1998"},
			{ID: "cg-elec", Name: "Electrical Panels", Category: "Electrical", Quantity: "6", Unit: "EA", UsefulLife: 40, RemainingLife: 2, ReplacementCost: usd(72000), Condition: "poor", LastReplaced: "1985"},
			{ID: "cg-pave", Name: "Asphalt Paving", Category: "Site", Quantity: "52,000", Unit: "SF", UsefulLife: 20, RemainingLife: 9, ReplacementCost: usd(117000), Condition: "fair", LastReplaced: "2014"},
			{ID: "cg-fire", Name: "Fire Sprinkler Retrofit", Category: "Fireproofing", Quantity: "6", Unit: "EA", UsefulLife: 40, RemainingLife: 3, ReplacementCost: usd(210000), Condition: "poor", LastReplaced: ""},
		},
	})
}
