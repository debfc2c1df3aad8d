/*
Package factory provides JSON to Go study conversion.

PURPOSE:
  Converts JSON study definitions into study.Study values. Reserve studies
  arrive as documents (exports from the field inspection, hand-edited
  definitions, API payloads); the factory validates their structure, fills
  defaults and produces the typed aggregate the service and engine use.

JSON SCHEMA:
  {
    "id": "golf-view-manor",
    "property": {
      "name": "Golf View Manor II",
      "address": "5683 Rattlesnake Hammock Rd, Naples, FL 34113",
      "construction_year": 1980,
      "building_count": 4,
      "total_units": 75,
      "last_inspection": "2024-12-10"
    },
    "financial": {
      "starting_balance": 143858,
      "start_year": 2025,
      "horizon_years": 30,
      "selected_policy": "baseline",
      "policies": [
        {"name": "baseline", "annual_contribution": 44709},
        {"name": "threshold", "annual_contribution": 55751},
        {"name": "fully_funded", "annual_contribution": 60165}
      ]
    },
    "components": [
      {
        "id": "1", "name": "Roof - Flat, TPO", "category": "Roof",
        "quantity": "330", "unit": "SQ",
        "useful_life": 25, "remaining_life": 11,
        "replacement_cost": 448800,
        "condition": "fair", "last_replaced": "2006"
      }
    ]
  }

DEFAULTS:
  - horizon_years: 30 (see WithDefaultHorizon)
  - start_year: the current calendar year
  - selected_policy: the first policy

VALIDATION:
  The factory rejects structurally broken definitions (missing names,
  unknown condition, unparseable dates) with ErrInvalidDefinition. Numeric
  invariants (negative cost, negative remaining life...) are left to
  study.Validate so there is one source of truth.

SEE ALSO:
  - factory/presets.go: Ready-made study definitions
  - study/study.go: Study aggregate
*/
package factory

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

const (
	DefaultHorizonYears = 30
	dateLayout          = "2006-01-02"
)

// ErrInvalidDefinition is returned when a study definition is malformed.
var ErrInvalidDefinition = errors.New("invalid study definition")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// StudyJSON is the JSON representation of a study.
type StudyJSON struct {
	ID         string          `json:"id,omitempty"`
	Property   PropertyJSON    `json:"property"`
	Financial  FinancialJSON   `json:"financial"`
	Components []ComponentJSON `json:"components"`
}

type PropertyJSON struct {
	Name             string `json:"name"`
	Address          string `json:"address,omitempty"`
	ConstructionYear int    `json:"construction_year,omitempty"`
	BuildingCount    int    `json:"building_count,omitempty"`
	TotalUnits       int    `json:"total_units,omitempty"`
	LastInspection   string `json:"last_inspection,omitempty"` // YYYY-MM-DD
}

type FinancialJSON struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	StartYear       int             `json:"start_year,omitempty"`
	HorizonYears    int             `json:"horizon_years,omitempty"`
	SelectedPolicy  string          `json:"selected_policy,omitempty"`
	Policies        []FundingJSON   `json:"policies"`
}

// FundingJSON is one named contribution policy.
type FundingJSON struct {
	Name               string          `json:"name"`
	AnnualContribution decimal.Decimal `json:"annual_contribution"`
}

type ComponentJSON struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Quantity        string          `json:"quantity,omitempty"`
	Unit            string          `json:"unit,omitempty"`
	UsefulLife      int             `json:"useful_life"`
	RemainingLife   float64         `json:"remaining_life"`
	ReplacementCost decimal.Decimal `json:"replacement_cost"`
	Condition       string          `json:"condition,omitempty"`
	LastReplaced    string          `json:"last_replaced,omitempty"`
}

// =============================================================================
// STUDY FACTORY
// =============================================================================

// StudyFactory converts JSON study definitions to study.Study values.
type StudyFactory struct {
	now            func() time.Time
	defaultHorizon int
}

// NewStudyFactory creates a new study factory.
func NewStudyFactory() *StudyFactory {
	return &StudyFactory{now: time.Now, defaultHorizon: DefaultHorizonYears}
}

// WithDefaultHorizon sets the horizon given to definitions that omit one.
// Non-positive values are ignored.
func (f *StudyFactory) WithDefaultHorizon(years int) *StudyFactory {
	if years > 0 {
		f.defaultHorizon = years
	}
	return f
}

// ParseStudy parses a JSON string into a Study.
func (f *StudyFactory) ParseStudy(jsonStr string) (*study.Study, error) {
	var sj StudyJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse study JSON: %v", ErrInvalidDefinition, err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts StudyJSON to a Study, applying defaults.
func (f *StudyFactory) FromJSON(sj StudyJSON) (*study.Study, error) {
	if sj.Property.Name == "" {
		return nil, fmt.Errorf("%w: property name is required", ErrInvalidDefinition)
	}

	st := &study.Study{
		ID: sj.ID,
		Property: study.Property{
			Name:             sj.Property.Name,
			Address:          sj.Property.Address,
			ConstructionYear: sj.Property.ConstructionYear,
			BuildingCount:    sj.Property.BuildingCount,
			TotalUnits:       sj.Property.TotalUnits,
		},
		StartingBalance: sj.Financial.StartingBalance,
		StartYear:       sj.Financial.StartYear,
		HorizonYears:    sj.Financial.HorizonYears,
		SelectedPolicy:  sj.Financial.SelectedPolicy,
	}

	if sj.Property.LastInspection != "" {
		t, err := time.Parse(dateLayout, sj.Property.LastInspection)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid last_inspection %q (use YYYY-MM-DD)", ErrInvalidDefinition, sj.Property.LastInspection)
		}
		st.Property.LastInspection = t
	}

	if st.HorizonYears == 0 {
		st.HorizonYears = f.defaultHorizon
		if st.HorizonYears == 0 {
			st.HorizonYears = DefaultHorizonYears
		}
	}
	if st.StartYear == 0 {
		st.StartYear = f.now().Year()
	}

	st.Policies = make([]reserve.FundingPolicy, 0, len(sj.Financial.Policies))
	for i, pj := range sj.Financial.Policies {
		if pj.Name == "" {
			return nil, fmt.Errorf("%w: policy %d has no name", ErrInvalidDefinition, i)
		}
		st.Policies = append(st.Policies, reserve.FundingPolicy{
			Name:               pj.Name,
			AnnualContribution: pj.AnnualContribution,
		})
	}
	if st.SelectedPolicy == "" && len(st.Policies) > 0 {
		st.SelectedPolicy = st.Policies[0].Name
	}

	st.Components = make([]reserve.Component, 0, len(sj.Components))
	for i, cj := range sj.Components {
		c, err := ComponentFromJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		st.Components = append(st.Components, c)
	}

	return st, nil
}

// ComponentFromJSON converts a single component definition.
func ComponentFromJSON(cj ComponentJSON) (reserve.Component, error) {
	if cj.Name == "" {
		return reserve.Component{}, fmt.Errorf("%w: component name is required", ErrInvalidDefinition)
	}
	if cj.Category == "" {
		return reserve.Component{}, fmt.Errorf("%w: component %q has no category", ErrInvalidDefinition, cj.Name)
	}
	cond := reserve.Condition(cj.Condition)
	if cj.Condition != "" && !cond.Valid() {
		return reserve.Component{}, fmt.Errorf("%w: component %q has unknown condition %q", ErrInvalidDefinition, cj.Name, cj.Condition)
	}
	return reserve.Component{
		ID:              cj.ID,
		Name:            cj.Name,
		Category:        cj.Category,
		Quantity:        cj.Quantity,
		Unit:            cj.Unit,
		UsefulLife:      cj.UsefulLife,
		RemainingLife:   cj.RemainingLife,
		ReplacementCost: cj.ReplacementCost,
		Condition:       cond,
		LastReplaced:    cj.LastReplaced,
	}, nil
}

// ToJSON converts a Study to StudyJSON.
func (f *StudyFactory) ToJSON(st study.Study) StudyJSON {
	sj := StudyJSON{
		ID: st.ID,
		Property: PropertyJSON{
			Name:             st.Property.Name,
			Address:          st.Property.Address,
			ConstructionYear: st.Property.ConstructionYear,
			BuildingCount:    st.Property.BuildingCount,
			TotalUnits:       st.Property.TotalUnits,
		},
		Financial: FinancialJSON{
			StartingBalance: st.StartingBalance,
			StartYear:       st.StartYear,
			HorizonYears:    st.HorizonYears,
			SelectedPolicy:  st.SelectedPolicy,
			Policies:        make([]FundingJSON, 0, len(st.Policies)),
		},
		Components: make([]ComponentJSON, 0, len(st.Components)),
	}
	if !st.Property.LastInspection.IsZero() {
		sj.Property.LastInspection = st.Property.LastInspection.Format(dateLayout)
	}
	for _, p := range st.Policies {
		sj.Financial.Policies = append(sj.Financial.Policies, FundingJSON{
			Name:               p.Name,
			AnnualContribution: p.AnnualContribution,
		})
	}
	for _, c := range st.Components {
		sj.Components = append(sj.Components, ComponentToJSON(c))
	}
	return sj
}

// ComponentToJSON converts a single component.
func ComponentToJSON(c reserve.Component) ComponentJSON {
	return ComponentJSON{
		ID:              c.ID,
		Name:            c.Name,
		Category:        c.Category,
		Quantity:        c.Quantity,
		Unit:            c.Unit,
		UsefulLife:      c.UsefulLife,
		RemainingLife:   c.RemainingLife,
		ReplacementCost: c.ReplacementCost,
		Condition:       string(c.Condition),
		LastReplaced:    c.LastReplaced,
	}
}
