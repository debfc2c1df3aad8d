/*
Package study provides the reserve study aggregate and the service around it.

PURPOSE:
  The reserve package is a pure engine. This package is the application layer
  that owns everything the engine deliberately does not: the property being
  studied, its stored inventory, the financial inputs, and re-running the
  projection when any of them change.

KEY TYPES:
  - Study: Property info + financial inputs + policies + inventory
  - Store: Persistence interface (sqlite, memory)
  - Service: Loads studies and runs projections

LIFECYCLE:
  A Study is loaded, converted with Input(), and handed to the engine. The
  projection result is returned to the caller and never cached here: every
  call re-runs the engine on the current inventory.

SEE ALSO:
  - reserve/engine.go: The projection engine
  - factory/study.go: JSON definitions and presets
  - store/sqlite/sqlite.go: SQLite Store implementation
  - study/store/memory.go: In-memory Store implementation
*/
package study

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/reserve-engine/reserve"
)

// =============================================================================
// STUDY AGGREGATE
// =============================================================================

// Property describes the community being studied.
type Property struct {
	Name             string
	Address          string
	ConstructionYear int
	BuildingCount    int
	TotalUnits       int
	LastInspection   time.Time
}

type Study struct {
	ID       string
	Property Property

	// Financial inputs
	StartingBalance decimal.Decimal
	StartYear       int
	HorizonYears    int

	// SelectedPolicy is the policy the board adopted. It must name one of
	// Policies; presentation highlights it.
	SelectedPolicy string
	Policies       []reserve.FundingPolicy

	Components []reserve.Component

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input converts the study into a projection input.
func (s Study) Input() reserve.ProjectionInput {
	return reserve.ProjectionInput{
		Components:      s.Components,
		Policies:        s.Policies,
		StartingBalance: s.StartingBalance,
		HorizonYears:    s.HorizonYears,
		StartYear:       s.StartYear,
	}
}

// Component returns the component with the given ID.
func (s Study) Component(id string) (reserve.Component, bool) {
	for _, c := range s.Components {
		if c.ID == id {
			return c, true
		}
	}
	return reserve.Component{}, false
}

// Policy returns the funding policy with the given name.
func (s Study) Policy(name string) (reserve.FundingPolicy, bool) {
	for _, p := range s.Policies {
		if p.Name == name {
			return p, true
		}
	}
	return reserve.FundingPolicy{}, false
}

// Clone returns a copy that shares no slices with s.
func (s Study) Clone() Study {
	out := s
	out.Policies = append([]reserve.FundingPolicy(nil), s.Policies...)
	out.Components = append([]reserve.Component(nil), s.Components...)
	return out
}

// Summary is the list view of a study.
type Summary struct {
	ID             string
	Name           string
	Address        string
	ComponentCount int
	StartYear      int
	HorizonYears   int
	UpdatedAt      time.Time
}
