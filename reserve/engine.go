/*
engine.go - Projection engine facade

PURPOSE:
  Orchestrates a full projection run:

    components --Schedule--> events --AggregateByYear--> expenditures
    expenditures + policies --Simulate--> trajectories
    zip(expenditures, trajectories) --> []YearProjection

  Inputs are validated up front. If anything is invalid the run stops before
  computing anything and returns an *InvalidInputError.

STATE:
  Engine carries configuration only (the default critical threshold). It is
  safe to share between goroutines; each Project call allocates its own
  result and keeps no reference to it.

EXAMPLE:
  engine := reserve.Engine{}
  result, err := engine.Project(reserve.ProjectionInput{
      Components:      inventory,
      Policies:        policies,
      StartingBalance: decimal.NewFromInt(143858),
      HorizonYears:    30,
      StartYear:       2025,
  })
  if err != nil {
      return err
  }
  for _, y := range result.Years {
      b, _ := y.BalanceFor(reserve.PolicyBaseline)
      fmt.Println(y.CalendarYear, y.Expenditures, b)
  }

SEE ALSO:
  - scheduler.go, aggregate.go, funding.go: The three stages
  - critical.go: Critical components view
*/
package reserve

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECTION INPUT
// =============================================================================

type ProjectionInput struct {
	// Inventory, read-only for the duration of the run.
	Components []Component

	// Policies in display order. Names must be unique.
	Policies []FundingPolicy

	StartingBalance decimal.Decimal

	// HorizonYears must be positive.
	HorizonYears int

	// StartYear is the calendar year of offset 0.
	StartYear int

	// CriticalThreshold for ProjectionResult.Critical. 0 uses the engine's
	// default.
	CriticalThreshold int
}

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	// CriticalThreshold overrides DefaultCriticalThreshold when positive.
	CriticalThreshold int
}

// Project runs a projection over in.
func (e Engine) Project(in ProjectionInput) (*ProjectionResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	events := ScheduleAll(in.Components, in.HorizonYears)
	expenditures := AggregateByYear(events, in.HorizonYears)
	trajectories := Simulate(in.StartingBalance, expenditures, in.Policies)

	years := make([]YearProjection, in.HorizonYears)
	for i := range years {
		balances := make([]PolicyBalance, len(trajectories))
		for j, t := range trajectories {
			balances[j] = PolicyBalance{Policy: t.Policy, Balance: t.Balances[i]}
		}
		years[i] = YearProjection{
			OffsetYear:   i,
			CalendarYear: in.StartYear + i,
			Expenditures: expenditures[i],
			Balances:     balances,
		}
	}

	total := decimal.Zero
	for _, c := range in.Components {
		total = total.Add(c.ReplacementCost)
	}
	scheduled := sum(expenditures)

	return &ProjectionResult{
		StartYear:    in.StartYear,
		HorizonYears: in.HorizonYears,
		Years:        years,
		Trajectories: trajectories,
		Categories:   CategoryTotals(in.Components),
		Critical:     CriticalComponents(in.Components, e.threshold(in.CriticalThreshold)),
		Totals: Totals{
			ComponentCount:       len(in.Components),
			TotalReplacementCost: total,
			ScheduledCost:        scheduled,
			UnscheduledCost:      total.Sub(scheduled),
			StartingBalance:      in.StartingBalance,
		},
	}, nil
}

// Critical returns the critical components view without running a projection.
func (e Engine) Critical(components []Component, threshold int) ([]CriticalComponent, error) {
	if threshold < 0 {
		return nil, &InvalidInputError{Field: "critical_threshold", Reason: "must not be negative"}
	}
	return CriticalComponents(components, e.threshold(threshold)), nil
}

func (e Engine) threshold(requested int) int {
	if requested > 0 {
		return requested
	}
	if e.CriticalThreshold > 0 {
		return e.CriticalThreshold
	}
	return DefaultCriticalThreshold
}

// Project is a convenience over a zero Engine.
func Project(components []Component, policies []FundingPolicy, startingBalance decimal.Decimal, horizonYears, startYear int) (*ProjectionResult, error) {
	return Engine{}.Project(ProjectionInput{
		Components:      components,
		Policies:        policies,
		StartingBalance: startingBalance,
		HorizonYears:    horizonYears,
		StartYear:       startYear,
	})
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks in and returns the first violation found, in the order
// horizon, components (input order), policies (input order).
func Validate(in ProjectionInput) error {
	if in.HorizonYears <= 0 {
		return &InvalidInputError{Field: "horizon_years", Reason: "must be positive"}
	}
	if in.CriticalThreshold < 0 {
		return &InvalidInputError{Field: "critical_threshold", Reason: "must not be negative"}
	}

	for _, c := range in.Components {
		if err := ValidateComponent(c); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(in.Policies))
	for _, p := range in.Policies {
		if p.Name == "" {
			return &InvalidInputError{Field: "policy_name", Reason: "must not be empty"}
		}
		if seen[p.Name] {
			return &InvalidInputError{Field: "policy_name", Policy: p.Name, Reason: "is duplicated"}
		}
		seen[p.Name] = true
		if p.AnnualContribution.IsNegative() {
			return &InvalidInputError{Field: "annual_contribution", Policy: p.Name, Reason: "must not be negative"}
		}
	}
	return nil
}

// ValidateComponent checks the numeric invariants of a single component.
func ValidateComponent(c Component) error {
	if math.IsNaN(c.RemainingLife) || math.IsInf(c.RemainingLife, 0) {
		return &InvalidInputError{Field: "remaining_life", ComponentID: c.ID, Reason: "must be a finite number"}
	}
	if c.RemainingLife < 0 {
		return &InvalidInputError{Field: "remaining_life", ComponentID: c.ID, Reason: "must not be negative"}
	}
	if c.ReplacementCost.IsNegative() {
		return &InvalidInputError{Field: "replacement_cost", ComponentID: c.ID, Reason: "must not be negative"}
	}
	return nil
}
