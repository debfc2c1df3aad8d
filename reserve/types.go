/*
Package reserve provides the reserve-fund projection engine.

PURPOSE:
  Given a component inventory (roofs, structure, mechanical, electrical...),
  a starting reserve balance and a set of funding policies, the engine answers
  one question: does the reserve fund stay solvent over the horizon as
  components reach end of life?

KEY CONCEPTS IN THIS FILE (types.go):
  - Component: One physical asset with a remaining life and replacement cost
  - FundingPolicy: A named constant annual contribution
  - ScheduledEvent: A component replacement placed on the timeline
  - YearProjection: One row of the projection result

DESIGN PRINCIPLES:
  1. Purity: The engine reads its inputs and allocates fresh outputs. No I/O,
     no logging, no state between runs.
  2. Precision: Money is decimal.Decimal, never float64.
  3. Nominal dollars: No inflation, escalation or interest anywhere. Callers
     that want escalation supply pre-escalated costs.
  4. First replacement only: A component is scheduled at most once per run.

USAGE:
  result, err := reserve.Project(components, []reserve.FundingPolicy{
      {Name: reserve.PolicyBaseline, AnnualContribution: decimal.NewFromInt(44709)},
  }, decimal.NewFromInt(143858), 30, 2025)

SEE ALSO:
  - scheduler.go: Remaining life -> replacement year
  - aggregate.go: Per-year and per-category totals
  - funding.go: Balance trajectories per policy
  - engine.go: The facade tying them together
*/
package reserve

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPONENT - One physical asset subject to replacement
// =============================================================================

// Condition is a qualitative assessment. It is informational only and never
// feeds the scheduling math.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Component struct {
	ID       string
	Name     string
	Category string

	// Quantity and Unit describe the measured extent ("330" SQ, "1" LS).
	// Cost is pre-computed, so neither is used in the math.
	Quantity string
	Unit     string

	// UsefulLife is how many years a new instance is expected to last.
	UsefulLife int

	// RemainingLife is the number of years until the next replacement,
	// measured from the projection's start year. Fractional values are
	// floored; see ReplacementOffset.
	RemainingLife float64

	ReplacementCost decimal.Decimal
	Condition       Condition
	LastReplaced    string
}

// ReplacementOffset returns the zero-based projection year in which the
// component's replacement falls.
func (c Component) ReplacementOffset() int {
	if c.RemainingLife >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(c.RemainingLife))
}

// =============================================================================
// FUNDING POLICY
// =============================================================================

// Canonical policy names used by reserve studies.
const (
	PolicyBaseline    = "baseline"
	PolicyThreshold   = "threshold"
	PolicyFullyFunded = "fully_funded"
)

// FundingPolicy is a named constant annual contribution. All policies in a run
// share the starting balance and horizon.
type FundingPolicy struct {
	Name               string
	AnnualContribution decimal.Decimal
}

// =============================================================================
// TIMELINE TYPES
// =============================================================================

// ScheduledEvent is one component replacement placed on the timeline.
type ScheduledEvent struct {
	ComponentID string
	Category    string
	OffsetYear  int
	Amount      decimal.Decimal
}

// YearBucket is one entry of the expenditure timeline.
type YearBucket struct {
	OffsetYear       int
	TotalExpenditure decimal.Decimal
}

// CategoryTotal is the replacement cost of every component in a category,
// regardless of when it falls due.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// =============================================================================
// PROJECTION RESULT
// =============================================================================

type PolicyBalance struct {
	Policy  string
	Balance decimal.Decimal
}

// YearProjection is one row of the projection: what is spent in a year and
// where each policy's balance ends up.
type YearProjection struct {
	OffsetYear   int
	CalendarYear int
	Expenditures decimal.Decimal
	Balances     []PolicyBalance
}

// BalanceFor returns the end-of-year balance for the named policy.
func (y YearProjection) BalanceFor(policy string) (decimal.Decimal, bool) {
	for _, b := range y.Balances {
		if b.Policy == policy {
			return b.Balance, true
		}
	}
	return decimal.Zero, false
}

// Totals are the summary figures shown on a dashboard.
type Totals struct {
	ComponentCount       int
	TotalReplacementCost decimal.Decimal
	// ScheduledCost falls inside the horizon; UnscheduledCost does not.
	ScheduledCost   decimal.Decimal
	UnscheduledCost decimal.Decimal
	StartingBalance decimal.Decimal
}

// ProjectionResult is the engine's output. It is a value: callers may keep it,
// but must not expect the engine to update it when inputs change.
type ProjectionResult struct {
	StartYear    int
	HorizonYears int
	Years        []YearProjection
	Trajectories []PolicyTrajectory
	Categories   []CategoryTotal
	Critical     []CriticalComponent
	Totals       Totals
}

// Expenditures returns the per-year expenditure sequence.
func (r *ProjectionResult) Expenditures() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Years))
	for i, y := range r.Years {
		out[i] = y.Expenditures
	}
	return out
}

// Trajectory returns the trajectory for the named policy.
func (r *ProjectionResult) Trajectory(policy string) (PolicyTrajectory, bool) {
	for _, t := range r.Trajectories {
		if t.Policy == policy {
			return t, true
		}
	}
	return PolicyTrajectory{}, false
}
