/*
funding.go - Balance trajectories under funding policies

PURPOSE:
  Walks the expenditure timeline year by year for each funding policy:

    balance[0] = start + C - exp[0]
    balance[i] = balance[i-1] + C - exp[i]

  The recurrence is nominal. No clamping at zero, no borrowing, no interest
  on the balance and no escalation of contributions or costs. A negative
  balance is reported as-is; that is the point of the study.

SOLVENCY:
  Each trajectory also carries the figures a board reads first: ending
  balance, the lowest balance and when it happens, and the first year the
  fund goes negative (-1 when it never does).

SEE ALSO:
  - aggregate.go: Produces the expenditure sequence
  - engine.go: Zips trajectories into per-year rows
*/
package reserve

import "github.com/shopspring/decimal"

// =============================================================================
// POLICY TRAJECTORY
// =============================================================================

// PolicyTrajectory is the balance sequence for one policy, aligned
// index-for-index with the expenditure timeline.
type PolicyTrajectory struct {
	Policy             string
	AnnualContribution decimal.Decimal
	Balances           []decimal.Decimal

	EndingBalance decimal.Decimal
	MinBalance    decimal.Decimal
	MinOffsetYear int

	// FirstDeficitOffset is the first offset year with a negative balance,
	// or -1 if the balance never goes negative.
	FirstDeficitOffset int
}

// Solvent reports whether the balance stays non-negative for the whole horizon.
func (t PolicyTrajectory) Solvent() bool {
	return t.FirstDeficitOffset < 0
}

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulate computes one trajectory per policy, in policy order. With an empty
// expenditure sequence every trajectory is empty; this is not an error.
func Simulate(start decimal.Decimal, expenditures []decimal.Decimal, policies []FundingPolicy) []PolicyTrajectory {
	out := make([]PolicyTrajectory, len(policies))
	for i, p := range policies {
		out[i] = simulatePolicy(start, expenditures, p)
	}
	return out
}

func simulatePolicy(start decimal.Decimal, expenditures []decimal.Decimal, p FundingPolicy) PolicyTrajectory {
	t := PolicyTrajectory{
		Policy:             p.Name,
		AnnualContribution: p.AnnualContribution,
		Balances:           make([]decimal.Decimal, len(expenditures)),
		EndingBalance:      start,
		MinBalance:         start,
		MinOffsetYear:      -1,
		FirstDeficitOffset: -1,
	}

	balance := start
	for i, spent := range expenditures {
		balance = balance.Add(p.AnnualContribution).Sub(spent)
		t.Balances[i] = balance

		if i == 0 || balance.LessThan(t.MinBalance) {
			t.MinBalance = balance
			t.MinOffsetYear = i
		}
		if t.FirstDeficitOffset < 0 && balance.IsNegative() {
			t.FirstDeficitOffset = i
		}
	}
	t.EndingBalance = balance
	return t
}
