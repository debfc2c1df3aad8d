package reserve

import (
	"math"
	"sort"
)

// =============================================================================
// CRITICAL COMPONENTS - Near-term replacement risk
// =============================================================================

// DefaultCriticalThreshold is the remaining-life cutoff (in years) used when
// the caller does not supply one.
const DefaultCriticalThreshold = 10

// Urgency buckets a component's remaining life for display.
type Urgency string

const (
	UrgencyDueNow Urgency = "due_now" // replacement falls in the first projected year
	UrgencyHigh   Urgency = "high"    // <= 2 years
	UrgencyMedium Urgency = "medium"  // <= 5 years
	UrgencyLow    Urgency = "low"
)

// UrgencyFor classifies a remaining life.
func UrgencyFor(remainingLife float64) Urgency {
	switch {
	case math.Floor(remainingLife) <= 0:
		return UrgencyDueNow
	case remainingLife <= 2:
		return UrgencyHigh
	case remainingLife <= 5:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

type CriticalComponent struct {
	Component Component
	Urgency   Urgency
}

// CriticalComponents returns every component whose remaining life is below
// threshold, sorted ascending by remaining life. Ties keep input order.
// A threshold of 0 selects DefaultCriticalThreshold.
//
// This does not run a projection; it only reads the inventory.
func CriticalComponents(components []Component, threshold int) []CriticalComponent {
	if threshold == 0 {
		threshold = DefaultCriticalThreshold
	}
	out := make([]CriticalComponent, 0)
	for _, c := range components {
		if c.RemainingLife < float64(threshold) {
			out = append(out, CriticalComponent{Component: c, Urgency: UrgencyFor(c.RemainingLife)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Component.RemainingLife < out[j].Component.RemainingLife
	})
	return out
}
