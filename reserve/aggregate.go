package reserve

import "github.com/shopspring/decimal"

// =============================================================================
// EXPENDITURE AGGREGATOR
// =============================================================================

// AggregateByYear sums scheduled events into a timeline of exactly horizon
// entries. Years without events are zero, never omitted, so the funding
// simulation can index every year. Events outside [0, horizon) are ignored.
func AggregateByYear(events []ScheduledEvent, horizon int) []decimal.Decimal {
	if horizon <= 0 {
		return []decimal.Decimal{}
	}
	totals := make([]decimal.Decimal, horizon)
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, e := range events {
		if e.OffsetYear < 0 || e.OffsetYear >= horizon {
			continue
		}
		totals[e.OffsetYear] = totals[e.OffsetYear].Add(e.Amount)
	}
	return totals
}

// YearBuckets labels a per-year total sequence with its offsets.
func YearBuckets(totals []decimal.Decimal) []YearBucket {
	buckets := make([]YearBucket, len(totals))
	for i, t := range totals {
		buckets[i] = YearBucket{OffsetYear: i, TotalExpenditure: t}
	}
	return buckets
}

// CategoryTotals groups components by category and sums their replacement
// cost, regardless of when the replacement falls. Categories appear in the
// order they are first seen in the inventory.
func CategoryTotals(components []Component) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, c := range components {
		i, ok := index[c.Category]
		if !ok {
			i = len(out)
			index[c.Category] = i
			out = append(out, CategoryTotal{Category: c.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(c.ReplacementCost)
		out[i].Count++
	}
	if out == nil {
		return []CategoryTotal{}
	}
	return out
}

// sum adds a sequence of amounts.
func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
