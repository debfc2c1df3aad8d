package reserve

// =============================================================================
// REPLACEMENT SCHEDULER - Remaining life -> replacement year
// =============================================================================

// Schedule places a component's replacement on a timeline of horizon years.
//
// The replacement lands in offset floor(RemainingLife). A remaining life of 0
// means the replacement is due this year (offset 0). A component whose
// replacement falls at or beyond the horizon yields no event.
//
// Only the FIRST replacement is scheduled. A 7-year item inside a 30-year
// horizon still appears once; repeat cycles are not modelled.
func Schedule(c Component, horizon int) (ScheduledEvent, bool) {
	offset := c.ReplacementOffset()
	if offset < 0 || offset >= horizon {
		return ScheduledEvent{}, false
	}
	return ScheduledEvent{
		ComponentID: c.ID,
		Category:    c.Category,
		OffsetYear:  offset,
		Amount:      c.ReplacementCost,
	}, true
}

// ScheduleAll runs Schedule over an inventory, preserving input order.
func ScheduleAll(components []Component, horizon int) []ScheduledEvent {
	events := make([]ScheduledEvent, 0, len(components))
	for _, c := range components {
		if e, ok := Schedule(c, horizon); ok {
			events = append(events, e)
		}
	}
	return events
}
