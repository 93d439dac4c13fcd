package domain

// ItineraryDay is one entry of a package's day-by-day schedule.
// Day numbers are 1-based and contiguous: the nth entry always has Day == n.
type ItineraryDay struct {
	Day         int    `json:"day"`
	Description string `json:"description"`
}

// ResizeItinerary derives a new itinerary of exactly duration entries from prev.
// Growing appends entries with empty descriptions; shrinking truncates from the
// tail. Surviving entries keep their day number and description. A duration of
// zero or less yields an empty itinerary.
//
// The returned slice never aliases prev, so callers can hand out the result
// without worrying about later edits to the original.
func ResizeItinerary(prev []ItineraryDay, duration int) []ItineraryDay {
	if duration <= 0 {
		return []ItineraryDay{}
	}

	next := make([]ItineraryDay, 0, duration)
	for i := 0; i < duration && i < len(prev); i++ {
		next = append(next, prev[i])
	}
	for day := len(next) + 1; day <= duration; day++ {
		next = append(next, ItineraryDay{Day: day})
	}
	return next
}

// SetDayDescription returns a copy of days with the entry whose Day matches day
// updated to desc. All other entries are unchanged and order is preserved.
// An unknown day number is a no-op.
func SetDayDescription(days []ItineraryDay, day int, desc string) []ItineraryDay {
	next := make([]ItineraryDay, len(days))
	copy(next, days)
	for i := range next {
		if next[i].Day == day {
			next[i].Description = desc
		}
	}
	return next
}
