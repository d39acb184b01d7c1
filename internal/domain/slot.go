package domain

import (
	"sort"

	"github.com/coachhq/booking-service/pkg/types"
)

// MinuteRange is a half-open [Start, End) span in minutes since midnight.
type MinuteRange struct {
	Start int
	End   int
}

// CoveredIntervals resolves a day's bookable time: the union of the rule
// windows with every blackout cut out. Overlapping and touching windows
// merge, a blackout inside a window splits it in two. Entries with
// malformed times are skipped. The result is sorted and pairwise disjoint.
func CoveredIntervals(rules []*AvailabilityRule, blackouts []*Blackout) []MinuteRange {
	covered := mergeRuleWindows(rules)
	for _, b := range blackouts {
		bStart, err := b.StartTime.Minutes()
		if err != nil {
			continue
		}
		bEnd, err := b.EndTime.Minutes()
		if err != nil {
			continue
		}
		covered = subtractRange(covered, bStart, bEnd)
	}
	return covered
}

func mergeRuleWindows(rules []*AvailabilityRule) []MinuteRange {
	windows := make([]MinuteRange, 0, len(rules))
	for _, rule := range rules {
		start, err := rule.StartTime.Minutes()
		if err != nil {
			continue
		}
		end, err := rule.EndTime.Minutes()
		if err != nil || end <= start {
			continue
		}
		windows = append(windows, MinuteRange{Start: start, End: end})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start < windows[j].Start
	})

	merged := make([]MinuteRange, 0, len(windows))
	for _, w := range windows {
		if n := len(merged); n > 0 && w.Start <= merged[n-1].End {
			if w.End > merged[n-1].End {
				merged[n-1].End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

func subtractRange(ranges []MinuteRange, cutStart, cutEnd int) []MinuteRange {
	if cutEnd <= cutStart {
		return ranges
	}

	out := make([]MinuteRange, 0, len(ranges))
	for _, r := range ranges {
		if !IntervalsOverlap(r.Start, r.End, cutStart, cutEnd) {
			out = append(out, r)
			continue
		}
		if r.Start < cutStart {
			out = append(out, MinuteRange{Start: r.Start, End: cutStart})
		}
		if cutEnd < r.End {
			out = append(out, MinuteRange{Start: cutEnd, End: r.End})
		}
	}
	return out
}

// IntervalsOverlap reports whether the half-open intervals
// [aStart, aEnd) and [bStart, bEnd), given in minutes since midnight,
// overlap. Touching boundaries do not count.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// BookingOverlaps reports whether an active booking's interval overlaps
// the half-open candidate interval [slotStart, slotStart+duration).
// Bookings whose times cannot be resolved are skipped rather than
// treated as conflicts.
func BookingOverlaps(b *Booking, slotStart types.TimeString, durationMinutes int) bool {
	if !b.IsActive() {
		return false
	}

	slotStartMin, err := slotStart.Minutes()
	if err != nil {
		return false
	}
	bookingStartMin, err := b.StartTime.Minutes()
	if err != nil {
		return false
	}

	return IntervalsOverlap(
		slotStartMin, slotStartMin+durationMinutes,
		bookingStartMin, bookingStartMin+b.DurationMinutes,
	)
}
