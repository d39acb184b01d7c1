package get_available_slots

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

// tileRules turns the day's availability into a slot grid. The covered
// intervals (rule windows merged into a union, blackouts cut out) are
// each tiled from their own start in steps of the service duration, so
// a blackout at the head of a window shifts the grid behind it. A
// partial trailing slot never fits.
func tileRules(
	rules []*domain.AvailabilityRule,
	blackouts []*domain.Blackout,
	durationMinutes int,
) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0)

	// Covered intervals are sorted and disjoint, so the grid comes out
	// ordered and free of duplicates.
	for _, span := range domain.CoveredIntervals(rules, blackouts) {
		for cur := span.Start; cur+durationMinutes <= span.End; cur += durationMinutes {
			slot, err := types.NewTimeStringFromMinutes(cur)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}
	}

	return slots, nil
}

// markAvailability builds the response slots, flagging the ones already
// taken by an active booking or already behind the coach-local clock.
func markAvailability(
	slots []types.TimeString,
	durationMinutes int,
	bookings []*domain.Booking,
	requestDate time.Time,
	now time.Time,
) []Slot {
	result := make([]Slot, 0, len(slots))

	// Slots starting before the cutoff are shown but not bookable.
	pastCutoff := 0
	if isSameDay(requestDate, now) {
		pastCutoff = now.Hour()*60 + now.Minute()
	} else if isDateInPast(requestDate, now) {
		// An elapsed day keeps its full grid, nothing is bookable.
		pastCutoff = 24 * 60
	}

	for _, slotStart := range slots {
		start, err := slotStart.Minutes()
		if err != nil {
			continue
		}

		available := start >= pastCutoff
		if available {
			available = !hasOverlappingBooking(bookings, start, start+durationMinutes)
		}

		result = append(result, Slot{
			StartTime:       slotStart,
			DurationMinutes: durationMinutes,
			Available:       available,
		})
	}

	return result
}

func hasOverlappingBooking(bookings []*domain.Booking, slotStart, slotEnd int) bool {
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bStart, err := booking.StartTime.Minutes()
		if err != nil {
			continue
		}

		if domain.IntervalsOverlap(slotStart, slotEnd, bStart, bStart+booking.DurationMinutes) {
			return true
		}
	}

	return false
}

func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
