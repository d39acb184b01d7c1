package create_booking

import (
	"fmt"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
)

func validateRequest(req *Request) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.CoachID <= 0 {
		return fmt.Errorf("%w: coachID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time %q", ErrInvalidInput, string(req.StartTime))
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast rejects bookings whose start is behind the
// coach-local clock.
func validateNotInPast(date time.Time, startMinutes int, now time.Time) error {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if dateOnly.Equal(nowOnly) && startMinutes < now.Hour()*60+now.Minute() {
		return fmt.Errorf("%w: start time already elapsed", ErrInvalidDate)
	}

	return nil
}

// fitsAvailability reports whether the interval lies fully inside the
// coach's covered time: the union of the active rule windows with the
// day's blackouts cut out. An interval spanning two overlapping rules
// fits as long as their union covers it.
func fitsAvailability(
	rules []*domain.AvailabilityRule,
	blackouts []*domain.Blackout,
	startMinutes, endMinutes int,
) bool {
	for _, span := range domain.CoveredIntervals(rules, blackouts) {
		if startMinutes >= span.Start && endMinutes <= span.End {
			return true
		}
	}
	return false
}
