package domain

import (
	"time"

	"github.com/coachhq/booking-service/pkg/types"
)

// AvailabilityRule is a coach's recurring weekly bookable window
// expressed as wall-clock times in the coach's declared timezone.
// Rules are soft-deactivated, never deleted, because historical bookings
// reference slots derived from them.
type AvailabilityRule struct {
	ID        int64
	CoachID   int64
	Weekday   time.Weekday // 0 = Sunday, Go convention
	StartTime types.TimeString
	EndTime   types.TimeString
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blackout is a one-off exclusion from a coach's availability on a
// single date (vacation, an external commitment). It subtracts from the
// windows the active rules produce.
type Blackout struct {
	ID        int64
	CoachID   int64
	Date      time.Time // date component only
	StartTime types.TimeString
	EndTime   types.TimeString
	Reason    *string
	CreatedAt time.Time
}
