package get_available_slots

import (
	"time"

	"github.com/coachhq/booking-service/pkg/types"
)

// Request asks for the bookable slots of one coach on one date.
type Request struct {
	CoachID   int64
	ServiceID *int64    // nil means an intro call with the default duration
	Date      time.Time // date only, interpreted in the coach's timezone
}

// Response lists every slot of the day, taken ones included.
type Response struct {
	Date    time.Time
	CoachID int64
	Slots   []Slot
}

// Slot is one offered start time.
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
}
