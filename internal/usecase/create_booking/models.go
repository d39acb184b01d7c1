package create_booking

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

// Request creates one booking. A nil ServiceID books a free intro call.
type Request struct {
	StudentID int64
	CoachID   int64
	ServiceID *int64
	Date      time.Time // date only, interpreted in the coach's timezone
	StartTime types.TimeString
	Notes     *string
}

// Response carries the created booking.
type Response struct {
	Booking *domain.Booking
}
