package transition_booking

import "github.com/coachhq/booking-service/internal/domain"

// Request moves one booking to a new status. Actor and Reason are
// required for cancellations and ignored otherwise.
type Request struct {
	BookingID    int64
	TargetStatus domain.BookingStatus
	Actor        domain.CancellationActor
	Reason       string
}

// Response carries the booking after the transition.
type Response struct {
	Booking *domain.Booking
}
