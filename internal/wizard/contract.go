package wizard

import (
	"context"

	"github.com/coachhq/booking-service/internal/integrations/coachservice"
	commitBooking "github.com/coachhq/booking-service/internal/usecase/commit_booking"
	getAvailableSlots "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
)

// SlotProvider generates the slot grid used to validate picks.
type SlotProvider interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

// BookingCommitter turns the finished session into a confirmed booking.
type BookingCommitter interface {
	Execute(ctx context.Context, req *commitBooking.Request) (*commitBooking.Response, error)
}

// CoachServiceClient validates service picks against the catalogue.
type CoachServiceClient interface {
	GetService(ctx context.Context, coachID, serviceID int64) (*coachservice.Service, error)
}

// Logger is the logging contract the wizard depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
