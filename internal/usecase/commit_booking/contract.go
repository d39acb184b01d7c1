package commit_booking

import (
	"context"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/integrations/paymentservice"
	createBooking "github.com/coachhq/booking-service/internal/usecase/create_booking"
)

// BookingCreator claims the slot. Reusing the creation usecase keeps
// the wizard path under the same conflict checks as the direct API.
type BookingCreator interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

// BookingRepository confirms the claimed booking or rolls it back.
type BookingRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// PaymentClient charges the student for paid bookings.
type PaymentClient interface {
	Charge(ctx context.Context, req paymentservice.ChargeRequest) (*paymentservice.PaymentReference, error)
}

// NotifyClient delivers the confirmation, best effort.
type NotifyClient interface {
	Notify(ctx context.Context, kind, recipient string, data map[string]string) error
}

// Logger is the logging contract this usecase depends on.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
