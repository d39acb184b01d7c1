package commit_booking

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

// Request commits a finished wizard session to the ledger.
type Request struct {
	StudentID int64
	CoachID   int64
	ServiceID *int64
	Date      time.Time
	StartTime types.TimeString
	Notes     *string

	// Contact details collected by the wizard.
	StudentName  string
	StudentEmail string
}

// Response carries the confirmed booking.
type Response struct {
	Booking   *domain.Booking
	PaymentID string // empty for free intro calls
}
