package create_booking

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	createBooking "github.com/coachhq/booking-service/internal/usecase/create_booking"
	"github.com/coachhq/booking-service/pkg/types"
)

// CreateBookingRequest is the HTTP request model. ServiceID is omitted
// for intro calls.
type CreateBookingRequest struct {
	CoachID     int64   `json:"coachId"`
	ServiceID   *int64  `json:"serviceId,omitempty"`
	BookingDate string  `json:"bookingDate"` // "2026-03-02"
	StartTime   string  `json:"startTime"`   // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// ToUseCaseRequest parses the date and time into the usecase model.
func (r *CreateBookingRequest) ToUseCaseRequest(studentID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		StudentID: studentID,
		CoachID:   r.CoachID,
		ServiceID: r.ServiceID,
		Date:      bookingDate,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}
