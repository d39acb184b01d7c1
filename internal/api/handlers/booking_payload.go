package handlers

import (
	"time"

	"github.com/coachhq/booking-service/internal/domain"
)

// BookingPayload is the wire shape of a booking, shared by every route
// that returns one.
type BookingPayload struct {
	ID              int64   `json:"id"`
	CoachID         int64   `json:"coachId"`
	StudentID       int64   `json:"studentId"`
	ServiceID       *int64  `json:"serviceId,omitempty"`
	Kind            string  `json:"kind"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	Notes           *string `json:"notes,omitempty"`
	CancelledBy     *string `json:"cancelledBy,omitempty"`
	CancelReason    *string `json:"cancellationReason,omitempty"`
	CancelledAt     *string `json:"cancelledAt,omitempty"`
	CompletedAt     *string `json:"completedAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// FromDomainBooking maps a ledger row onto the wire shape.
func FromDomainBooking(b *domain.Booking) *BookingPayload {
	payload := &BookingPayload{
		ID:              b.ID,
		CoachID:         b.CoachID,
		StudentID:       b.StudentID,
		ServiceID:       b.ServiceID,
		Kind:            string(b.Kind),
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		DurationMinutes: b.DurationMinutes,
		Price:           b.Price,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		Notes:           b.Notes,
		CancelReason:    b.CancellationReason,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		payload.CancelledBy = &actor
	}
	if b.CancelledAt != nil {
		ts := b.CancelledAt.Format(time.RFC3339)
		payload.CancelledAt = &ts
	}
	if b.CompletedAt != nil {
		ts := b.CompletedAt.Format(time.RFC3339)
		payload.CompletedAt = &ts
	}

	return payload
}

// FromDomainBookingList maps a slice of ledger rows.
func FromDomainBookingList(bookings []*domain.Booking) []*BookingPayload {
	out := make([]*BookingPayload, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromDomainBooking(b))
	}
	return out
}
