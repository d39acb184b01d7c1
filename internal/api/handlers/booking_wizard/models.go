package booking_wizard

import (
	"time"

	"github.com/coachhq/booking-service/internal/api/handlers"
	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/wizard"
)

type StartRequest struct {
	CoachID   int64   `json:"coachId"`
	Flow      string  `json:"flow"`
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
}

type AdvanceRequest struct {
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	Name      string  `json:"name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type SelectionResponse struct {
	ServiceID *int64  `json:"serviceId,omitempty"`
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
}

type SessionResponse struct {
	SessionID string                   `json:"sessionId"`
	CoachID   int64                    `json:"coachId"`
	Flow      string                   `json:"flow"`
	Step      string                   `json:"step"`
	Selection SelectionResponse        `json:"selection"`
	Booking   *handlers.BookingPayload `json:"booking,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func FromSession(s *wizard.Session) *SessionResponse {
	resp := &SessionResponse{
		SessionID: s.ID,
		CoachID:   s.CoachID,
		Flow:      string(s.Flow),
		Step:      string(s.Step),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	resp.Selection.ServiceID = s.Selection.ServiceID
	if s.Selection.Date != nil {
		date := s.Selection.Date.Format(domain.DateFormat)
		resp.Selection.Date = &date
	}
	if s.Selection.StartTime != nil {
		start := string(*s.Selection.StartTime)
		resp.Selection.StartTime = &start
	}
	if s.Booking != nil {
		resp.Booking = handlers.FromDomainBooking(s.Booking)
	}
	return resp
}
