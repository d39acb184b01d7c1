package get_available_slots

import (
	"github.com/coachhq/booking-service/internal/domain"
	getAvailableSlots "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
)

// SlotsResponse is the slot grid of one coach and date.
type SlotsResponse struct {
	Date    string         `json:"date"`
	CoachID int64          `json:"coachId"`
	Slots   []SlotResponse `json:"slots"`
}

// SlotResponse is one offered start time.
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// FromUseCaseResponse maps the usecase result onto the wire shape.
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			DurationMinutes: s.DurationMinutes,
			Available:       s.Available,
		})
	}

	return &SlotsResponse{
		Date:    resp.Date.Format(domain.DateFormat),
		CoachID: resp.CoachID,
		Slots:   slots,
	}
}
