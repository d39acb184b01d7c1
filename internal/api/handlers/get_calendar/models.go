package get_calendar

import (
	"github.com/coachhq/booking-service/internal/calendar"
	"github.com/coachhq/booking-service/internal/domain"
)

type CalendarResponse struct {
	Month string        `json:"month"`
	Days  []DayResponse `json:"days"`
}

type DayResponse struct {
	Date    string          `json:"date"`
	Entries []EntryResponse `json:"entries"`
}

type EntryResponse struct {
	Title           string `json:"title"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	BookingID       int64  `json:"bookingId"`
}

func FromCalendarDays(month string, days []calendar.Day) *CalendarResponse {
	resp := &CalendarResponse{
		Month: month,
		Days:  make([]DayResponse, 0, len(days)),
	}
	for _, day := range days {
		entries := make([]EntryResponse, 0, len(day.Entries))
		for _, e := range day.Entries {
			entries = append(entries, EntryResponse{
				Title:           e.Title,
				StartTime:       string(e.StartTime),
				DurationMinutes: e.Duration,
				BookingID:       e.BookingID,
			})
		}
		resp.Days = append(resp.Days, DayResponse{
			Date:    day.Date.Format(domain.DateFormat),
			Entries: entries,
		})
	}
	return resp
}
