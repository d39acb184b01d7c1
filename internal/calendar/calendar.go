// Package calendar builds day-indexed views over heterogeneous date
// labels. Sources disagree on formats, so parsing is tolerant and
// unparseable entries are dropped rather than failing the whole view.
package calendar

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

// ErrUnparseableDate is returned when no known format matches.
var ErrUnparseableDate = errors.New("unparseable date label")

// Entry is one calendar item.
type Entry struct {
	Title     string
	StartTime types.TimeString
	Duration  int
	BookingID int64
}

// Day groups the entries of one date, ordered by start time.
type Day struct {
	Date    time.Time
	Entries []Entry
}

// RawEntry is an entry whose date is still a free-form label.
type RawEntry struct {
	DateLabel string
	Entry     Entry
}

// absolute layouts tried in order.
var layouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// yearlessLayouts resolve the year from the reference time.
var yearlessLayouts = []string{
	"Mon, Jan 2",
	"Jan 2",
}

// ParseDateKey resolves a free-form date label to a calendar date.
// Relative labels ("Today", "Tomorrow") and yearless ones ("Sun, Feb 8")
// are resolved against now. Only the relative labels match
// case-insensitively; the layout forms take canonical casing.
func ParseDateKey(raw string, now time.Time) (time.Time, error) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return time.Time{}, ErrUnparseableDate
	}

	switch strings.ToLower(label) {
	case "today":
		return truncate(now), nil
	case "tomorrow":
		return truncate(now).AddDate(0, 0, 1), nil
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, label); err == nil {
			return truncate(t), nil
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.Parse(layout, label)
		if err != nil {
			continue
		}
		resolved := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return resolved, nil
	}

	return time.Time{}, ErrUnparseableDate
}

// IndexByDay groups raw entries under their resolved dates. Entries
// whose labels cannot be parsed are dropped. Days and the entries
// within them come back sorted.
func IndexByDay(raw []RawEntry, now time.Time) []Day {
	byDate := make(map[time.Time][]Entry)

	for _, r := range raw {
		date, err := ParseDateKey(r.DateLabel, now)
		if err != nil {
			continue
		}
		byDate[date] = append(byDate[date], r.Entry)
	}

	return sortDays(byDate)
}

// FromBookings builds the day view straight from ledger rows.
func FromBookings(bookings []*domain.Booking) []Day {
	byDate := make(map[time.Time][]Entry)

	for _, b := range bookings {
		date := truncate(b.BookingDate)
		byDate[date] = append(byDate[date], Entry{
			Title:     b.ServiceName,
			StartTime: b.StartTime,
			Duration:  b.DurationMinutes,
			BookingID: b.ID,
		})
	}

	return sortDays(byDate)
}

func sortDays(byDate map[time.Time][]Entry) []Day {
	days := make([]Day, 0, len(byDate))
	for date, entries := range byDate {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StartTime.IsBefore(entries[j].StartTime)
		})
		days = append(days, Day{Date: date, Entries: entries})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	return days
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
