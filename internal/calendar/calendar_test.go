package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateKey(t *testing.T) {
	now := time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "iso", raw: "2026-02-08", want: date(2026, 2, 8)},
		{name: "today", raw: "Today", want: date(2026, 2, 10)},
		{name: "today lowercase", raw: "today", want: date(2026, 2, 10)},
		{name: "tomorrow", raw: "Tomorrow", want: date(2026, 2, 11)},
		{name: "tomorrow uppercase", raw: "TOMORROW", want: date(2026, 2, 11)},
		{name: "weekday with month", raw: "Sun, Feb 8", want: date(2026, 2, 8)},
		{name: "month day year", raw: "Feb 8, 2026", want: date(2026, 2, 8)},
		{name: "long month", raw: "February 8, 2026", want: date(2026, 2, 8)},
		{name: "yearless month day", raw: "Feb 8", want: date(2026, 2, 8)},
		{name: "surrounding spaces", raw: "  2026-02-08  ", want: date(2026, 2, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateKey(tt.raw, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateKey_Unparseable(t *testing.T) {
	now := time.Date(2026, 2, 10, 15, 30, 0, 0, time.UTC)

	// Layout forms take canonical casing, only the relative labels fold.
	for _, raw := range []string{"", "garbage", "32 Undecimber", "2026/02/08", "feb 8, 2026"} {
		_, err := ParseDateKey(raw, now)
		assert.ErrorIs(t, err, ErrUnparseableDate, raw)
	}
}

func TestIndexByDay_GroupsAndSorts(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	raw := []RawEntry{
		{DateLabel: "Tomorrow", Entry: Entry{Title: "Review", StartTime: "14:00"}},
		{DateLabel: "2026-02-11", Entry: Entry{Title: "Standup", StartTime: "09:30"}},
		{DateLabel: "Sun, Feb 8", Entry: Entry{Title: "Planning", StartTime: "10:00"}},
		{DateLabel: "not a date", Entry: Entry{Title: "Lost", StartTime: "12:00"}},
	}

	days := IndexByDay(raw, now)
	require.Len(t, days, 2)

	// Feb 8 before Feb 11.
	assert.Equal(t, date(2026, 2, 8), days[0].Date)
	require.Len(t, days[0].Entries, 1)
	assert.Equal(t, "Planning", days[0].Entries[0].Title)

	// "Tomorrow" and the ISO label land on the same day, time-ordered.
	assert.Equal(t, date(2026, 2, 11), days[1].Date)
	require.Len(t, days[1].Entries, 2)
	assert.Equal(t, "Standup", days[1].Entries[0].Title)
	assert.Equal(t, "Review", days[1].Entries[1].Title)
}

func TestFromBookings(t *testing.T) {
	bookings := []*domain.Booking{
		{ID: 2, BookingDate: date(2026, 3, 3), StartTime: types.TimeString("09:00"), DurationMinutes: 60, ServiceName: "Deep work session"},
		{ID: 1, BookingDate: date(2026, 3, 2), StartTime: types.TimeString("11:00"), DurationMinutes: 30, ServiceName: "Intro call"},
		{ID: 3, BookingDate: date(2026, 3, 2), StartTime: types.TimeString("09:00"), DurationMinutes: 60, ServiceName: "Deep work session"},
	}

	days := FromBookings(bookings)
	require.Len(t, days, 2)

	assert.Equal(t, date(2026, 3, 2), days[0].Date)
	require.Len(t, days[0].Entries, 2)
	assert.Equal(t, int64(3), days[0].Entries[0].BookingID)
	assert.Equal(t, int64(1), days[0].Entries[1].BookingID)

	assert.Equal(t, date(2026, 3, 3), days[1].Date)
	assert.Equal(t, int64(2), days[1].Entries[0].BookingID)
}
