package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/integrations/coachservice"
	"github.com/coachhq/booking-service/pkg/ptr"
	"github.com/coachhq/booking-service/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, _ domain.BookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeAvailabilityRepo struct {
	rules     []*domain.AvailabilityRule
	blackouts []*domain.Blackout
}

func (f *fakeAvailabilityRepo) ListActiveRules(_ context.Context, _ int64, _ time.Weekday) ([]*domain.AvailabilityRule, error) {
	return f.rules, nil
}

func (f *fakeAvailabilityRepo) ListBlackouts(_ context.Context, _ int64, _ time.Time) ([]*domain.Blackout, error) {
	return f.blackouts, nil
}

type fakeCoachClient struct {
	coach    *coachservice.Coach
	services map[int64]*coachservice.Service
}

func (f *fakeCoachClient) GetCoach(_ context.Context, _ int64) (*coachservice.Coach, error) {
	if f.coach == nil {
		return nil, coachservice.ErrCoachNotFound
	}
	return f.coach, nil
}

func (f *fakeCoachClient) GetService(_ context.Context, _ int64, serviceID int64) (*coachservice.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, coachservice.ErrServiceNotFound
	}
	return svc, nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func rule(start, end string) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		CoachID:   1,
		Weekday:   time.Monday,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
		Active:    true,
	}
}

func newUseCase(bookings *fakeBookingRepo, availability *fakeAvailabilityRepo, coaches *fakeCoachClient, now time.Time) *UseCase {
	uc := NewUseCase(bookings, availability, coaches, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func utcCoach() *coachservice.Coach {
	return &coachservice.Coach{ID: 1, DisplayName: "Alex", Timezone: "UTC", Active: true}
}

func TestExecute_TilesRulesWithServiceDuration(t *testing.T) {
	// Monday 2026-03-02, rule 09:00-12:00, 60 minute sessions.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, CoachID: 1, Name: "Deep work session", Kind: "session", Price: 50, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.True(t, s.Available)
	}
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "11:00"}, starts)
}

func TestExecute_PartialTrailingSlotDropped(t *testing.T) {
	// 09:00-10:30 window with 60 minute slots fits only one slot.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "10:30")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, CoachID: 1, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
}

func TestExecute_IntroUsesDefaultDuration(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "10:00")}},
		&fakeCoachClient{coach: utcCoach()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, domain.DefaultIntroDurationMinutes, resp.Slots[0].DurationMinutes)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[1].StartTime)
}

func TestExecute_ActiveBookingMarksSlotUnavailable(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			CoachID:         1,
			StartTime:       types.TimeString("10:00"),
			DurationMinutes: 60,
			Status:          domain.BookingStatusConfirmed,
		},
		{
			// Cancelled bookings release their slot.
			CoachID:         1,
			StartTime:       types.TimeString("11:00"),
			DurationMinutes: 60,
			Status:          domain.BookingStatusCancelled,
		},
	}}

	uc := newUseCase(
		bookings,
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.True(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[2].Available)
}

func TestExecute_PartialOverlapBlocksSlot(t *testing.T) {
	// Booking 09:30-10:30 straddles two 60 minute slots.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{
			CoachID:         1,
			StartTime:       types.TimeString("09:30"),
			DurationMinutes: 60,
			Status:          domain.BookingStatusPending,
		},
	}}

	uc := newUseCase(
		bookings,
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "12:00")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.False(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[2].Available)
}

func TestExecute_BlackoutRemovesSlots(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{
			rules: []*domain.AvailabilityRule{rule("09:00", "12:00")},
			blackouts: []*domain.Blackout{
				{CoachID: 1, Date: date, StartTime: "10:00", EndTime: "11:00"},
			},
		},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[1].StartTime)
}

func TestExecute_BlackoutAtWindowStartShiftsGrid(t *testing.T) {
	// A blackout at the head of the window moves the tiling origin: the
	// grid restarts where the blackout ends instead of losing the slot.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{
			rules: []*domain.AvailabilityRule{rule("09:00", "12:00")},
			blackouts: []*domain.Blackout{
				{CoachID: 1, Date: date, StartTime: "09:00", EndTime: "09:30"},
			},
		},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"09:30", "10:30", "11:30"}, starts)
}

func TestExecute_OverlappingRulesTiledAsUnion(t *testing.T) {
	// 09:00-09:45 and 09:30-11:00 merge into 09:00-11:00; a 60 minute
	// session fits twice even though neither window alone holds one.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{
			rule("09:00", "09:45"),
			rule("09:30", "11:00"),
		}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, starts)
}

func TestExecute_TodayElapsedSlotsUnavailable(t *testing.T) {
	// It is already 10:30 on the requested day.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "13:00")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	assert.False(t, resp.Slots[0].Available) // 09:00
	assert.False(t, resp.Slots[1].Available) // 10:00
	assert.True(t, resp.Slots[2].Available)  // 11:00
	assert.True(t, resp.Slots[3].Available)  // 12:00
}

func TestExecute_PastDateKeepsGridAllUnavailable(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{rule("09:00", "11:00")}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}
}

func TestExecute_NoRulesReturnsEmpty(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{},
		&fakeCoachClient{coach: utcCoach()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MultipleRulesTiledIndependently(t *testing.T) {
	// Morning and afternoon windows each anchor their own grid.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	uc := newUseCase(
		&fakeBookingRepo{},
		&fakeAvailabilityRepo{rules: []*domain.AvailabilityRule{
			rule("09:00", "11:00"),
			rule("14:30", "16:30"),
		}},
		&fakeCoachClient{
			coach: utcCoach(),
			services: map[int64]*coachservice.Service{
				7: {ID: 7, DurationMinutes: 60, Active: true},
			},
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(7)), Date: date})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "14:30", "15:30"}, starts)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeAvailabilityRepo{}, &fakeCoachClient{coach: utcCoach()}, time.Now())

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero coach", req: &Request{Date: time.Now()}},
		{name: "negative service", req: &Request{CoachID: 1, ServiceID: ptr.Ptr(int64(-1)), Date: time.Now()}},
		{name: "zero date", req: &Request{CoachID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_UnknownCoach(t *testing.T) {
	uc := newUseCase(&fakeBookingRepo{}, &fakeAvailabilityRepo{}, &fakeCoachClient{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{CoachID: 99, Date: time.Now()})
	assert.ErrorIs(t, err, ErrCoachNotFound)
}
