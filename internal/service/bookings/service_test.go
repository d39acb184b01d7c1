package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhq/booking-service/internal/domain"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
	transitionBooking "github.com/coachhq/booking-service/internal/usecase/transition_booking"
	"github.com/coachhq/booking-service/pkg/types"
)

type fakeRepo struct {
	bookings map[int64]*domain.Booking
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.StudentID != nil && b.StudentID != *filter.StudentID {
			continue
		}
		if filter.CoachID != nil && b.CoachID != *filter.CoachID {
			continue
		}
		if len(filter.StatusIn) > 0 {
			match := false
			for _, st := range filter.StatusIn {
				if b.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if filter.OnlyActive && !b.IsActive() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeTransitioner struct {
	err   error
	calls []*transitionBooking.Request
	repo  *fakeRepo
}

func (f *fakeTransitioner) Execute(_ context.Context, req *transitionBooking.Request) (*transitionBooking.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	b := f.repo.bookings[req.BookingID]
	b.Status = req.TargetStatus
	if req.TargetStatus == domain.BookingStatusCancelled {
		b.CancelledBy = &req.Actor
		b.CancellationReason = &req.Reason
	}
	return &transitionBooking.Response{Booking: b}, nil
}

type fakeNotify struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (f *fakeNotify) Notify(_ context.Context, kind, recipient string, _ map[string]string) error {
	f.mu.Lock()
	f.calls = append(f.calls, kind+":"+recipient)
	f.mu.Unlock()
	if f.done != nil {
		close(f.done)
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func fixture() (*fakeRepo, *fakeTransitioner, *fakeNotify, *Service) {
	repo := &fakeRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID: 1, CoachID: 10, StudentID: 42,
			BookingDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			StartTime:   types.TimeString("10:00"), DurationMinutes: 60,
			Status: domain.BookingStatusConfirmed, ServiceName: "Deep work session",
		},
		2: {
			ID: 2, CoachID: 10, StudentID: 43,
			BookingDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
			StartTime:   types.TimeString("09:00"), DurationMinutes: 30,
			Status: domain.BookingStatusCancelled, ServiceName: "Intro call",
		},
		3: {
			ID: 3, CoachID: 10, StudentID: 42,
			BookingDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			StartTime:   types.TimeString("11:00"), DurationMinutes: 60,
			Status: domain.BookingStatusPending, ServiceName: "Deep work session",
		},
	}}
	transitioner := &fakeTransitioner{repo: repo}
	notify := &fakeNotify{done: make(chan struct{})}
	return repo, transitioner, notify, NewService(repo, transitioner, notify, nopLogger{})
}

func TestGetByID_AccessControl(t *testing.T) {
	_, _, _, svc := fixture()

	// The student sees their booking.
	b, err := svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)

	// So does the coach.
	_, err = svc.GetByID(context.Background(), 1, 10)
	assert.NoError(t, err)

	// A stranger does not.
	_, err = svc.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	_, _, _, svc := fixture()

	_, err := svc.GetByID(context.Background(), 77, 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListForStudent_StatusFilter(t *testing.T) {
	_, _, _, svc := fixture()

	all, err := svc.ListForStudent(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending := "pending"
	filtered, err := svc.ListForStudent(context.Background(), 42, &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(3), filtered[0].ID)

	bad := "nonsense"
	_, err = svc.ListForStudent(context.Background(), 42, &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListForCoach_OnlySelf(t *testing.T) {
	_, _, _, svc := fixture()

	bookings, err := svc.ListForCoach(context.Background(), 10, 10, nil, true)
	require.NoError(t, err)
	assert.Len(t, bookings, 2) // cancelled booking filtered out

	_, err = svc.ListForCoach(context.Background(), 10, 42, nil, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetCalendar_MonthView(t *testing.T) {
	_, _, _, svc := fixture()

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	days, err := svc.GetCalendar(context.Background(), 10, march, true)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), days[1].Date)

	// April booking is out of the March view.
	for _, day := range days {
		for _, e := range day.Entries {
			assert.NotEqual(t, int64(3), e.BookingID)
		}
	}

	// Student view only carries the student's rows.
	days, err = svc.GetCalendar(context.Background(), 42, march, false)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, int64(1), days[0].Entries[0].BookingID)
}

func TestCancel_StudentActor(t *testing.T) {
	repo, transitioner, notify, svc := fixture()

	b, err := svc.Cancel(context.Background(), 1, 42, "cannot make it")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, b.Status)

	require.Len(t, transitioner.calls, 1)
	assert.Equal(t, domain.CancellationActorStudent, transitioner.calls[0].Actor)
	assert.Equal(t, "cannot make it", transitioner.calls[0].Reason)

	require.NotNil(t, repo.bookings[1].CancelledBy)
	assert.Equal(t, domain.CancellationActorStudent, *repo.bookings[1].CancelledBy)

	// The other side gets told.
	select {
	case <-notify.done:
	case <-time.After(time.Second):
		t.Fatal("cancellation notification never sent")
	}
	assert.Contains(t, notify.calls[0], "booking_cancelled:coach-10")
}

func TestCancel_CoachActor(t *testing.T) {
	_, transitioner, notify, svc := fixture()

	_, err := svc.Cancel(context.Background(), 1, 10, "emergency")
	require.NoError(t, err)

	require.Len(t, transitioner.calls, 1)
	assert.Equal(t, domain.CancellationActorCoach, transitioner.calls[0].Actor)

	select {
	case <-notify.done:
	case <-time.After(time.Second):
		t.Fatal("cancellation notification never sent")
	}
	assert.Contains(t, notify.calls[0], "booking_cancelled:student-42")
}

func TestCancel_StrangerDenied(t *testing.T) {
	_, transitioner, _, svc := fixture()

	_, err := svc.Cancel(context.Background(), 1, 99, "nope")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, transitioner.calls)
}

func TestCancel_InvalidTransitionSurfaces(t *testing.T) {
	_, transitioner, _, svc := fixture()
	transitioner.err = transitionBooking.ErrInvalidTransition

	_, err := svc.Cancel(context.Background(), 1, 42, "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
