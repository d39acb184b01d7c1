package transition_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhq/booking-service/internal/domain"
	bookingRepo "github.com/coachhq/booking-service/internal/infra/storage/booking"
)

type memBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (m *memBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (m *memBookingRepo) Cancel(_ context.Context, id int64, actor domain.CancellationActor, reason string) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.BookingStatusCancelled
	b.CancelledBy = &actor
	b.CancellationReason = &reason
	b.CancelledAt = &now
	return nil
}

func (m *memBookingRepo) Complete(_ context.Context, id int64, completedAt time.Time) error {
	b, ok := m.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.BookingStatusCompleted
	b.CompletedAt = &completedAt
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func fixture(status domain.BookingStatus) (*memBookingRepo, *UseCase) {
	repo := &memBookingRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, CoachID: 1, StudentID: 42, Status: status},
	}}
	return repo, NewUseCase(repo, passthroughTxManager{}, nopLogger{})
}

func TestExecute_AllowedTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.BookingStatus
		to   domain.BookingStatus
	}{
		{name: "pending to confirmed", from: domain.BookingStatusPending, to: domain.BookingStatusConfirmed},
		{name: "confirmed to completed", from: domain.BookingStatusConfirmed, to: domain.BookingStatusCompleted},
		{name: "confirmed to no_show", from: domain.BookingStatusConfirmed, to: domain.BookingStatusNoShow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, uc := fixture(tt.from)

			resp, err := uc.Execute(context.Background(), &Request{BookingID: 1, TargetStatus: tt.to})
			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Booking.Status)
		})
	}
}

func TestExecute_ForbiddenTransitions(t *testing.T) {
	tests := []struct {
		name string
		from domain.BookingStatus
		to   domain.BookingStatus
	}{
		{name: "pending cannot complete", from: domain.BookingStatusPending, to: domain.BookingStatusCompleted},
		{name: "pending cannot no_show", from: domain.BookingStatusPending, to: domain.BookingStatusNoShow},
		{name: "completed is terminal", from: domain.BookingStatusCompleted, to: domain.BookingStatusConfirmed},
		{name: "cancelled is terminal", from: domain.BookingStatusCancelled, to: domain.BookingStatusPending},
		{name: "no self loop", from: domain.BookingStatusConfirmed, to: domain.BookingStatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, uc := fixture(tt.from)

			_, err := uc.Execute(context.Background(), &Request{BookingID: 1, TargetStatus: tt.to})
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, repo.bookings[1].Status)
		})
	}
}

func TestExecute_InvalidTransitionNamesStates(t *testing.T) {
	_, uc := fixture(domain.BookingStatusCompleted)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, TargetStatus: domain.BookingStatusConfirmed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "confirmed")
}

func TestExecute_CancelRecordsActorAndReason(t *testing.T) {
	repo, uc := fixture(domain.BookingStatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		TargetStatus: domain.BookingStatusCancelled,
		Actor:        domain.CancellationActorStudent,
		Reason:       "cannot make it",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusCancelled, resp.Booking.Status)
	b := repo.bookings[1]
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, domain.CancellationActorStudent, *b.CancelledBy)
	require.NotNil(t, b.CancellationReason)
	assert.Equal(t, "cannot make it", *b.CancellationReason)
	assert.NotNil(t, b.CancelledAt)
}

func TestExecute_CancelRequiresActorAndReason(t *testing.T) {
	_, uc := fixture(domain.BookingStatusConfirmed)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		TargetStatus: domain.BookingStatusCancelled,
		Actor:        domain.CancellationActorStudent,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID:    1,
		TargetStatus: domain.BookingStatusCancelled,
		Reason:       "cannot make it",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CompleteStampsTime(t *testing.T) {
	repo, uc := fixture(domain.BookingStatusConfirmed)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 1, TargetStatus: domain.BookingStatusCompleted})
	require.NoError(t, err)
	assert.NotNil(t, repo.bookings[1].CompletedAt)
}

func TestExecute_UnknownBooking(t *testing.T) {
	_, uc := fixture(domain.BookingStatusPending)

	_, err := uc.Execute(context.Background(), &Request{BookingID: 99, TargetStatus: domain.BookingStatusConfirmed})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
