package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/internal/integrations/coachservice"
	commitBooking "github.com/coachhq/booking-service/internal/usecase/commit_booking"
	getAvailableSlots "github.com/coachhq/booking-service/internal/usecase/get_available_slots"
	"github.com/coachhq/booking-service/pkg/ptr"
	"github.com/coachhq/booking-service/pkg/types"
)

type fakeSlots struct {
	available map[types.TimeString]bool
}

func (f *fakeSlots) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	slots := make([]getAvailableSlots.Slot, 0, len(f.available))
	for start, avail := range f.available {
		slots = append(slots, getAvailableSlots.Slot{StartTime: start, DurationMinutes: 60, Available: avail})
	}
	return &getAvailableSlots.Response{Date: req.Date, CoachID: req.CoachID, Slots: slots}, nil
}

type fakeCommitter struct {
	err    error
	nextID int64
	calls  []*commitBooking.Request
}

func (f *fakeCommitter) Execute(_ context.Context, req *commitBooking.Request) (*commitBooking.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	return &commitBooking.Response{
		Booking: &domain.Booking{
			ID:        f.nextID,
			CoachID:   req.CoachID,
			StudentID: req.StudentID,
			Status:    domain.BookingStatusConfirmed,
			StartTime: req.StartTime,
		},
	}, nil
}

type fakeCatalogue struct {
	services map[int64]*coachservice.Service
	err      error
}

func (f *fakeCatalogue) GetService(_ context.Context, _ int64, serviceID int64) (*coachservice.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, coachservice.ErrServiceNotFound
	}
	return svc, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture(committer *fakeCommitter) (*Service, *fakeSlots) {
	slots := &fakeSlots{available: map[types.TimeString]bool{
		"10:00": true,
		"11:00": false,
	}}
	svc := NewService(
		NewStore(time.Minute),
		slots,
		committer,
		&fakeCatalogue{services: map[int64]*coachservice.Service{
			7: {ID: 7, CoachID: 1, Name: "Deep work session", Kind: "session", Price: 50, DurationMinutes: 60, Active: true},
		}},
		nopLogger{},
	)
	return svc, slots
}

func monday() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestWizard_PaidFlowEndToEnd(t *testing.T) {
	committer := &fakeCommitter{}
	svc, _ := newFixture(committer)

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowPaid})
	require.NoError(t, err)
	assert.Equal(t, StepSelectService, session.Step)

	session, err = svc.Advance(context.Background(), session.ID, Input{ServiceID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.Equal(t, StepSelectDateTime, session.Step)

	session, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)
	assert.Equal(t, StepEnterDetails, session.Step)

	session, err = svc.Advance(context.Background(), session.ID, Input{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	assert.Equal(t, StepDone, session.Step)
	require.NotNil(t, session.Booking)
	assert.Equal(t, domain.BookingStatusConfirmed, session.Booking.Status)

	require.Len(t, committer.calls, 1)
	assert.Equal(t, "Sam", committer.calls[0].StudentName)
	assert.Equal(t, int64(7), *committer.calls[0].ServiceID)
}

func TestWizard_IntroFlowSkipsServiceStep(t *testing.T) {
	committer := &fakeCommitter{}
	svc, _ := newFixture(committer)

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)
	assert.Equal(t, StepSelectDateTime, session.Step)

	session, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)

	session, err = svc.Advance(context.Background(), session.ID, Input{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)
	assert.Equal(t, StepDone, session.Step)

	require.Len(t, committer.calls, 1)
	assert.Nil(t, committer.calls[0].ServiceID)
}

func TestWizard_BackKeepsSelections(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowPaid})
	require.NoError(t, err)

	session, err = svc.Advance(context.Background(), session.ID, Input{ServiceID: ptr.Ptr(int64(7))})
	require.NoError(t, err)

	session, err = svc.Back(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectService, session.Step)

	// The earlier pick survives backward navigation.
	require.NotNil(t, session.Selection.ServiceID)
	assert.Equal(t, int64(7), *session.Selection.ServiceID)
}

func TestWizard_BackAtFirstStepRejected(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	_, err = svc.Back(session.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestWizard_UnavailableSlotRejected(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("11:00")),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Session stays put.
	session, err = svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectDateTime, session.Step)
}

func TestWizard_CatalogueOutageIsNotServiceNotFound(t *testing.T) {
	svc := NewService(
		NewStore(time.Minute),
		&fakeSlots{available: map[types.TimeString]bool{"10:00": true}},
		&fakeCommitter{},
		&fakeCatalogue{err: coachservice.ErrInternal},
		nopLogger{},
	)

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowPaid})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{ServiceID: ptr.Ptr(int64(7))})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrServiceNotFound)
	assert.ErrorIs(t, err, coachservice.ErrInternal)

	// The session still waits at service selection.
	session, err = svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectService, session.Step)
}

func TestWizard_CommitConflictReturnsToSlotStep(t *testing.T) {
	committer := &fakeCommitter{err: commitBooking.ErrSlotUnavailable}
	svc, _ := newFixture(committer)

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{Name: "Sam", Email: "sam@example.com"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// The session is back at slot selection with details preserved.
	session, err = svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelectDateTime, session.Step)
	assert.Nil(t, session.Selection.StartTime)
	assert.Equal(t, "Sam", session.Details.Name)
	assert.Equal(t, "sam@example.com", session.Details.Email)
}

func TestWizard_DeepLinkPrefillSkipsSteps(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{
		StudentID: 42,
		CoachID:   1,
		Flow:      FlowPaid,
		ServiceID: ptr.Ptr(int64(7)),
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)
	assert.Equal(t, StepEnterDetails, session.Step)
}

func TestWizard_InvalidPrefillDropped(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{
		StudentID: 42,
		CoachID:   1,
		Flow:      FlowPaid,
		ServiceID: ptr.Ptr(int64(999)),
	})
	require.NoError(t, err)

	// Unknown service prefill leaves the session at service selection.
	assert.Equal(t, StepSelectService, session.Step)
	assert.Nil(t, session.Selection.ServiceID)
}

func TestWizard_DetailsValidation(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input Input
	}{
		{name: "missing name", input: Input{Email: "sam@example.com"}},
		{name: "missing email", input: Input{Name: "Sam"}},
		{name: "malformed email", input: Input{Name: "Sam", Email: "not-an-email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Advance(context.Background(), session.ID, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestWizard_UnknownSession(t *testing.T) {
	svc, _ := newFixture(&fakeCommitter{})

	_, err := svc.Advance(context.Background(), "nope", Input{})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWizard_ExpiredSessionGone(t *testing.T) {
	store := NewStore(time.Minute)
	svc := NewService(store, &fakeSlots{}, &fakeCommitter{}, &fakeCatalogue{}, nopLogger{})

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	session.UpdatedAt = time.Now().Add(-2 * time.Minute)
	store.Put(session)

	_, err = svc.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 0, store.Len())
}

func TestWizard_DoneSessionRejectsMoves(t *testing.T) {
	committer := &fakeCommitter{}
	svc, _ := newFixture(committer)

	session, err := svc.Start(context.Background(), StartParams{StudentID: 42, CoachID: 1, Flow: FlowIntro})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{
		Date:      ptr.Ptr(monday()),
		StartTime: ptr.Ptr(types.TimeString("10:00")),
	})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)

	_, err = svc.Advance(context.Background(), session.ID, Input{})
	assert.ErrorIs(t, err, ErrSessionFinished)

	_, err = svc.Back(session.ID)
	assert.ErrorIs(t, err, ErrSessionFinished)
}
