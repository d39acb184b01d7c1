package domain

import (
	"time"

	"github.com/coachhq/booking-service/pkg/types"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// BookingKind distinguishes free intro calls from paid sessions
type BookingKind string

const (
	BookingKindIntro          BookingKind = "intro"
	BookingKindSession        BookingKind = "session"
	BookingKindPackageSession BookingKind = "package_session"
)

// CancellationActor identifies who cancelled a booking
type CancellationActor string

const (
	CancellationActorStudent CancellationActor = "student"
	CancellationActorCoach   CancellationActor = "coach"
	CancellationActorSystem  CancellationActor = "system"
)

// statusTransitions is the full set of legal lifecycle moves.
// cancelled, completed and no_show are terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking represents a committed (or once-committed) coach session.
// Price, duration and service name are frozen at creation time and do not
// follow later changes to the coach's service catalogue.
type Booking struct {
	ID              int64
	CoachID         int64
	StudentID       int64
	ServiceID       *int64 // nil for intro calls
	Kind            BookingKind
	BookingDate     time.Time // date component only, coach's timezone
	StartTime       types.TimeString
	DurationMinutes int
	Price           float64 // GBP, frozen at creation
	Status          BookingStatus

	// Denormalized for history; survives catalogue edits
	ServiceName string
	Notes       *string

	CancelledBy        *CancellationActor
	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the booking counts against the coach's
// availability: pending and confirmed bookings block their slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether no further transitions are possible.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted || b.Status == BookingStatusNoShow
}

// CanBeCancelled reports whether the booking may still be cancelled.
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, BookingStatusCancelled)
}

// EndTime returns the exclusive end of the booked interval.
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// BookingsFilter narrows ledger reads. Date restricts to a single day;
// StatusIn restricts to the given statuses. With OnlyActive set, only
// pending and confirmed bookings are returned.
type BookingsFilter struct {
	CoachID    *int64
	StudentID  *int64
	Date       *time.Time
	StatusIn   []BookingStatus
	OnlyActive bool
}
