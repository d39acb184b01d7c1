package domain

// Default durations (minutes)
const (
	DefaultIntroDurationMinutes   = 30
	DefaultSessionDurationMinutes = 60
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxContactNameLength        = 200
	MaxContactEmailLength       = 254
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// ActiveStatuses are the statuses that block a coach's time slot.
var ActiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
}

// AllStatuses lists every legal booking status, for input validation.
var AllStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusNoShow,
}

// ParseBookingStatus validates a raw status string.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	s := BookingStatus(raw)
	for _, valid := range AllStatuses {
		if s == valid {
			return s, true
		}
	}
	return "", false
}

// ParseBookingKind validates a raw booking kind string.
func ParseBookingKind(raw string) (BookingKind, bool) {
	k := BookingKind(raw)
	switch k {
	case BookingKindIntro, BookingKindSession, BookingKindPackageSession:
		return k, true
	}
	return "", false
}

// ParseCancellationActor validates a raw actor string.
func ParseCancellationActor(raw string) (CancellationActor, bool) {
	a := CancellationActor(raw)
	switch a {
	case CancellationActorStudent, CancellationActorCoach, CancellationActorSystem:
		return a, true
	}
	return "", false
}
