package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coachhq/booking-service/internal/domain"
	"github.com/coachhq/booking-service/pkg/types"
)

// Selection is what the student has picked so far. Fields fill in as
// the wizard advances and survive backward navigation.
type Selection struct {
	ServiceID *int64
	Date      *time.Time
	StartTime *types.TimeString
}

// ContactDetails are collected at the enter_details step.
type ContactDetails struct {
	Name  string
	Email string
	Notes *string
}

// Session is one in-flight wizard dialog.
type Session struct {
	ID        string
	StudentID int64
	CoachID   int64
	Flow      Flow
	Step      Step
	Selection Selection
	Details   ContactDetails

	// Booking is set once the session reaches StepDone.
	Booking *domain.Booking

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session at the flow's first step.
func NewSession(studentID, coachID int64, flow Flow, initial Step) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		StudentID: studentID,
		CoachID:   coachID,
		Flow:      flow,
		Step:      initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired checks if the session idled past the TTL.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return time.Since(s.UpdatedAt) > ttl
}

// Store keeps active sessions in memory. Sessions are small and tied
// to one process, losing them on restart just restarts the dialog.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a session store.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns a live session, or false if unknown or expired.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	if !ok || session.IsExpired(st.ttl) {
		return nil, false
	}
	return session, true
}

// Put stores a session.
func (st *Store) Put(session *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.ID] = session
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of stored sessions, expired ones included.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Cleanup removes expired sessions and reports how many were dropped.
func (st *Store) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, session := range st.sessions {
		if session.IsExpired(st.ttl) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor purges expired sessions until stopCh closes.
func (st *Store) StartJanitor(interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				st.Cleanup()
			case <-stopCh:
				return
			}
		}
	}()
}
