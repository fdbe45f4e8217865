package dialog

import (
	"context"
	"sync"
	"time"

	"orders-bot/internal/xpkg/logger"
	"orders-bot/pkg/models"
)

// DraftOrder accumulates the order under construction.
type DraftOrder struct {
	CustomerName  string
	CustomerPhone string
	Items         []models.OrderItem
}

// Total sums the line-item subtotals.
func (d *DraftOrder) Total() float64 {
	total := 0.0
	for _, it := range d.Items {
		total += it.Subtotal()
	}
	return total
}

// Session is one user's conversation state. At most one PendingItem exists
// at a time, only during the quantity-collection step.
type Session struct {
	UserID       string
	Step         Step
	Draft        DraftOrder
	PendingItem  *models.CatalogItem
	LastActivity time.Time

	mu sync.Mutex
}

// Reset returns the session to idle and discards the draft.
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Draft = DraftOrder{}
	s.PendingItem = nil
}

// Manager owns the session map. Acquire locks the per-user entry, so two
// messages from the same user are handled one after another while
// different users proceed in parallel.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	mylog    logger.Logger
}

func NewManager(ttl time.Duration, mylog logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		mylog:    mylog,
	}
}

// Acquire returns the user's session, creating it idle on first contact,
// with its lock held. The caller must Release it. The returned session is
// guaranteed to still be in the map: if the janitor evicts the entry
// between the map read and the lock, Acquire starts over with a fresh one.
func (m *Manager) Acquire(userID string) *Session {
	for {
		m.mu.Lock()
		s, ok := m.sessions[userID]
		if !ok {
			s = &Session{UserID: userID, Step: StepIdle, LastActivity: time.Now()}
			m.sessions[userID] = s
		}
		m.mu.Unlock()

		s.mu.Lock()

		m.mu.Lock()
		current := m.sessions[userID]
		m.mu.Unlock()
		if current == s {
			return s
		}
		s.mu.Unlock()
	}
}

// Release stamps activity time and unlocks the session.
func (m *Manager) Release(s *Session) {
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// Len reports the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunJanitor evicts sessions idle longer than the TTL until ctx is done.
// Sessions whose lock is held are skipped and retried next sweep.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.evictExpired()
		}
	}
}

func (m *Manager) evictExpired() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		expired := now.Sub(s.LastActivity) > m.ttl
		s.mu.Unlock()

		if expired {
			delete(m.sessions, userID)
			evicted++
		}
	}

	if evicted > 0 {
		m.mylog.Action("sessions_evicted").Info("Evicted idle sessions",
			"count", evicted, "remaining", len(m.sessions))
	}
}
