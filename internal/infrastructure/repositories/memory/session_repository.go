package memory

import (
	"context"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
)

type MemorySessionRepository struct {
	sessions map[domain.SessionID]*domain.Session
	ttl      time.Duration
	mu       sync.RWMutex
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) ports.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[domain.SessionID]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetNow overrides the clock source.
func (r *MemorySessionRepository) SetNow(now func() time.Time) {
	r.now = now
}

func (r *MemorySessionRepository) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

func (r *MemorySessionRepository) Write(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().Unix()

	session, exists := r.sessions[id]
	if !exists {
		session = &domain.Session{
			ID:        id,
			CreatedAt: now,
			Viewers:   []domain.PeerID{},
		}
		r.sessions[id] = session
	}

	if update.Sharer != nil {
		session.Sharer = *update.Sharer
	}
	session.AddViewer(update.AddViewer)
	session.UpdatedAt = now

	// eviction is a side effect of every write and sweeps all sessions,
	// not just the one written
	for sid, s := range r.sessions {
		if s.Expired(now, r.ttl) {
			delete(r.sessions, sid)
		}
	}

	copied := *session
	return &copied, nil
}
