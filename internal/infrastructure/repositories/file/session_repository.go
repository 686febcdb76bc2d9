package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"

	"go.uber.org/zap"
)

const sessionsFilename = "sessions.json"

// FileSessionRepository persists the session map as one JSON object keyed by
// session id, rewritten in full on every write.
type FileSessionRepository struct {
	path   string
	ttl    time.Duration
	logger *zap.SugaredLogger
	mu     sync.Mutex
	now    func() time.Time
}

func NewFileSessionRepository(dataDir string, ttl time.Duration, logger *zap.SugaredLogger) (ports.SessionRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSessionRepository{
		path:   filepath.Join(dataDir, sessionsFilename),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (r *FileSessionRepository) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.load()
	session, exists := sessions[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *FileSessionRepository) Write(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.load()
	now := r.now().Unix()

	session, exists := sessions[id]
	if !exists {
		session = &domain.Session{
			ID:        id,
			CreatedAt: now,
			Viewers:   []domain.PeerID{},
		}
		sessions[id] = session
	}

	if update.Sharer != nil {
		session.Sharer = *update.Sharer
	}
	session.AddViewer(update.AddViewer)
	session.UpdatedAt = now

	for sid, s := range sessions {
		if s.Expired(now, r.ttl) {
			delete(sessions, sid)
		}
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write sessions: %w", err)
	}

	copied := *session
	return &copied, nil
}

func (r *FileSessionRepository) load() map[domain.SessionID]*domain.Session {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) && r.logger != nil {
			r.logger.Warnw("session store unreadable, serving empty view",
				"path", r.path,
				"error", err,
			)
		}
		return make(map[domain.SessionID]*domain.Session)
	}

	var sessions map[domain.SessionID]*domain.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		if r.logger != nil {
			r.logger.Warnw("session store corrupt, serving empty view",
				"path", r.path,
				"error", err,
			)
		}
		return make(map[domain.SessionID]*domain.Session)
	}
	if sessions == nil {
		sessions = make(map[domain.SessionID]*domain.Session)
	}
	for sid, s := range sessions {
		if s == nil {
			delete(sessions, sid)
			continue
		}
		s.ID = sid
	}
	return sessions
}
