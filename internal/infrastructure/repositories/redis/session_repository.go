package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSessionRepository keeps session records as JSON values in one Redis
// hash. The merge-and-evict sequence is serialized by a process-local mutex;
// cross-process writers still race at whole-record granularity, the same
// accepted last-writer-wins weakness the other backends have.
type RedisSessionRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.SugaredLogger

	mu  sync.Mutex
	now func() time.Time
}

func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) ports.SessionRepository {
	return &RedisSessionRepository{
		client: client,
		key:    "peerlink:signaling:sessions",
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (r *RedisSessionRepository) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	data, err := r.client.HGet(ctx, r.key, string(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// corrupt record degrades to absent
		if r.logger != nil {
			r.logger.Warnw("corrupt session record, treating as absent", "session_id", id, "error", err)
		}
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *RedisSessionRepository) Write(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().Unix()

	session, err := r.Get(ctx, id)
	if err == domain.ErrSessionNotFound {
		session = &domain.Session{
			ID:        id,
			CreatedAt: now,
			Viewers:   []domain.PeerID{},
		}
	} else if err != nil {
		return nil, err
	}

	if update.Sharer != nil {
		session.Sharer = *update.Sharer
	}
	session.AddViewer(update.AddViewer)
	session.UpdatedAt = now

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.HSet(ctx, r.key, string(id), data).Err(); err != nil {
		return nil, fmt.Errorf("failed to write session to Redis: %w", err)
	}

	if err := r.evictExpired(ctx, now); err != nil && r.logger != nil {
		r.logger.Warnw("session eviction sweep failed", "error", err)
	}

	return session, nil
}

func (r *RedisSessionRepository) evictExpired(ctx context.Context, now int64) error {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return err
	}

	var expired []string
	for sid, data := range all {
		var session domain.Session
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			expired = append(expired, sid)
			continue
		}
		if session.Expired(now, r.ttl) {
			expired = append(expired, sid)
		}
	}

	if len(expired) == 0 {
		return nil
	}
	return r.client.HDel(ctx, r.key, expired...).Err()
}
