package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisMessageLog keeps the signaling log as a Redis list, trimmed to its
// capacity after every push so the newest entry always survives.
type RedisMessageLog struct {
	client   *redis.Client
	key      string
	capacity int
	logger   *zap.SugaredLogger

	mu     sync.Mutex
	lastTS int64
	now    func() time.Time
}

func NewRedisMessageLog(client *redis.Client, capacity int, logger *zap.SugaredLogger) ports.MessageLog {
	if capacity < 1 {
		capacity = 1
	}
	return &RedisMessageLog{
		client:   client,
		key:      "peerlink:signaling:log",
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *RedisMessageLog) Append(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error) {
	l.mu.Lock()
	ts := l.now().Unix()
	if ts < l.lastTS {
		ts = l.lastTS
	}
	l.lastTS = ts
	l.mu.Unlock()

	msg.ID = domain.MessageID(uuid.NewString())
	msg.Timestamp = ts

	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal signaling message: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, l.key, data)
	pipe.LTrim(ctx, l.key, int64(-l.capacity), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to append signaling message to Redis: %w", err)
	}

	return msg.ID, nil
}

func (l *RedisMessageLog) ReadAll(ctx context.Context) ([]*domain.SignalingMessage, error) {
	entries, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read signaling log from Redis: %w", err)
	}

	messages := make([]*domain.SignalingMessage, 0, len(entries))
	for _, entry := range entries {
		var msg domain.SignalingMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			// corrupt entry degrades to being skipped, never to a failed drain
			if l.logger != nil {
				l.logger.Warnw("skipping corrupt signaling log entry", "error", err)
			}
			continue
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}
