package memory

import (
	"context"
	"sync"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"

	"github.com/google/uuid"
)

type MemoryMessageLog struct {
	messages []*domain.SignalingMessage
	capacity int
	lastTS   int64
	mu       sync.RWMutex
	now      func() time.Time
}

func NewMemoryMessageLog(capacity int) ports.MessageLog {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryMessageLog{
		capacity: capacity,
		now:      time.Now,
	}
}

// SetNow overrides the clock source.
func (l *MemoryMessageLog) SetNow(now func() time.Time) {
	l.now = now
}

func (l *MemoryMessageLog) Append(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().Unix()
	if ts < l.lastTS {
		ts = l.lastTS
	}
	l.lastTS = ts

	msg.ID = domain.MessageID(uuid.NewString())
	msg.Timestamp = ts

	l.messages = append(l.messages, msg)
	if len(l.messages) > l.capacity {
		// keep last capacity entries, measured after the append, so the
		// just-appended message always survives truncation
		l.messages = l.messages[len(l.messages)-l.capacity:]
	}

	return msg.ID, nil
}

func (l *MemoryMessageLog) ReadAll(ctx context.Context) ([]*domain.SignalingMessage, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.SignalingMessage, len(l.messages))
	copy(out, l.messages)
	return out, nil
}
