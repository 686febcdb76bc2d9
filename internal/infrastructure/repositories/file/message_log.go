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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const messagesFilename = "messages.json"

// FileMessageLog persists the signaling log as a single JSON array on disk,
// rewritten in full on every append. The read-modify-write runs under one
// mutex; an unreadable or corrupt file degrades to an empty log instead of
// failing the request.
type FileMessageLog struct {
	path     string
	capacity int
	logger   *zap.SugaredLogger
	mu       sync.Mutex
	now      func() time.Time
}

func NewFileMessageLog(dataDir string, capacity int, logger *zap.SugaredLogger) (ports.MessageLog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if capacity < 1 {
		capacity = 1
	}
	return &FileMessageLog{
		path:     filepath.Join(dataDir, messagesFilename),
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (l *FileMessageLog) Append(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := l.load()

	ts := l.now().Unix()
	if n := len(messages); n > 0 && messages[n-1].Timestamp > ts {
		ts = messages[n-1].Timestamp
	}

	msg.ID = domain.MessageID(uuid.NewString())
	msg.Timestamp = ts

	messages = append(messages, msg)
	if len(messages) > l.capacity {
		messages = messages[len(messages)-l.capacity:]
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return "", fmt.Errorf("failed to marshal signaling log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write signaling log: %w", err)
	}

	return msg.ID, nil
}

func (l *FileMessageLog) ReadAll(ctx context.Context) ([]*domain.SignalingMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load(), nil
}

// load reads the persisted log, treating a missing or unparsable file as an
// empty log.
func (l *FileMessageLog) load() []*domain.SignalingMessage {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) && l.logger != nil {
			l.logger.Warnw("signaling log unreadable, serving empty view",
				"path", l.path,
				"error", err,
			)
		}
		return nil
	}

	var messages []*domain.SignalingMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		if l.logger != nil {
			l.logger.Warnw("signaling log corrupt, serving empty view",
				"path", l.path,
				"error", err,
			)
		}
		return nil
	}
	return messages
}
