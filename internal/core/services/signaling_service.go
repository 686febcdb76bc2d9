package services

import (
	"context"
	"fmt"
	"time"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
	apperrors "peerlink/pkg/errors"

	"go.uber.org/zap"
)

// signalingService applies the per-message-type session rules on top of the
// relay store:
//
//	join-request   create the session if absent, recording the sender as a
//	               viewer; no-op otherwise
//	offer          upsert the session, setting its sharer
//	answer,
//	ice-candidate  relay only, no session side effect
type signalingService struct {
	log      ports.MessageLog
	sessions ports.SessionRepository
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewSignalingService(
	log ports.MessageLog,
	sessions ports.SessionRepository,
	logger *zap.SugaredLogger,
) ports.SignalingService {
	return &signalingService{
		log:      log,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *signalingService) Submit(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error) {
	if msg.SessionID == "" {
		return "", apperrors.NewInvalidRequestError("sessionId is required")
	}
	if msg.Type == "" {
		return "", apperrors.NewInvalidRequestError("type is required")
	}
	if !msg.Type.Valid() {
		return "", apperrors.NewInvalidRequestError(fmt.Sprintf("unknown message type %q", msg.Type))
	}

	id, err := s.log.Append(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to append message: %w", err)
	}

	if err := s.applySessionRule(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to update session %s: %w", msg.SessionID, err)
	}

	s.logger.Debugw("message submitted",
		"message_id", id,
		"session_id", msg.SessionID,
		"type", msg.Type,
	)
	return id, nil
}

func (s *signalingService) applySessionRule(ctx context.Context, msg *domain.SignalingMessage) error {
	switch msg.Type {
	case domain.MessageTypeJoinRequest:
		_, err := s.sessions.Get(ctx, msg.SessionID)
		if err == domain.ErrSessionNotFound {
			_, err = s.sessions.Write(ctx, msg.SessionID, domain.SessionUpdate{AddViewer: msg.From})
			return err
		}
		return err

	case domain.MessageTypeOffer:
		sharer := msg.From
		if sharer == "" {
			sharer = domain.AnonymousPeer
		}
		_, err := s.sessions.Write(ctx, msg.SessionID, domain.SessionUpdate{Sharer: &sharer})
		return err
	}

	// answer and ice-candidate are relay-only
	return nil
}

func (s *signalingService) Drain(ctx context.Context, sessionID domain.SessionID, since int64) ([]*domain.SignalingMessage, int64, error) {
	if sessionID == "" {
		return nil, 0, apperrors.NewInvalidRequestError("session id is required")
	}

	all, err := s.log.ReadAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read message log: %w", err)
	}

	messages := make([]*domain.SignalingMessage, 0)
	for _, msg := range all {
		if msg.SessionID == sessionID && msg.Timestamp > since {
			messages = append(messages, msg)
		}
	}

	// The caller uses the returned time, not the last message's timestamp,
	// as its next cursor; that avoids re-delivering a message whose
	// timestamp collides with the previous cursor.
	return messages, s.now().Unix(), nil
}
