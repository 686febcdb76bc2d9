package ports

import (
	"context"

	"peerlink/internal/core/domain"
)

// MessageLog is the append-only signaling log. Append assigns the message id
// and timestamp and truncates the log to its capacity, oldest first, after
// the append. Implementations serialize their read-modify-write internally.
type MessageLog interface {
	Append(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error)
	ReadAll(ctx context.Context) ([]*domain.SignalingMessage, error)
}

// SessionRepository holds session metadata. Write creates the record with
// defaults when absent, merges the update over it, bumps UpdatedAt, and
// evicts every session idle beyond the retention TTL as a side effect.
type SessionRepository interface {
	Get(ctx context.Context, id domain.SessionID) (*domain.Session, error)
	Write(ctx context.Context, id domain.SessionID, update domain.SessionUpdate) (*domain.Session, error)
}

type CustomerRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) error
	List(ctx context.Context) ([]*domain.Customer, error)
}
