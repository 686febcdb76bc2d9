package ports

import (
	"context"

	"peerlink/internal/core/domain"
)

// SignalingService is the relay's request surface: Submit appends one message
// and applies its session side effect, Drain returns the retained suffix of
// the log for one session newer than the caller's cursor, together with the
// relay's current time to use as the next cursor.
type SignalingService interface {
	Submit(ctx context.Context, msg *domain.SignalingMessage) (domain.MessageID, error)
	Drain(ctx context.Context, sessionID domain.SessionID, since int64) ([]*domain.SignalingMessage, int64, error)
}

type CustomerService interface {
	// Save creates the customer or, when the email already exists, updates
	// that row in place. The returned bool reports whether a new row was
	// created.
	Save(ctx context.Context, customer *domain.Customer) (bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}
