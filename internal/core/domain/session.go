package domain

import "time"

// Session tracks one screen-share attempt. It is created implicitly by the
// first join-request for its id and evicted after the retention TTL of
// idleness.
type Session struct {
	ID        SessionID `json:"sessionId"`
	CreatedAt int64     `json:"created"`
	UpdatedAt int64     `json:"updated"`
	Sharer    PeerID    `json:"sharer,omitempty"`
	Viewers   []PeerID  `json:"viewers"`
}

// AddViewer records a viewer identity, deduplicated. Bookkeeping only; the
// relay enforces no viewer capacity.
func (s *Session) AddViewer(p PeerID) {
	if p == "" {
		return
	}
	for _, v := range s.Viewers {
		if v == p {
			return
		}
	}
	s.Viewers = append(s.Viewers, p)
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(now int64, ttl time.Duration) bool {
	return now-s.UpdatedAt > int64(ttl.Seconds())
}

// SessionUpdate is a partial write merged over the stored record: non-nil
// fields overwrite, AddViewer appends to the viewer set when non-empty.
type SessionUpdate struct {
	Sharer    *PeerID
	AddViewer PeerID
}

// AnonymousPeer is the sharer identity recorded when an offer carries no
// sender identifier.
const AnonymousPeer PeerID = "anonymous"
