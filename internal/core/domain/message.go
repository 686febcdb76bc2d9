package domain

import (
	"encoding/json"
	"fmt"
)

type MessageID string
type SessionID string
type PeerID string

type MessageType string

const (
	MessageTypeJoinRequest  MessageType = "join-request"
	MessageTypeOffer        MessageType = "offer"
	MessageTypeAnswer       MessageType = "answer"
	MessageTypeICECandidate MessageType = "ice-candidate"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeJoinRequest, MessageTypeOffer, MessageTypeAnswer, MessageTypeICECandidate:
		return true
	}
	return false
}

// SignalingMessage is one relayed control payload. The relay reads only the
// envelope fields (id, sessionId, type, from, timestamp); every other field
// of the wire object is carried opaquely in Payload and written back out
// unchanged on drain.
type SignalingMessage struct {
	ID        MessageID
	SessionID SessionID
	Type      MessageType
	From      PeerID
	Timestamp int64 // relay-assigned, Unix seconds, non-decreasing in append order
	Payload   map[string]json.RawMessage
}

// envelope field names on the wire
const (
	fieldID        = "id"
	fieldSessionID = "sessionId"
	fieldType      = "type"
	fieldFrom      = "from"
	fieldTimestamp = "timestamp"
)

func (m *SignalingMessage) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Payload)+5)
	for k, v := range m.Payload {
		out[k] = v
	}

	set := func(key string, v interface{}) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}

	if err := set(fieldSessionID, m.SessionID); err != nil {
		return nil, err
	}
	if err := set(fieldType, m.Type); err != nil {
		return nil, err
	}
	if err := set(fieldTimestamp, m.Timestamp); err != nil {
		return nil, err
	}
	if m.ID != "" {
		if err := set(fieldID, m.ID); err != nil {
			return nil, err
		}
	}
	if m.From != "" {
		if err := set(fieldFrom, m.From); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

func (m *SignalingMessage) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("invalid signaling message: %w", err)
	}

	take := func(key string, dst interface{}) error {
		raw, ok := fields[key]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("invalid %q field: %w", key, err)
		}
		delete(fields, key)
		return nil
	}

	if err := take(fieldID, &m.ID); err != nil {
		return err
	}
	if err := take(fieldSessionID, &m.SessionID); err != nil {
		return err
	}
	if err := take(fieldType, &m.Type); err != nil {
		return err
	}
	if err := take(fieldFrom, &m.From); err != nil {
		return err
	}
	if err := take(fieldTimestamp, &m.Timestamp); err != nil {
		return err
	}

	if len(fields) > 0 {
		m.Payload = fields
	} else {
		m.Payload = nil
	}
	return nil
}
