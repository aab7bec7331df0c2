package replicationv1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Envelope frames every wire message.
type Envelope struct {
	ID      string                 `json:"id"`
	Type    MessageType            `json:"type"`
	Venue   string                 `json:"venue"`
	SentAt  *timestamppb.Timestamp `json:"sentAt"`
	Payload json.RawMessage        `json:"payload"`
}

// NewEnvelope wraps payload under a fresh id.
func NewEnvelope(t MessageType, venue string, payload interface{}) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return &Envelope{
		ID:      ulid.Make().String(),
		Type:    t,
		Venue:   venue,
		SentAt:  timestamppb.New(time.Now()),
		Payload: raw,
	}, nil
}

// Decode unmarshals the payload into v.
func (e *Envelope) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Marshal encodes the envelope for the wire.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEnvelope parses a wire frame.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Type == "" {
		return nil, fmt.Errorf("envelope %q has no type", e.ID)
	}
	return &e, nil
}
