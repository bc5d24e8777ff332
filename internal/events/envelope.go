package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
)

var (
	ErrMissingEventType = errors.New("event type is missing")
	ErrMalformedEvent   = errors.New("malformed event")
)

// Envelope is the part of a message every consumer reads before dispatching.
// Raw keeps the full body so the typed payload can be decoded afterwards.
type Envelope struct {
	EventID   string
	EventType string
	Raw       []byte
}

// Encode serializes e with camelCase keys. Optional fields left nil are
// omitted. Events without a type or id are refused.
func Encode(e Event) ([]byte, error) {
	if e == nil || strings.TrimSpace(e.Type()) == "" {
		return nil, ErrMissingEventType
	}
	if e.Type() != e.Discriminator() {
		return nil, fmt.Errorf("%w: eventType %q set on %s", ErrMalformedEvent, e.Type(), e.Discriminator())
	}
	if e.ID() == uuid.Nil {
		return nil, fmt.Errorf("%w: %s has no event id", ErrMalformedEvent, e.Type())
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}
	return data, nil
}

// DecodeEnvelope extracts eventId and eventType without binding the payload.
// Unknown fields are ignored; a missing or blank eventType fails.
func DecodeEnvelope(data []byte) (Envelope, error) {
	value, dataType, _, err := jsonparser.Get(data, "eventType")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	switch dataType {
	case jsonparser.NotExist, jsonparser.Null:
		return Envelope{}, ErrMissingEventType
	case jsonparser.String:
	default:
		return Envelope{}, fmt.Errorf("%w: eventType is a %s", ErrMalformedEvent, dataType)
	}
	eventType, err := jsonparser.ParseString(value)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if strings.TrimSpace(eventType) == "" {
		return Envelope{}, ErrMissingEventType
	}
	eventID, _ := jsonparser.GetString(data, "eventId")
	return Envelope{EventID: eventID, EventType: eventType, Raw: data}, nil
}

// Decode binds the envelope body to a concrete event type. The envelope's
// eventType must name T.
func Decode[T Event](env Envelope) (T, error) {
	var out T
	if want := out.Discriminator(); env.EventType != want {
		return out, fmt.Errorf("%w: eventType %q cannot be decoded as %s", ErrMalformedEvent, env.EventType, want)
	}
	if err := json.Unmarshal(env.Raw, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, env.EventType, err)
	}
	return out, nil
}

// EntityID returns the aggregate id of e, or "N/A" when it has none.
func EntityID(e Event) string {
	if e == nil {
		return "N/A"
	}
	if id := e.EntityID(); id != "" {
		return id
	}
	return "N/A"
}
