package events

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMalformedEvent is returned for bodies that cannot be classified.
	ErrMalformedEvent = errors.New("malformed webhook event")
	// ErrMissingCallID is returned when a recognized event carries no call_control_id.
	ErrMissingCallID = fmt.Errorf("%w: missing call_control_id", ErrMalformedEvent)
)

// Kind is the closed set of provider event types the orchestrator reacts to.
type Kind int

const (
	KindUnhandled Kind = iota
	KindCallInitiated
	KindCallReceived
	KindCallAnswered
	KindStreamingStarted
	KindMediaStreaming
	KindStreamingStopped
	KindCallHangup
	KindPlaybackEnded
)

// Provider event type strings
const (
	TypeCallInitiated    = "call.initiated"
	TypeCallReceived     = "call.received"
	TypeCallAnswered     = "call.answered"
	TypeStreamingStarted = "streaming.started"
	TypeMediaStreaming   = "media.streaming"
	TypeStreamingStopped = "streaming.stopped"
	TypeCallHangup       = "call.hangup"
	TypePlaybackEnded    = "call.playback.ended"
)

var kindsByType = map[string]Kind{
	TypeCallInitiated:    KindCallInitiated,
	TypeCallReceived:     KindCallReceived,
	TypeCallAnswered:     KindCallAnswered,
	TypeStreamingStarted: KindStreamingStarted,
	TypeMediaStreaming:   KindMediaStreaming,
	TypeStreamingStopped: KindStreamingStopped,
	TypeCallHangup:       KindCallHangup,
	TypePlaybackEnded:    KindPlaybackEnded,
}

func (k Kind) String() string {
	switch k {
	case KindCallInitiated:
		return TypeCallInitiated
	case KindCallReceived:
		return TypeCallReceived
	case KindCallAnswered:
		return TypeCallAnswered
	case KindStreamingStarted:
		return TypeStreamingStarted
	case KindMediaStreaming:
		return TypeMediaStreaming
	case KindStreamingStopped:
		return TypeStreamingStopped
	case KindCallHangup:
		return TypeCallHangup
	case KindPlaybackEnded:
		return TypePlaybackEnded
	default:
		return "unhandled"
	}
}

// StartsCall reports whether the kind opens a call session.
func (k Kind) StartsCall() bool {
	return k == KindCallInitiated || k == KindCallReceived
}

// IsTerminal reports whether the kind ends a call session.
func (k Kind) IsTerminal() bool {
	return k == KindStreamingStopped || k == KindCallHangup
}

// KindOf maps a provider event type to its Kind.
func KindOf(eventType string) Kind {
	if k, ok := kindsByType[eventType]; ok {
		return k
	}
	return KindUnhandled
}

// Envelope is the webhook body as delivered by the provider.
type Envelope struct {
	Data *EnvelopeData `json:"data" validate:"required"`
}

type EnvelopeData struct {
	ID         string  `json:"id"`
	EventType  string  `json:"event_type" validate:"required"`
	OccurredAt string  `json:"occurred_at"`
	Payload    Payload `json:"payload"`
}

type Payload struct {
	CallControlID string `json:"call_control_id"`
	CallLegID     string `json:"call_leg_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Chunk         string `json:"chunk"`
	StreamID      string `json:"stream_id"`
	ClientState   string `json:"client_state"`
}

// Event is a classified webhook delivery.
type Event struct {
	Kind       Kind
	Type       string
	ID         string
	CallID     string
	From       string
	To         string
	Audio      []byte
	OccurredAt time.Time
}

var validate = validator.New()

// Classify decodes and classifies a webhook body. Unknown event types yield a
// KindUnhandled event; structural problems yield an error wrapping
// ErrMalformedEvent.
func Classify(body []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return classifyEnvelope(env)
}

func classifyEnvelope(env Envelope) (Event, error) {
	if err := validate.Struct(env); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	data := env.Data
	evt := Event{
		Kind: KindOf(data.EventType),
		Type: data.EventType,
		ID:   data.ID,
	}
	if data.OccurredAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, data.OccurredAt); err == nil {
			evt.OccurredAt = ts
		}
	}

	evt.CallID = strings.TrimSpace(data.Payload.CallControlID)
	if evt.Kind == KindUnhandled {
		return evt, nil
	}
	if evt.CallID == "" {
		return Event{}, ErrMissingCallID
	}
	evt.From = data.Payload.From
	evt.To = data.Payload.To

	if evt.Kind == KindMediaStreaming && data.Payload.Chunk != "" {
		audio, err := base64.StdEncoding.DecodeString(data.Payload.Chunk)
		if err != nil {
			return Event{}, fmt.Errorf("%w: chunk is not valid base64: %v", ErrMalformedEvent, err)
		}
		evt.Audio = audio
	}

	return evt, nil
}
