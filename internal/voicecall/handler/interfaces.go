package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=handler

import (
	"context"

	"phone-agent/internal/voicecall/events"
	"phone-agent/internal/voicecall/processor"
)

// EventHandler applies one classified provider event.
type EventHandler interface {
	HandleEvent(ctx context.Context, evt events.Event) (processor.Response, error)
}

// SignatureVerifier authenticates a raw webhook delivery.
type SignatureVerifier interface {
	Verify(body []byte, sig, timestamp string) error
}
