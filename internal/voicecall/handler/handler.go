package handler

import (
	"net/http"
	"time"

	"phone-agent/internal/observability"

	"github.com/gorilla/websocket"
)

// Provider webhooks are small JSON envelopes; media chunks are a few KB.
const maxWebhookBodyBytes = 1 << 20

type Handler struct {
	events       EventHandler
	verifier     SignatureVerifier
	streamWindow time.Duration
	logger       *observability.Logger
}

func New(events EventHandler, verifier SignatureVerifier, streamWindow time.Duration, logger *observability.Logger) Handler {
	return Handler{
		events:       events,
		verifier:     verifier,
		streamWindow: streamWindow,
		logger:       logger,
	}
}

// The media stream is opened by the provider, not a browser.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
