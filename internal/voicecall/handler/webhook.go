package handler

import (
	"net/http"

	"phone-agent/internal/apierrors"
	"phone-agent/internal/observability"
	"phone-agent/internal/voicecall/events"

	"github.com/gin-gonic/gin"
)

// HandleWebhook handles POST /webhook. The signature is checked by middleware.
func (h *Handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, ok := h.readBody(c)
	if !ok {
		return
	}

	evt, err := events.Classify(body)
	if err != nil {
		h.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "reason", Value: err.Error()},
		), "Rejected malformed webhook event")
		apierrors.RespondWithError(c, err)
		return
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_type", Value: evt.Type},
		observability.Field{Key: "event_id", Value: evt.ID},
		observability.Field{Key: "call_control_id", Value: evt.CallID},
	)
	h.logger.Info(ctx, "Webhook event received")

	resp, err := h.events.HandleEvent(ctx, evt)
	if err != nil {
		h.logger.Error(ctx, "Failed to handle webhook event", err)
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(resp.Status, resp.Body)
}

// HandleTest handles GET|POST /test and echoes the request back.
func (h *Handler) HandleTest(c *gin.Context) {
	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"headers": headers,
		"method":  c.Request.Method,
	})
}
