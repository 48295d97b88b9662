package handler

import (
	"context"

	"phone-agent/internal/observability"
	"phone-agent/internal/voice/audio"
	"phone-agent/internal/voicecall/events"
	"phone-agent/internal/voicecall/telnyx"

	"github.com/gin-gonic/gin"
)

// HandleMediaStream handles GET /media-stream. Each inbound audio window is
// applied as a media.streaming event.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "Failed to upgrade media stream", err)
		return
	}

	stream := telnyx.NewMediaStream(conn, h.streamWindow, h.applyUtterance, h.logger)
	defer stream.Stop()

	err = stream.Run(ctx)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_control_id", Value: stream.CallID()},
	)
	if err != nil {
		h.logger.Error(ctx, "Media stream ended with error", err)
		return
	}
	h.logger.Info(ctx, "Media stream finished")
}

func (h *Handler) applyUtterance(ctx context.Context, callID string, chunk []byte) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_type", Value: events.TypeMediaStreaming},
		observability.Field{Key: "call_control_id", Value: callID},
		observability.Field{Key: "audio_seconds", Value: audio.Duration(chunk)},
	)

	resp, err := h.events.HandleEvent(ctx, events.Event{
		Kind:   events.KindMediaStreaming,
		Type:   events.TypeMediaStreaming,
		CallID: callID,
		Audio:  chunk,
	})
	if err != nil {
		h.logger.Error(ctx, "Failed to apply streamed audio", err)
		return
	}
	h.logger.Debug(observability.WithFields(ctx,
		observability.Field{Key: "status", Value: resp.Body["status"]},
	), "Streamed audio applied")
}
