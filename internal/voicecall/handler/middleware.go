package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"phone-agent/internal/apierrors"
	"phone-agent/internal/observability"
	"phone-agent/internal/voicecall/signature"

	"github.com/gin-gonic/gin"
)

// HandleSignatureMiddleware rejects webhooks whose signature does not verify.
// The body is restored for the next handler.
func (h *Handler) HandleSignatureMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	body, ok := h.readBody(c)
	if !ok {
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	err := h.verifier.Verify(body, c.GetHeader(signature.SignatureHeader), c.GetHeader(signature.TimestampHeader))
	if err != nil {
		h.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "reason", Value: err.Error()},
		), "Rejected webhook signature")
		apierrors.RespondWithError(c, err)
		return
	}

	c.Next()
}

// readBody reads at most maxWebhookBodyBytes. On failure it writes the error
// response and returns false.
func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err == nil {
		return body, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.Warn(c.Request.Context(), "Rejected oversized webhook body")
		apierrors.RespondWithAPIError(c, apierrors.PayloadTooLarge("Request body is too large"))
		return nil, false
	}
	h.logger.Error(c.Request.Context(), "Failed to read webhook body", err)
	apierrors.RespondWithAPIError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Unreadable request body"))
	return nil, false
}
