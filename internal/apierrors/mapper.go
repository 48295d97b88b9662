package apierrors

import (
	"errors"

	"phone-agent/internal/voicecall/events"
	"phone-agent/internal/voicecall/processor"
	"phone-agent/internal/voicecall/signature"

	"github.com/go-playground/validator/v10"
)

// MapError converts domain errors to APIErrors.
//
// An error that is already an APIError is returned as-is. Unknown errors
// become a sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, signature.ErrMissingSignature):
		return Unauthorized("Missing webhook signature")

	case errors.Is(err, signature.ErrStaleTimestamp):
		return Unauthorized("Webhook timestamp is outside the allowed window")

	case errors.Is(err, signature.ErrInvalidSignature):
		return Unauthorized("Invalid webhook signature")

	case errors.Is(err, events.ErrMissingCallID):
		return BadRequest(CodeMalformedEvent, "Event is missing call_control_id")

	case errors.Is(err, events.ErrMalformedEvent):
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			wrapped := ValidationError(validationErrs)
			wrapped.Code = CodeMalformedEvent
			return wrapped
		}
		return BadRequest(CodeMalformedEvent, "Malformed webhook event")

	case errors.Is(err, processor.ErrCallSetupFailed):
		wrapped := InternalError(err)
		wrapped.Code = CodeCallSetup
		wrapped.Message = "Call could not be answered"
		return wrapped

	case errors.Is(err, processor.ErrAdapterFailure):
		return ServiceUnavailable(CodeServiceError, "Upstream service is temporarily unavailable", err)

	default:
		return InternalError(err)
	}
}
