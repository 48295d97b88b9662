package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phone-agent/internal/clients/telnyx"
)

var (
	// ErrAdapterFailure marks a failed or timed out speech, generation or
	// call control call. It aborts the current action but never the call.
	ErrAdapterFailure = errors.New("adapter failure")
	// ErrCallSetupFailed is returned when a call cannot be answered or
	// streamed. The webhook is answered with a server error.
	ErrCallSetupFailed = errors.New("call setup failed")
)

// withTimeout runs fn under a deadline. Any error, including expiry, is
// reported as an ErrAdapterFailure tagged with op.
func withTimeout[T any](ctx context.Context, timeout time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	result, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrAdapterFailure, op, err)
	}
	return result, nil
}

// speaker synthesizes text and plays it on a call.
type speaker struct {
	speech  SpeechService
	calls   CallControl
	timeout time.Duration
}

func (s speaker) say(ctx context.Context, callID, text string, opts telnyx.PlayOptions) error {
	audio, err := withTimeout(ctx, s.timeout, "synthesize", func(ctx context.Context) ([]byte, error) {
		return s.speech.Synthesize(ctx, text)
	})
	if err != nil {
		return err
	}

	handle, err := withTimeout(ctx, s.timeout, "prepare audio", func(ctx context.Context) (telnyx.AudioHandle, error) {
		return s.calls.PrepareAudio(ctx, audio)
	})
	if err != nil {
		return err
	}

	_, err = withTimeout(ctx, s.timeout, "play", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.calls.Play(ctx, callID, handle, opts)
	})
	return err
}
