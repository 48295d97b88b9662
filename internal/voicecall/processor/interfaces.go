package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"context"

	"phone-agent/internal/clients/telnyx"
	"phone-agent/internal/voicecall/session"
	"phone-agent/internal/workers"
)

// SpeechService converts between caller audio and text.
type SpeechService interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ResponseGenerator produces the assistant reply for the caller's latest
// utterance. history holds the prior turns oldest first.
type ResponseGenerator interface {
	Generate(ctx context.Context, history []session.Turn, callerText string) (string, error)
}

// CallControl issues commands against a live call.
type CallControl interface {
	Answer(ctx context.Context, callID string) error
	StartStreaming(ctx context.Context, callID string, params telnyx.StreamParams) error
	PrepareAudio(ctx context.Context, audio []byte) (telnyx.AudioHandle, error)
	Play(ctx context.Context, callID string, handle telnyx.AudioHandle, opts telnyx.PlayOptions) error
}

// TurnDispatcher hands a turn job off for execution without blocking.
type TurnDispatcher interface {
	Submit(ctx context.Context, job workers.TurnJob) error
}
