package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phone-agent/internal/observability"
	"phone-agent/internal/voicecall/session"
)

var errEmptyReply = errors.New("generator returned an empty reply")

// ConversationPipeline runs one caller utterance through transcription and
// reply generation and records the exchange on the session.
type ConversationPipeline struct {
	speech    SpeechService
	generator ResponseGenerator
	timeout   time.Duration
	logger    *observability.Logger
}

func NewConversationPipeline(speech SpeechService, generator ResponseGenerator, adapterTimeout time.Duration, logger *observability.Logger) *ConversationPipeline {
	return &ConversationPipeline{
		speech:    speech,
		generator: generator,
		timeout:   adapterTimeout,
		logger:    logger,
	}
}

// RunTurn returns the assistant reply for audio, or "" when the window held
// no speech. The caller and assistant turns are appended together only once a
// reply exists, so a failure leaves the history untouched.
func (p *ConversationPipeline) RunTurn(ctx context.Context, sess *session.Session, audio []byte) (string, error) {
	text, err := withTimeout(ctx, p.timeout, "transcribe", func(ctx context.Context) (string, error) {
		return p.speech.Transcribe(ctx, audio)
	})
	if err != nil {
		return "", err
	}

	callerText := strings.TrimSpace(text)
	if callerText == "" {
		p.logger.Debug(ctx, "No speech in audio window")
		return "", nil
	}

	history := sess.Turns()
	reply, err := withTimeout(ctx, p.timeout, "generate", func(ctx context.Context) (string, error) {
		return p.generator.Generate(ctx, history, callerText)
	})
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: generate: %w", ErrAdapterFailure, errEmptyReply)
	}

	callerTurn, _ := sess.AppendExchange(callerText, reply)
	p.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "turn_seq", Value: callerTurn.Seq},
	), "Conversation turn recorded")

	return reply, nil
}
