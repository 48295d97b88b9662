package processor

import (
	"context"
	"errors"
	"time"

	"phone-agent/internal/clients/telnyx"
	"phone-agent/internal/observability"
	"phone-agent/internal/workers"
)

var errMissingSession = errors.New("turn job has no session")

// TurnWorker executes queued conversation turns and speaks the reply.
type TurnWorker struct {
	pipeline *ConversationPipeline
	speaker  speaker
	logger   *observability.Logger
}

func NewTurnWorker(pipeline *ConversationPipeline, speech SpeechService, calls CallControl, adapterTimeout time.Duration, logger *observability.Logger) *TurnWorker {
	return &TurnWorker{
		pipeline: pipeline,
		speaker:  speaker{speech: speech, calls: calls, timeout: adapterTimeout},
		logger:   logger,
	}
}

func (w *TurnWorker) Name() string {
	return "conversation_turn"
}

// Process runs one turn. The session's in-flight flag is always cleared on
// return.
func (w *TurnWorker) Process(ctx context.Context, job workers.TurnJob) (err error) {
	sess := job.Session
	if sess == nil {
		return errMissingSession
	}
	defer sess.EndTurn()

	ctx, span := observability.StartSpan(ctx, "voicecall.turn",
		observability.Field{Key: "call_control_id", Value: job.CallID},
	)
	defer func() { observability.EndSpan(span, err) }()

	reply, err := w.pipeline.RunTurn(ctx, sess, job.Audio)
	if err != nil {
		w.logger.Error(ctx, "Conversation turn failed", err)
		return err
	}
	if reply == "" {
		return nil
	}

	if sess.Ended() {
		w.logger.Info(ctx, "Call ended before reply playback")
		return nil
	}

	if err := w.speaker.say(ctx, job.CallID, reply, telnyx.PlayOptions{TargetLegs: "self"}); err != nil {
		w.logger.Error(ctx, "Failed to play reply", err)
		return err
	}

	w.logger.Info(ctx, "Reply played")
	return nil
}
