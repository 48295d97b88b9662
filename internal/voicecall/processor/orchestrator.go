package processor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"phone-agent/internal/clients/telnyx"
	"phone-agent/internal/observability"
	"phone-agent/internal/voicecall/events"
	"phone-agent/internal/voicecall/session"
	"phone-agent/internal/workers"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// Fixed media fork requested for every call.
var streamParams = telnyx.StreamParams{
	Track:     "inbound",
	Intervals: 2,
	Format:    "raw",
	Channels:  1,
}

// Response is the acknowledgment returned to the provider for one event.
type Response struct {
	Status int
	Body   map[string]any
}

func statusResponse(status string) Response {
	return Response{Status: http.StatusOK, Body: map[string]any{"status": status}}
}

// CallOrchestrator drives each call through its lifecycle in response to
// classified webhook events.
type CallOrchestrator struct {
	store      *session.Store
	calls      CallControl
	dispatcher TurnDispatcher
	speaker    speaker
	greeting   string
	timeout    time.Duration
	logger     *observability.Logger
}

func NewCallOrchestrator(
	store *session.Store,
	speech SpeechService,
	calls CallControl,
	dispatcher TurnDispatcher,
	greeting string,
	adapterTimeout time.Duration,
	logger *observability.Logger,
) *CallOrchestrator {
	return &CallOrchestrator{
		store:      store,
		calls:      calls,
		dispatcher: dispatcher,
		speaker:    speaker{speech: speech, calls: calls, timeout: adapterTimeout},
		greeting:   greeting,
		timeout:    adapterTimeout,
		logger:     logger,
	}
}

// HandleEvent applies evt to its call and returns the acknowledgment. An
// error is returned only when call setup fails.
func (o *CallOrchestrator) HandleEvent(ctx context.Context, evt events.Event) (resp Response, err error) {
	ctx, span := observability.StartSpan(ctx, "voicecall.event",
		observability.Field{Key: "call_control_id", Value: evt.CallID},
		observability.Field{Key: "event_type", Value: evt.Type},
	)
	defer func() { observability.EndSpan(span, err) }()

	switch evt.Kind {
	case events.KindCallInitiated, events.KindCallReceived:
		return o.startCall(ctx, evt)
	case events.KindCallAnswered:
		return o.greet(ctx, evt), nil
	case events.KindStreamingStarted:
		if sess, ok := o.store.Get(evt.CallID); ok {
			sess.Touch()
		}
		return statusResponse("streaming active"), nil
	case events.KindMediaStreaming:
		return o.acceptMedia(ctx, evt), nil
	case events.KindStreamingStopped:
		o.endCall(ctx, evt)
		return statusResponse("streaming ended"), nil
	case events.KindCallHangup:
		o.endCall(ctx, evt)
		return statusResponse("call ended"), nil
	case events.KindPlaybackEnded:
		if sess, ok := o.store.Get(evt.CallID); ok {
			sess.Touch()
		}
		return statusResponse("playback ended"), nil
	default:
		o.logger.Info(ctx, "Unhandled event type")
		return statusResponse("unhandled event"), nil
	}
}

func (o *CallOrchestrator) startCall(ctx context.Context, evt events.Event) (Response, error) {
	sess, created := o.store.Create(evt.CallID)
	sess.SetCallerNumber(evt.From)
	sess.Touch()

	claimed, pending := sess.BeginSetup()
	if !claimed {
		return o.awaitSetup(ctx, sess, pending)
	}

	if err := o.setupCall(ctx, evt.CallID); err != nil {
		o.logger.Error(ctx, "Failed to set up call", err)
		if created {
			o.store.Discard(sess)
		}
		sess.EndSetup(false)
		return Response{}, fmt.Errorf("%w: %w", ErrCallSetupFailed, err)
	}

	sess.EndSetup(true)
	o.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "caller_number", Value: sess.CallerNumber()},
	), "Call answered and streaming requested")
	return streamingEnabled(evt.CallID), nil
}

// awaitSetup answers a duplicate start with the outcome of the setup that
// owns the session. It never issues call commands itself.
func (o *CallOrchestrator) awaitSetup(ctx context.Context, sess *session.Session, pending <-chan struct{}) (Response, error) {
	if pending != nil {
		o.logger.Info(ctx, "Duplicate call start during setup, waiting for outcome")
		select {
		case <-pending:
		case <-ctx.Done():
			return Response{}, fmt.Errorf("%w: waiting for setup: %w", ErrCallSetupFailed, ctx.Err())
		}
	}

	if sess.Phase() != session.PhaseStreaming {
		return Response{}, fmt.Errorf("%w: concurrent setup did not complete", ErrCallSetupFailed)
	}
	o.logger.Info(ctx, "Duplicate call start, keeping existing session")
	return streamingEnabled(sess.ID()), nil
}

func (o *CallOrchestrator) setupCall(ctx context.Context, callID string) error {
	if _, err := withTimeout(ctx, o.timeout, "answer", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.calls.Answer(ctx, callID)
	}); err != nil {
		return err
	}
	_, err := withTimeout(ctx, o.timeout, "start streaming", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.calls.StartStreaming(ctx, callID, streamParams)
	})
	return err
}

func streamingEnabled(callID string) Response {
	return Response{
		Status: http.StatusOK,
		Body: map[string]any{
			"status": "streaming enabled",
			"data": map[string]any{
				"client_state": "streaming",
				"command_id":   callID,
				"answer": map[string]any{
					"streaming": map[string]any{
						"enable":    true,
						"track":     streamParams.Track,
						"intervals": streamParams.Intervals,
						"format":    streamParams.Format,
						"channels":  streamParams.Channels,
					},
				},
			},
		},
	}
}

func (o *CallOrchestrator) greet(ctx context.Context, evt events.Event) Response {
	sess, _ := o.store.Create(evt.CallID)
	sess.Touch()

	err := o.speaker.say(ctx, evt.CallID, o.greeting, telnyx.PlayOptions{Loop: 1, Overlay: false})
	if err != nil {
		o.logger.Error(ctx, "Failed to play greeting", err)
		return statusResponse("greeting failed")
	}

	o.logger.Info(ctx, "Greeting sent")
	return statusResponse("greeting sent")
}

func (o *CallOrchestrator) acceptMedia(ctx context.Context, evt events.Event) Response {
	sess, created := o.store.Create(evt.CallID)
	if created {
		o.logger.Info(ctx, "Media for unknown call, started new session")
	}
	sess.Touch()

	if len(evt.Audio) == 0 {
		return statusResponse("processing")
	}

	if !sess.TryBeginTurn() {
		o.logger.Debug(ctx, "Turn in flight, dropping audio chunk")
		return statusResponse("chunk dropped")
	}

	// The turn outlives the webhook request, so only the span is carried.
	job := workers.TurnJob{
		ID:          uuid.New().String(),
		CallID:      evt.CallID,
		EventType:   evt.Type,
		Audio:       evt.Audio,
		Session:     sess,
		SpanContext: trace.SpanContextFromContext(ctx),
		QueuedAt:    time.Now(),
	}
	if err := o.dispatcher.Submit(ctx, job); err != nil {
		sess.EndTurn()
		o.logger.Warn(observability.WithFields(ctx,
			observability.Field{Key: "reason", Value: err.Error()},
		), "Could not queue turn, dropping audio chunk")
		return statusResponse("chunk dropped")
	}

	return statusResponse("processing")
}

func (o *CallOrchestrator) endCall(ctx context.Context, evt events.Event) {
	if o.store.Remove(evt.CallID) {
		o.logger.Info(ctx, "Call session removed")
	}
}
