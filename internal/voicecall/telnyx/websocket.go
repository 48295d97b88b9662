package telnyx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"phone-agent/internal/observability"
	"phone-agent/internal/voice/audio"

	"github.com/gorilla/websocket"
)

// Frame is one JSON message on the Telnyx media stream.
type Frame struct {
	Event          string `json:"event"`
	SequenceNumber string `json:"sequence_number,omitempty"`
	StreamID       string `json:"stream_id,omitempty"`
	Start          struct {
		CallControlID string `json:"call_control_id"`
		MediaFormat   struct {
			Encoding   string `json:"encoding"`
			SampleRate int    `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"media_format"`
	} `json:"start,omitempty"`
	Media struct {
		Track     string `json:"track"`
		Chunk     string `json:"chunk"`
		Timestamp string `json:"timestamp"`
		Payload   string `json:"payload"`
	} `json:"media,omitempty"`
	Stop struct {
		CallControlID string `json:"call_control_id"`
	} `json:"stop,omitempty"`
}

// UtteranceFunc receives one full window of inbound caller audio.
type UtteranceFunc func(ctx context.Context, callID string, audio []byte)

// MediaStream reads a Telnyx media WebSocket and cuts inbound audio into
// fixed windows.
type MediaStream struct {
	conn        *websocket.Conn
	logger      *observability.Logger
	onUtterance UtteranceFunc
	windowBytes int

	callID   string
	streamID string
	buf      []byte

	writeMutex sync.Mutex
	stopOnce   sync.Once
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewMediaStream(conn *websocket.Conn, window time.Duration, onUtterance UtteranceFunc, logger *observability.Logger) *MediaStream {
	windowBytes := int(window * audio.TelephonySampleRate / time.Second)
	if windowBytes < 1 {
		windowBytes = audio.TelephonySampleRate
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MediaStream{
		conn:        conn,
		logger:      logger,
		onUtterance: onUtterance,
		windowBytes: windowBytes,
		buf:         make([]byte, 0, windowBytes),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run reads frames until the stream stops, the peer closes, or ctx is done.
// A normal end returns nil. Call Stop once Run returns.
func (s *MediaStream) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.ctx = runCtx
	oldCancel := s.cancel
	s.cancel = func() {
		cancel()
		oldCancel()
	}

	go func() {
		<-runCtx.Done()
		s.conn.Close()
	}()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if runCtx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info(s.logCtx(), "Media stream closed")
				return nil
			}
			s.logger.Error(s.logCtx(), "Media stream read error", err)
			return fmt.Errorf("read media frame: %w", err)
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.logger.Error(s.logCtx(), "Failed to parse media frame", err)
			continue
		}

		if done := s.handleFrame(frame); done {
			return nil
		}
	}
}

func (s *MediaStream) handleFrame(frame Frame) bool {
	switch frame.Event {
	case "connected":
		s.logger.Debug(s.logCtx(), "Media stream connected")

	case "start":
		s.callID = frame.Start.CallControlID
		s.streamID = frame.StreamID
		s.logger.Info(s.logCtx(), "Media stream started")

	case "media":
		if frame.Media.Track != "" && frame.Media.Track != "inbound" {
			return false
		}
		chunk, err := audio.Base64ToBytes(frame.Media.Payload)
		if err != nil {
			s.logger.Error(s.logCtx(), "Failed to decode media payload", err)
			return false
		}
		s.appendAudio(chunk)

	case "stop":
		s.logger.Info(s.logCtx(), "Media stream stopped")
		return true

	default:
		s.logger.Debug(s.logCtx(), fmt.Sprintf("Unknown media stream event: %s", frame.Event))
	}
	return false
}

func (s *MediaStream) appendAudio(chunk []byte) {
	if s.callID == "" {
		s.logger.Warn(s.logCtx(), "Media before start frame, dropping chunk")
		return
	}

	for len(chunk) > 0 {
		n := min(s.windowBytes-len(s.buf), len(chunk))
		s.buf = append(s.buf, chunk[:n]...)
		chunk = chunk[n:]

		if len(s.buf) == s.windowBytes {
			window := s.buf
			s.buf = make([]byte, 0, s.windowBytes)
			s.onUtterance(s.ctx, s.callID, window)
		}
	}
}

func (s *MediaStream) logCtx() context.Context {
	return observability.WithFields(s.ctx,
		observability.Field{Key: "call_control_id", Value: s.callID},
		observability.Field{Key: "stream_id", Value: s.streamID},
	)
}

// CallID returns the call bound by the start frame, if any.
func (s *MediaStream) CallID() string {
	return s.callID
}

// Stop closes the stream. It is safe to call more than once.
func (s *MediaStream) Stop() {
	s.stopOnce.Do(func() {
		s.writeMutex.Lock()
		err := s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMutex.Unlock()
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			s.logger.Debug(s.logCtx(), "Close frame not sent")
		}

		s.cancel()
		s.conn.Close()
	})
}
