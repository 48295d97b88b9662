package telnyx

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"phone-agent/internal/observability"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utterance struct {
	callID string
	audio  []byte
}

type recorder struct {
	mu        sync.Mutex
	calls     []utterance
	boundCall string
}

func (r *recorder) record(_ context.Context, callID string, audio []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, utterance{callID: callID, audio: audio})
}

func (r *recorder) snapshot() []utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]utterance(nil), r.calls...)
}

// startStream serves one media stream whose window is windowBytes/8000 seconds.
func startStream(t *testing.T, windowBytes int, rec *recorder) (*websocket.Conn, <-chan error) {
	t.Helper()

	done := make(chan error, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		window := time.Duration(windowBytes) * time.Second / 8000
		stream := NewMediaStream(conn, window, rec.record, observability.NewLogger())
		err = stream.Run(context.Background())
		rec.mu.Lock()
		rec.boundCall = stream.CallID()
		rec.mu.Unlock()
		stream.Stop()
		done <- err
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, done
}

func sendFrame(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func mediaFrame(track string, payload []byte) string {
	return fmt.Sprintf(`{"event":"media","stream_id":"s1","media":{"track":%q,"payload":%q}}`,
		track, base64.StdEncoding.EncodeToString(payload))
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("media stream did not finish")
		return nil
	}
}

func TestMediaStream_CutsInboundAudioIntoWindows(t *testing.T) {
	rec := &recorder{}
	client, done := startStream(t, 4, rec)

	sendFrame(t, client, `{"event":"connected","version":"1.0.0"}`)
	sendFrame(t, client, `{"event":"start","stream_id":"s1","start":{"call_control_id":"X","media_format":{"encoding":"PCMU","sample_rate":8000,"channels":1}}}`)
	sendFrame(t, client, mediaFrame("inbound", []byte{1, 2, 3}))
	sendFrame(t, client, mediaFrame("outbound", []byte{9, 9, 9, 9}))
	sendFrame(t, client, mediaFrame("inbound", []byte{4, 5, 6, 7, 8, 9, 10}))
	sendFrame(t, client, `{"event":"stop","stream_id":"s1","stop":{"call_control_id":"X"}}`)

	require.NoError(t, waitDone(t, done))

	got := rec.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, utterance{callID: "X", audio: []byte{1, 2, 3, 4}}, got[0])
	assert.Equal(t, utterance{callID: "X", audio: []byte{5, 6, 7, 8}}, got[1])

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "X", rec.boundCall)
}

func TestMediaStream_DropsMediaBeforeStart(t *testing.T) {
	rec := &recorder{}
	client, done := startStream(t, 2, rec)

	sendFrame(t, client, mediaFrame("inbound", []byte{1, 2, 3, 4}))
	sendFrame(t, client, `not json`)
	sendFrame(t, client, `{"event":"stop"}`)

	require.NoError(t, waitDone(t, done))
	assert.Empty(t, rec.snapshot())
}

func TestMediaStream_PeerCloseEndsRun(t *testing.T) {
	rec := &recorder{}
	client, done := startStream(t, 2, rec)

	require.NoError(t, client.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	assert.NoError(t, waitDone(t, done))
}
