package telnyx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"phone-agent/internal/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "https://api.telnyx.com/v2"

var (
	ErrRequestFailed = errors.New("telnyx request failed")
	ErrEmptyMedia    = errors.New("no audio to upload")
)

// StreamParams describes the media fork requested for a call.
type StreamParams struct {
	Track     string
	Intervals int
	Format    string
	Channels  int
}

// AudioHandle identifies audio uploaded to the provider's media storage.
type AudioHandle struct {
	MediaName string
}

// PlayOptions controls a playback_start command.
type PlayOptions struct {
	Loop       int
	Overlay    bool
	TargetLegs string
}

// Client issues Telnyx Call Control v2 commands.
type Client struct {
	apiKey     string
	baseURL    string
	streamURL  string
	httpClient *http.Client
	logger     *observability.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithStreamURL sets the WebSocket URL Telnyx forks call audio to. Without
// it StartStreaming is a no-op and media arrives as media.streaming webhooks.
func WithStreamURL(streamURL string) Option {
	return func(c *Client) {
		c.streamURL = streamURL
	}
}

// NewClient creates a new Telnyx call control client
func NewClient(apiKey, baseURL string, logger *observability.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Answer answers an inbound or outbound call leg.
func (c *Client) Answer(ctx context.Context, callID string) error {
	payload := map[string]any{
		"command_id": uuid.New().String(),
	}
	return c.callAction(ctx, callID, "answer", payload)
}

// StartStreaming forks call audio to the configured stream URL.
func (c *Client) StartStreaming(ctx context.Context, callID string, params StreamParams) error {
	if c.streamURL == "" {
		c.logger.Debug(ctx, "No stream URL configured, relying on webhook media delivery")
		return nil
	}

	payload := map[string]any{
		"stream_url":   c.streamURL,
		"stream_track": streamTrack(params.Track),
	}
	return c.callAction(ctx, callID, "streaming_start", payload)
}

// PrepareAudio uploads synthesized speech and returns a handle playable on
// any call.
func (c *Client) PrepareAudio(ctx context.Context, audio []byte) (AudioHandle, error) {
	if len(audio) == 0 {
		return AudioHandle{}, ErrEmptyMedia
	}

	mediaName := uuid.New().String()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("media_name", mediaName); err != nil {
		return AudioHandle{}, fmt.Errorf("failed to build media upload: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename="%s.mp3"`, mediaName))
	header.Set("Content-Type", "audio/mpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		return AudioHandle{}, fmt.Errorf("failed to build media upload: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return AudioHandle{}, fmt.Errorf("failed to build media upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return AudioHandle{}, fmt.Errorf("failed to build media upload: %w", err)
	}

	var resp struct {
		Data struct {
			MediaName string `json:"media_name"`
		} `json:"data"`
	}
	if err := c.do(ctx, c.baseURL+"/media", writer.FormDataContentType(), &body, &resp); err != nil {
		return AudioHandle{}, err
	}

	if resp.Data.MediaName != "" {
		mediaName = resp.Data.MediaName
	}

	c.logger.Debug(observability.WithFields(ctx,
		observability.Field{Key: "media_name", Value: mediaName},
	), "Media uploaded")
	return AudioHandle{MediaName: mediaName}, nil
}

// Play starts playback of previously uploaded audio on a call.
func (c *Client) Play(ctx context.Context, callID string, handle AudioHandle, opts PlayOptions) error {
	payload := map[string]any{
		"media_name": handle.MediaName,
		"overlay":    opts.Overlay,
	}
	if opts.Loop > 0 {
		payload["loop"] = opts.Loop
	}
	if opts.TargetLegs != "" {
		payload["target_legs"] = opts.TargetLegs
	}
	return c.callAction(ctx, callID, "playback_start", payload)
}

func (c *Client) callAction(ctx context.Context, callID, action string, payload map[string]any) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "telnyx_action", Value: action},
	)

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	endpoint := fmt.Sprintf("%s/calls/%s/actions/%s", c.baseURL, url.PathEscape(callID), action)
	if err := c.do(ctx, endpoint, "application/json", bytes.NewReader(jsonPayload), nil); err != nil {
		return err
	}

	c.logger.Debug(ctx, fmt.Sprintf("Telnyx %s command accepted", action))
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create telnyx request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call telnyx API", err)
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", ErrRequestFailed, err)
		}
	}
	return nil
}

func streamTrack(track string) string {
	switch track {
	case "", "inbound":
		return "inbound_track"
	case "outbound":
		return "outbound_track"
	case "both":
		return "both_tracks"
	default:
		return track
	}
}
