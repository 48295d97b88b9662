package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"phone-agent/internal/config"
	"phone-agent/internal/observability"
	"phone-agent/internal/voice/audio"
	"phone-agent/internal/voicecall/session"

	"github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Client wraps the OpenAI SDK for the three speech and language calls a
// phone turn needs: Whisper transcription, chat completion and TTS.
type Client struct {
	client     openai.Client
	logger     *observability.Logger
	voice      string
	generation config.GenerationConfig
}

func NewClient(
	apiKey string,
	voice string,
	generation config.GenerationConfig,
	logger *observability.Logger,
	opts ...openaiOption.RequestOption,
) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	options := append([]openaiOption.RequestOption{openaiOption.WithAPIKey(apiKey)}, opts...)
	return &Client{
		client:     openai.NewClient(options...),
		logger:     logger,
		voice:      voice,
		generation: generation,
	}, nil
}

// Transcribe sends caller audio to Whisper and returns the recognized text.
// Raw PCMU is wrapped in a WAV container first.
func (c *Client) Transcribe(ctx context.Context, media []byte) (string, error) {
	wav := audio.ToWAV(media)
	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(wav), "audio.wav", "audio/wav"),
	}
	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	c.logger.Debug(ctx, fmt.Sprintf("Transcribed %d bytes of caller audio", len(media)))
	return resp.Text, nil
}

// Synthesize turns text into mp3 speech with tts-1.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(c.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	speech, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS audio: %w", err)
	}
	return speech, nil
}

// Generate produces the assistant reply for callerText given the prior turns.
func (c *Client) Generate(ctx context.Context, history []session.Turn, callerText string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(c.generation.SystemPrompt))
	for _, turn := range history {
		if turn.Role == session.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(callerText))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:         messages,
		Model:            openai.ChatModel(c.generation.ChatModel),
		MaxTokens:        openai.Int(c.generation.MaxTokens),
		Temperature:      openai.Float(c.generation.Temperature),
		PresencePenalty:  openai.Float(c.generation.PresencePenalty),
		FrequencyPenalty: openai.Float(c.generation.FrequencyPenalty),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	reply := strings.TrimSpace(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	if completion.Usage.TotalTokens > 0 {
		c.logger.Metrics(ctx,
			observability.MetricField{Key: "model", Value: completion.Model},
			observability.MetricField{Key: "total_tokens", Value: completion.Usage.TotalTokens},
		)
	}
	return reply, nil
}
