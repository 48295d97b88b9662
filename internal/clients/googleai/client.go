package googleai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"phone-agent/internal/config"
	"phone-agent/internal/observability"
	"phone-agent/internal/voicecall/session"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyCompletion = errors.New("gemini returned an empty completion")

// Client generates call replies with a Gemini model.
type Client struct {
	client     *genai.Client
	logger     *observability.Logger
	generation config.GenerationConfig
}

func NewClient(ctx context.Context, apiKey string, generation config.GenerationConfig, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google AI API key is required")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{
		client:     c,
		logger:     logger,
		generation: generation,
	}, nil
}

// Generate produces the assistant reply for callerText given the prior turns.
func (g *Client) Generate(ctx context.Context, history []session.Turn, callerText string) (string, error) {
	model := g.client.GenerativeModel(g.generation.GeminiModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(g.generation.SystemPrompt)},
	}
	model.SetMaxOutputTokens(int32(g.generation.MaxTokens))
	model.SetTemperature(float32(g.generation.Temperature))

	chat := model.StartChat()
	chat.History = buildHistory(history)

	resp, err := chat.SendMessage(ctx, genai.Text(callerText))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	reply := responseText(resp)
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	if resp.UsageMetadata != nil {
		g.logger.Metrics(ctx,
			observability.MetricField{Key: "model", Value: g.generation.GeminiModel},
			observability.MetricField{Key: "total_tokens", Value: resp.UsageMetadata.TotalTokenCount},
		)
	}
	return reply, nil
}

// Close releases the underlying Gemini connection.
func (g *Client) Close() error {
	return g.client.Close()
}

func buildHistory(turns []session.Turn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		role := "user"
		if turn.Role == session.RoleAssistant {
			role = "model" // Gemini SDK expects "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return history
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
