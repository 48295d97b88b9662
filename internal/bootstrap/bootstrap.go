package bootstrap

import (
	"context"
	"fmt"

	"phone-agent/internal/clients/googleai"
	"phone-agent/internal/clients/openai"
	"phone-agent/internal/clients/telnyx"
	"phone-agent/internal/config"
	"phone-agent/internal/observability"
	"phone-agent/internal/workers"

	voiceCallHandler "phone-agent/internal/voicecall/handler"
	voiceCallProcessor "phone-agent/internal/voicecall/processor"
	"phone-agent/internal/voicecall/session"
	"phone-agent/internal/voicecall/signature"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Sessions *session.Store
	Logger   *observability.Logger

	// Handlers
	VoiceCallHandler voiceCallHandler.Handler

	// Background workers
	TurnPool       workers.WorkerPool
	SessionSweeper *session.Sweeper

	geminiClient *googleai.Client
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:   logger,
		Sessions: session.NewStore(),
	}

	webhookVerifier, err := signature.NewVerifier(cfg.Telnyx.PublicKey, cfg.Telnyx.WebhookTolerance)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	// Initialize clients
	openAIClient, err := openai.NewClient(cfg.Services.OpenAIAPIKey, cfg.Voice.TTSVoice, cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	var generator voiceCallProcessor.ResponseGenerator = openAIClient
	if cfg.Services.ResponseProvider == config.ResponseProviderGemini {
		deps.geminiClient, err = googleai.NewClient(ctx, cfg.Services.GoogleAIAPIKey, cfg.Generation, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		generator = deps.geminiClient
	}

	telnyxClient := telnyx.NewClient(cfg.Telnyx.APIKey, cfg.Telnyx.APIBaseURL, logger,
		telnyx.WithStreamURL(cfg.Telnyx.StreamURL),
	)

	// Initialize turn pipeline and worker pool
	pipeline := voiceCallProcessor.NewConversationPipeline(openAIClient, generator, cfg.Services.AdapterTimeout, logger)
	turnWorker := voiceCallProcessor.NewTurnWorker(pipeline, openAIClient, telnyxClient, cfg.Services.AdapterTimeout, logger)
	deps.TurnPool = workers.NewWorkerPool(workers.WorkerPoolConfig{
		NumWorkers: cfg.WorkerPool.TurnWorkers,
		QueueSize:  cfg.WorkerPool.TurnQueueSize,
	}, turnWorker, logger)

	// Initialize orchestrator and handler
	orchestrator := voiceCallProcessor.NewCallOrchestrator(
		deps.Sessions,
		openAIClient,
		telnyxClient,
		deps.TurnPool,
		cfg.Voice.GreetingText,
		cfg.Services.AdapterTimeout,
		logger,
	)
	deps.VoiceCallHandler = voiceCallHandler.New(orchestrator, webhookVerifier, cfg.Voice.StreamWindow, logger)

	deps.SessionSweeper = session.NewSweeper(deps.Sessions, logger, cfg.Sessions.IdleTimeout, cfg.Sessions.SweepInterval)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if d.geminiClient != nil {
		if err := d.geminiClient.Close(); err != nil {
			d.Logger.Error(context.Background(), "failed to close gemini client", err)
		}
	}
}
