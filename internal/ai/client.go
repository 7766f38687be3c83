// Package ai wraps the Anthropic text-generation collaborator behind a
// narrow Generator contract with retry, circuit breaking, concurrency
// limits, and usage accounting.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// GenerateRequest describes one text-generation call
type GenerateRequest struct {
	Prompt    string
	System    string // Optional system prompt
	Model     string // Optional: defaults to the client's model
	MaxTokens int64  // Optional: defaults to 4096

	// Attribution for the usage ledger
	ProjectID string
	Agent     string
	Operation string
}

// Completion is the result of one generation call
type Completion struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
	Duration     time.Duration
}

// Generator is the text-generation contract agents depend on. Tests
// substitute a stub; production uses *Client.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Completion, error)
}

// Client calls the Anthropic API with bounded retries, a circuit breaker,
// a concurrency semaphore, and client-side pacing. Every completed call is
// recorded in the llm_usage ledger when a store is configured.
type Client struct {
	client         *anthropic.Client
	store          storage.Storage
	model          string
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	concurrencySem *semaphore.Weighted
	limiter        *rate.Limiter
	bus            *events.Bus
	logger         *zap.Logger
}

// Compile-time check that Client implements Generator
var _ Generator = (*Client)(nil)

// Config holds LLM client configuration
type Config struct {
	APIKey string          // If empty, reads from ANTHROPIC_API_KEY
	Model  string          // Default model (default: ModelSonnet)
	Store  storage.Storage // Optional: enables usage accounting
	Bus    *events.Bus     // Optional: emits llm_call_completed events
	Retry  RetryConfig     // Uses DefaultRetryConfig if entirely zero
	Logger *zap.Logger
}

// NewClient creates a new LLM client
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetDefaultModel()
	}

	// An entirely zero Retry means unset; a partially filled one is taken
	// as-is so MaxRetries: 0 can disable retries deliberately.
	retryCfg := cfg.Retry
	if retryCfg == (RetryConfig{}) {
		retryCfg = DefaultRetryConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	c := &Client{
		client: &client,
		store:  cfg.Store,
		model:  model,
		retry:  retryCfg,
		bus:    cfg.Bus,
		logger: logger,
	}

	if retryCfg.CircuitBreakerEnabled {
		c.circuitBreaker = NewCircuitBreaker(
			retryCfg.FailureThreshold,
			retryCfg.SuccessThreshold,
			retryCfg.OpenTimeout,
			logger,
		)
	}
	if retryCfg.MaxConcurrentCalls > 0 {
		c.concurrencySem = semaphore.NewWeighted(int64(retryCfg.MaxConcurrentCalls))
	}
	if retryCfg.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(retryCfg.RequestsPerMinute)/60.0), retryCfg.RequestsPerMinute)
	}

	return c, nil
}

// Generate performs one text-generation call with retry and records usage
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	operation := req.Operation
	if operation == "" {
		operation = "generate"
	}

	start := time.Now()
	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, operation, func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, params)
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		if c.bus != nil {
			c.bus.Emit(events.New(events.EventTypeLLMCallCompleted, req.ProjectID, req.Agent, "llm call failed", map[string]interface{}{
				"operation": operation,
				"model":     model,
				"error":     err.Error(),
			}))
		}
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	completion := &Completion{
		Text:         text,
		Model:        model,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
		Duration:     time.Since(start),
	}

	c.recordUsage(ctx, req, completion)
	if c.bus != nil {
		c.bus.Emit(events.NewLLMCallCompletedEvent(req.ProjectID, req.Agent, operation, model, completion.InputTokens, completion.OutputTokens))
	}
	return completion, nil
}

// recordUsage writes one llm_usage row. Accounting failures are logged but
// never fail the generation call.
func (c *Client) recordUsage(ctx context.Context, req GenerateRequest, completion *Completion) {
	if c.store == nil {
		return
	}

	usage := &types.LLMUsage{
		ID:           uuid.New().String(),
		ProjectID:    req.ProjectID,
		Agent:        req.Agent,
		Operation:    req.Operation,
		Model:        completion.Model,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
		CostUSD:      EstimateCost(completion.Model, completion.InputTokens, completion.OutputTokens),
		DurationMS:   completion.Duration.Milliseconds(),
	}
	if err := c.store.RecordLLMUsage(ctx, usage); err != nil {
		c.logger.Warn("failed to record llm usage",
			zap.String("project_id", req.ProjectID),
			zap.String("operation", req.Operation),
			zap.Error(err))
	}
}
