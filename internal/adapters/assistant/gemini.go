package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	"github.com/hireloop/evalcore/pkg/metrics"
)

// Default Gemini invoker configuration.
const (
	defaultModel          = "gemini-2.5-flash"
	defaultMaxRetries     = 3
	defaultBaseDelay      = time.Second
	defaultMaxDelay       = 30 * time.Second
	defaultRequestTimeout = 90 * time.Second
	defaultTemperature    = 0.1
)

// GeminiOption applies a configuration option to the GeminiInvoker.
type GeminiOption func(*GeminiInvoker)

// WithModel sets the model name.
func WithModel(name string) GeminiOption {
	return func(g *GeminiInvoker) {
		if name != "" {
			g.model = name
		}
	}
}

// WithMaxRetries sets the retry budget for retryable failures.
func WithMaxRetries(n int) GeminiOption {
	return func(g *GeminiInvoker) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

// WithRequestTimeout bounds a single invocation including retries.
func WithRequestTimeout(d time.Duration) GeminiOption {
	return func(g *GeminiInvoker) {
		if d > 0 {
			g.requestTimeout = d
		}
	}
}

// WithGeminiLogger sets a custom logger.
func WithGeminiLogger(log logger.Logger) GeminiOption {
	return func(g *GeminiInvoker) {
		if log != nil {
			g.log = log
		}
	}
}

// GeminiInvoker implements Invoker on the Gemini API with retry and
// exponential backoff for transient failures.
type GeminiInvoker struct {
	client         *genai.Client
	model          string
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
	requestTimeout time.Duration
	log            logger.Logger
}

// NewGeminiInvoker creates an invoker using the given API key.
func NewGeminiInvoker(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrInvoke)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvoke, err)
	}

	g := &GeminiInvoker{
		client:         client,
		model:          defaultModel,
		maxRetries:     defaultMaxRetries,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Named("assistant")
	}
	return g, nil
}

// Invoke sends the request to the model and parses the structured
// suggestion out of its reply.
func (g *GeminiInvoker) Invoke(ctx context.Context, req Request) (model.Suggestion, error) {
	metrics.RecordAssistantCall()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	prompt := buildPrompt(req)
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(defaultTemperature)),
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.backoff(attempt)
			g.log.Warn(ctx, "retrying assistant invocation",
				logger.Int("attempt", attempt),
				logger.Any("delay", delay),
				logger.Error(lastErr),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				metrics.RecordAssistantError()
				return model.Suggestion{}, fmt.Errorf("%w: %w", ErrInvoke, ctx.Err())
			}
		}

		result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err == nil {
			suggestion, perr := parseSuggestion(result.Text())
			if perr != nil {
				metrics.RecordAssistantError()
				return model.Suggestion{}, perr
			}
			metrics.RecordAssistantLatency(float64(time.Since(start).Milliseconds()))
			return suggestion, nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	metrics.RecordAssistantError()
	return model.Suggestion{}, fmt.Errorf("%w: %w", ErrInvoke, lastErr)
}

func (g *GeminiInvoker) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(g.baseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > g.maxDelay {
		delay = g.maxDelay
	}
	return delay
}

// isRetryable classifies transient API failures worth another attempt.
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "500", "502", "503", "504", "deadline", "unavailable", "overloaded", "timeout"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
