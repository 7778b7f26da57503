// Package extract turns a user's description of their work into the raw JSON
// text produced by a language model.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go-worklogger/internal/config"
)

// Temperature keeps the extractor close to deterministic so its JSON stays consistent.
const Temperature = 0.1

// EmptyObject is returned when the endpoint answers with a non-success status.
const EmptyObject = "{}"

// Completer sends a system and a user message and returns the model's text.
// A non-success HTTP answer is reported as *StatusError.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// StatusError is a non-2xx answer from a completion endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint returned %d: %s", e.Code, e.Body)
}

// Client is the extraction step of the pipeline.
type Client struct {
	completer Completer
	logger    *slog.Logger
}

func NewClient(completer Completer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{completer: completer, logger: logger}
}

// ExtractRaw returns the model's raw answer for userText. A non-success status
// is logged and becomes "{}", which callers read as zero entries. Transport
// errors are returned.
func (c *Client) ExtractRaw(ctx context.Context, prompt, userText string) (string, error) {
	text, err := c.completer.Complete(ctx, prompt, userText)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			c.logger.Warn("extraction endpoint returned non-success status", "status", se.Code, "body", se.Body)
			return EmptyObject, nil
		}
		return "", fmt.Errorf("extraction request: %w", err)
	}
	c.logger.Debug("extraction response", "size", len(text))
	return text, nil
}

// NewCompleter builds the backend selected by cfg.Provider.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client, logger *slog.Logger) (Completer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, model, cfg.OpenAIBaseURL, httpClient), nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("Gemini API key required")
		}
		return NewGemini(ctx, cfg.GeminiAPIKey, model, httpClient, logger)
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		return NewAnthropic(cfg.AnthropicAPIKey, model, "", httpClient), nil
	case config.ProviderOllama:
		return NewOllama(cfg.OllamaHost, model, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: openai, gemini, anthropic, ollama)", cfg.Provider)
	}
}
