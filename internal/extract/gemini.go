package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini uses the Gemini API with a JSON response MIME type.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger

	// retryWait is the backoff unit for rate-limited requests.
	retryWait time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, httpClient *http.Client, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{client: client, model: model, logger: logger, retryWait: 30 * time.Second}, nil
}

func (g *Gemini) Complete(ctx context.Context, system, user string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.generateWithRetry(ctx, user, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{Code: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("gemini request: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return EmptyObject, nil
	}
	return resp.Text(), nil
}

func (g *Gemini) generateWithRetry(ctx context.Context, text string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	const maxRetries = 3
	for attempt := range maxRetries {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), cfg)
		if err == nil || !isRateLimited(err) {
			return resp, err
		}
		wait := time.Duration(attempt+1) * g.retryWait
		g.logger.Warn("gemini rate limit hit, retrying", "wait", wait, "attempt", attempt+1)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), cfg)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "RESOURCE_EXHAUSTED")
}
