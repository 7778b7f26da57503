package extract

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama runs extraction against a local model through langchaingo.
type Ollama struct {
	llm llms.Model
}

type statusKey struct{}

// statusRecorder holds the last non-2xx status seen for one Complete call.
type statusRecorder struct {
	code int
}

// statusTransport notes error statuses, which langchaingo folds into error text.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if rec, ok := req.Context().Value(statusKey{}).(*statusRecorder); ok {
			rec.code = resp.StatusCode
		}
	}
	return resp, nil
}

func NewOllama(host, model string, httpClient *http.Client) (*Ollama, error) {
	hc := &http.Client{}
	if httpClient != nil {
		copied := *httpClient
		hc = &copied
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = statusTransport{base: base}

	opts := []ollama.Option{
		ollama.WithModel(model),
		ollama.WithFormat("json"),
		ollama.WithHTTPClient(hc),
	}
	if host != "" {
		opts = append(opts, ollama.WithServerURL(host))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return &Ollama{llm: llm}, nil
}

func (o *Ollama) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}

	rec := &statusRecorder{}
	ctx = context.WithValue(ctx, statusKey{}, rec)

	resp, err := o.llm.GenerateContent(ctx, messages, llms.WithTemperature(Temperature))
	if err != nil {
		if rec.code != 0 {
			return "", &StatusError{Code: rec.code, Body: err.Error()}
		}
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return EmptyObject, nil
	}
	return resp.Choices[0].Content, nil
}
