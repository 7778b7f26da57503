package extract

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-worklogger/internal/config"
	"go-worklogger/internal/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	text string
	err  error

	system, user string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.text, f.err
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(dates.Anchors{
		Today:              "2025-04-23",
		Yesterday:          "2025-04-22",
		DayBeforeYesterday: "2025-04-21",
	})

	for _, want := range []string{
		"Today's date is 2025-04-23",
		`"yesterday" is 2025-04-22`,
		`"day before yesterday" is 2025-04-21`,
		"PROJECT-NUMBER",
		`"entries"`,
		`"ticket_id"`,
		`"time_spent"`,
		`"comment"`,
		`"work_date"`,
		"even if there is only one ticket",
		"Do not add any explanation",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "%!")
}

func TestBuildPromptDependsOnlyOnDates(t *testing.T) {
	a := dates.Anchors{Today: "2025-01-03", Yesterday: "2025-01-02", DayBeforeYesterday: "2025-01-01"}
	assert.Equal(t, BuildPrompt(a), BuildPrompt(a))
	assert.NotEqual(t, BuildPrompt(a), BuildPrompt(dates.Anchors{Today: "2026-01-03"}))
}

func TestExtractRawPassesThrough(t *testing.T) {
	fc := &fakeCompleter{text: `{"entries":[]}`}
	c := NewClient(fc, discardLogger())

	got, err := c.ExtractRaw(context.Background(), "system prompt", "I spent 2h on A-1")

	require.NoError(t, err)
	assert.Equal(t, `{"entries":[]}`, got)
	assert.Equal(t, "system prompt", fc.system)
	assert.Equal(t, "I spent 2h on A-1", fc.user)
}

func TestExtractRawStatusErrorBecomesEmptyObject(t *testing.T) {
	fc := &fakeCompleter{err: &StatusError{Code: 500, Body: "boom"}}
	var logs strings.Builder
	c := NewClient(fc, slog.New(slog.NewTextHandler(&logs, nil)))

	got, err := c.ExtractRaw(context.Background(), "p", "t")

	require.NoError(t, err)
	assert.Equal(t, EmptyObject, got)
	assert.Contains(t, logs.String(), "status=500")
	assert.Contains(t, logs.String(), "boom")
}

func TestExtractRawTransportErrorPropagates(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c := NewClient(&fakeCompleter{err: cause}, discardLogger())

	_, err := c.ExtractRaw(context.Background(), "p", "t")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

func TestOpenAIComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"entries\":[]}"}}]}`)
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", "gpt-4-turbo", srv.URL+"/", srv.Client())
	text, err := o.Complete(context.Background(), "sys", "usr")

	require.NoError(t, err)
	assert.Equal(t, `{"entries":[]}`, text)
	assert.Equal(t, "gpt-4-turbo", got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 1e-9)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "usr"}, got.Messages[1])
}

func TestOpenAICompleteNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"slow down"}}`)
	}))
	defer srv.Close()

	c := NewClient(NewOpenAI("k", "m", srv.URL, srv.Client()), discardLogger())
	text, err := c.ExtractRaw(context.Background(), "p", "t")

	require.NoError(t, err)
	assert.Equal(t, EmptyObject, text)

	_, err = NewOpenAI("k", "m", srv.URL, srv.Client()).Complete(context.Background(), "p", "t")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Contains(t, se.Body, "slow down")
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	text, err := NewOpenAI("k", "m", srv.URL, srv.Client()).Complete(context.Background(), "p", "t")

	require.NoError(t, err)
	assert.Equal(t, EmptyObject, text)
}

func TestOpenAICompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(NewOpenAI("k", "m", url, nil), discardLogger())
	_, err := c.ExtractRaw(context.Background(), "p", "t")

	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 0.1, body["temperature"], 1e-9)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
			"content": [{"type": "text", "text": "{\"entries\":[]}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`)
	}))
	defer srv.Close()

	a := NewAnthropic("key", "claude-test", srv.URL, srv.Client())
	text, err := a.Complete(context.Background(), "sys", "usr")

	require.NoError(t, err)
	assert.Equal(t, `{"entries":[]}`, text)
}

func TestAnthropicCompleteNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer srv.Close()

	_, err := NewAnthropic("bad", "claude-test", srv.URL, srv.Client()).Complete(context.Background(), "s", "u")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, se.Body, "invalid x-api-key")
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("Error 429, Message: quota")))
	assert.True(t, isRateLimited(errors.New("RESOURCE_EXHAUSTED")))
	assert.False(t, isRateLimited(errors.New("connection reset by peer")))
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	c, err := NewCompleter(ctx, config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k"}, nil, nil)
	require.NoError(t, err)
	o, ok := c.(*OpenAI)
	require.True(t, ok)
	assert.Equal(t, config.DefaultOpenAIModel, o.model)
	assert.Equal(t, DefaultOpenAIBaseURL, o.baseURL)

	c, err = NewCompleter(ctx, config.LLMConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "k", Model: "claude-x"}, nil, nil)
	require.NoError(t, err)
	an, ok := c.(*Anthropic)
	require.True(t, ok)
	assert.Equal(t, "claude-x", an.model)

	c, err = NewCompleter(ctx, config.LLMConfig{Provider: config.ProviderOllama, OllamaHost: "http://localhost:11434"}, nil, nil)
	require.NoError(t, err)
	_, ok = c.(*Ollama)
	assert.True(t, ok)

	_, err = NewCompleter(ctx, config.LLMConfig{Provider: config.ProviderOpenAI}, nil, nil)
	assert.Error(t, err)
	_, err = NewCompleter(ctx, config.LLMConfig{Provider: config.ProviderGemini}, nil, nil)
	assert.Error(t, err)
	_, err = NewCompleter(ctx, config.LLMConfig{Provider: "nope"}, nil, nil)
	assert.Error(t, err)
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1", req["model"])
		assert.Equal(t, "json", req["format"])
		io.WriteString(w, `{"model":"llama3.1","message":{"role":"assistant","content":"{\"entries\":[]}"},"done":true}`+"\n")
	}))
	defer srv.Close()

	o, err := NewOllama(srv.URL, "llama3.1", srv.Client())
	require.NoError(t, err)

	got, err := o.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"entries":[]}`, got)
}

func TestOllamaCompleteNonSuccess(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"model not found", http.StatusNotFound, `{"error":"model \"llama3.1\" not found, try pulling it first"}`},
		{"server error without message", http.StatusInternalServerError, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				io.WriteString(w, tt.body+"\n")
			}))
			defer srv.Close()

			o, err := NewOllama(srv.URL, "llama3.1", srv.Client())
			require.NoError(t, err)

			_, err = o.Complete(context.Background(), "sys", "user")
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)

			raw, err := NewClient(o, discardLogger()).ExtractRaw(context.Background(), "sys", "user")
			require.NoError(t, err)
			assert.Equal(t, EmptyObject, raw)
		})
	}
}

func TestOllamaCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	o, err := NewOllama(url, "llama3.1", nil)
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
