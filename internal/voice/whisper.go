package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const defaultBaseURL = "https://api.openai.com"

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Whisper transcribes audio with the OpenAI transcription endpoint.
type Whisper struct {
	apiKey   string
	model    string
	language string
	baseURL  string
	http     *http.Client
}

func NewWhisper(apiKey, model, language, baseURL string, httpClient *http.Client) *Whisper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Whisper{
		apiKey:   apiKey,
		model:    model,
		language: language,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
	}
}

type whisperResponse struct {
	Text string `json:"text"`
}

func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if w.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key is required for transcription")
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.WriteField("model", w.model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if w.language != "" {
		if err := writer.WriteField("language", w.language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}
