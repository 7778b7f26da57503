package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// minWordChars is how many word characters a transcript needs to be usable.
const minWordChars = 5

var ErrNoSpeech = errors.New("no usable speech captured")

var reNonWord = regexp.MustCompile(`[^\w\s]`)

// MinimalContent reports whether text is too short to describe any work,
// which is what Whisper tends to return for silence.
func MinimalContent(text string) bool {
	cleaned := strings.TrimSpace(reNonWord.ReplaceAllString(text, ""))
	return len([]rune(cleaned)) < minWordChars
}

// Prompter asks the user for a typed replacement when transcription fails.
type Prompter interface {
	Confirm(question string) bool
	Ask(question string) string
}

// Source produces an audio file path, e.g. *Recorder.
type Source interface {
	Record(ctx context.Context) (string, error)
}

// Capture records speech, transcribes it and falls back to typed input.
type Capture struct {
	recorder    Source
	transcriber Transcriber
	prompter    Prompter
	logger      *slog.Logger
}

func NewCapture(recorder Source, transcriber Transcriber, prompter Prompter, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{
		recorder:    recorder,
		transcriber: transcriber,
		prompter:    prompter,
		logger:      logger,
	}
}

// Listen returns the spoken (or typed fallback) text. The audio file is
// removed once it has produced a usable transcript and kept otherwise.
func (c *Capture) Listen(ctx context.Context) (string, error) {
	path, err := c.recorder.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("record audio: %w", err)
	}
	c.logger.Debug("audio recorded", "path", path)

	text, err := c.transcriber.Transcribe(ctx, path)
	if err != nil {
		c.logger.Warn("transcription failed, audio kept", "path", path, "error", err)
		return c.fallback(fmt.Errorf("transcribe: %w", err))
	}

	if MinimalContent(text) {
		c.logger.Warn("transcript has minimal content, audio kept", "path", path, "transcript", text)
		return c.fallback(ErrNoSpeech)
	}

	if err := os.Remove(path); err != nil {
		c.logger.Warn("remove audio file", "path", path, "error", err)
	}
	return text, nil
}

func (c *Capture) fallback(cause error) (string, error) {
	if c.prompter == nil || !c.prompter.Confirm("Speech was not captured clearly. Type your work log instead?") {
		return "", cause
	}
	text := strings.TrimSpace(c.prompter.Ask("Describe your work"))
	if text == "" {
		return "", cause
	}
	return text, nil
}
