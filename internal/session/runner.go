package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-worklogger/internal/dates"
	"go-worklogger/internal/extract"
	"go-worklogger/internal/voice"
	"go-worklogger/internal/worklog"

	"github.com/google/uuid"
)

type Extractor interface {
	ExtractRaw(ctx context.Context, prompt, userText string) (string, error)
}

type Normalizer interface {
	Normalize(raw string) []worklog.Entry
}

type Submitter interface {
	Submit(ctx context.Context, e worklog.Entry) worklog.Outcome
	SubmitAll(ctx context.Context, entries []worklog.Entry, concurrency int) []worklog.Outcome
}

// Display receives progress of a cycle. Implementations render it; the
// runner never writes to the terminal itself.
type Display interface {
	Welcome()
	Status(msg string)
	// Progress shows msg until the returned func is called.
	Progress(msg string) (done func())
	NoTickets()
	Submitting(e worklog.Entry)
	Result(o worklog.Outcome)
	Summary(outcomes []worklog.Outcome)
	Help()
	Error(msg string)
}

// Input supplies one line per turn. ok is false when input is closed.
type Input interface {
	ReadLine(ctx context.Context) (line string, ok bool)
}

// Listener captures a spoken work description.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Report is everything one processing cycle produced.
type Report struct {
	CycleID  string
	Entries  []worklog.Entry
	Outcomes []worklog.Outcome
}

type Runner struct {
	extractor   Extractor
	normalizer  Normalizer
	submitter   Submitter
	display     Display
	listener    Listener
	maxRecord   int
	now         func() time.Time
	concurrency int
	logger      *slog.Logger
}

type Option func(*Runner)

// WithListener enables voice input; maxSeconds is announced before recording.
func WithListener(l Listener, maxSeconds int) Option {
	return func(r *Runner) {
		r.listener = l
		r.maxRecord = maxSeconds
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func WithConcurrency(n int) Option {
	return func(r *Runner) { r.concurrency = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func NewRunner(extractor Extractor, normalizer Normalizer, submitter Submitter, display Display, opts ...Option) *Runner {
	r := &Runner{
		extractor:   extractor,
		normalizer:  normalizer,
		submitter:   submitter,
		display:     display,
		now:         time.Now,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newCycleID() string {
	return uuid.New().String()[:8]
}

// Process runs one cycle: extract entries from text, normalize them and
// submit each one. Only a failure to reach the extraction service is
// returned as an error; per-entry failures are in the report.
func (r *Runner) Process(ctx context.Context, text string) (Report, error) {
	report := Report{CycleID: newCycleID()}
	logger := r.logger.With("cycle_id", report.CycleID)

	anchors := dates.Resolve(r.now())
	logger.Info("processing input", "chars", len(text), "today", anchors.Today)

	done := r.display.Progress("Extracting work log entries...")
	raw, err := r.extractor.ExtractRaw(ctx, extract.BuildPrompt(anchors), text)
	done()
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return report, fmt.Errorf("extract entries: %w", err)
	}

	report.Entries = r.normalizer.Normalize(raw)
	if len(report.Entries) == 0 {
		logger.Info("no entries identified")
		r.display.NoTickets()
		return report, nil
	}

	report.Outcomes = r.submit(ctx, report.Entries)

	succeeded := 0
	for _, o := range report.Outcomes {
		if o.Success {
			succeeded++
		}
	}
	logger.Info("cycle finished", "entries", len(report.Entries), "succeeded", succeeded)

	r.display.Summary(report.Outcomes)
	return report, nil
}

func (r *Runner) submit(ctx context.Context, entries []worklog.Entry) []worklog.Outcome {
	if r.concurrency <= 1 {
		outcomes := make([]worklog.Outcome, len(entries))
		for i, e := range entries {
			r.display.Submitting(e)
			outcomes[i] = r.submitter.Submit(ctx, e)
			r.display.Result(outcomes[i])
		}
		return outcomes
	}

	for _, e := range entries {
		r.display.Submitting(e)
	}
	outcomes := r.submitter.SubmitAll(ctx, entries, r.concurrency)
	for _, o := range outcomes {
		r.display.Result(o)
	}
	return outcomes
}

func isExit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

func isVoice(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "/voice", "v":
		return true
	}
	return false
}

// Run reads lines until exit, closed input or a cancelled context.
func (r *Runner) Run(ctx context.Context, input Input) error {
	r.display.Welcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, ok := input.ReadLine(ctx)
		if !ok {
			return nil
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case isExit(line):
			return nil
		case line == "/help":
			r.display.Help()
			continue
		case isVoice(line):
			text, err := r.listen(ctx)
			if err != nil {
				r.display.Error(err.Error())
				r.display.Welcome()
				continue
			}
			line = text
		}

		if _, err := r.Process(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			r.display.Error(err.Error())
		}
		r.display.Welcome()
	}
}

func (r *Runner) listen(ctx context.Context) (string, error) {
	if r.listener == nil {
		return "", errors.New("voice input is not available")
	}
	r.display.Status(voice.RecordingPrompt(r.maxRecord))
	text, err := r.listener.Listen(ctx)
	if err != nil {
		return "", err
	}
	r.display.Status("Transcript: " + text)
	return text, nil
}
