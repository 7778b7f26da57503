package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go-worklogger/internal/config"
	"go-worklogger/internal/extract"
	"go-worklogger/internal/jira"
	"go-worklogger/internal/session"
	"go-worklogger/internal/ui"
	"go-worklogger/internal/voice"
	"go-worklogger/internal/worklog"
)

// app holds everything a command needs, built once from the config.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	jira     *jira.Client
	recorder *voice.Recorder
	capture  *voice.Capture
	runner   *session.Runner
}

// loadConfig loads and validates the config. With setupIfMissing, a first
// run without a config file starts the setup form instead of failing.
func loadConfig(setupIfMissing bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	err = cfg.Validate()
	var missing *config.MissingError
	if errors.As(err, &missing) && setupIfMissing && !config.Exists() {
		fmt.Println("No configuration found. Let's set it up!")
		fmt.Println()
		if cfg, err = config.RunSetup(); err != nil {
			return nil, err
		}
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, closeLog := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel), verbose)

	loc, err := cfg.Location()
	if err != nil {
		closeLog()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	completer, err := extract.NewCompleter(ctx, cfg.LLM, httpClient, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init llm: %w", err)
	}

	now := func() time.Time { return time.Now().In(loc) }

	jiraClient := jira.NewClient(cfg.JiraURL, cfg.JiraUsername, cfg.JiraAPIToken, httpClient)

	recorder := voice.NewRecorder(cfg.Voice.AudioDir, cfg.Voice.MaxSeconds)
	capture := voice.NewCapture(
		interrupts.Guard(recorder),
		voice.NewWhisper(cfg.LLM.OpenAIAPIKey, cfg.Voice.WhisperModel, cfg.Voice.Language, cfg.LLM.OpenAIBaseURL, httpClient),
		ui.Prompter{},
		logger,
	)

	runner := session.NewRunner(
		extract.NewClient(completer, logger),
		worklog.NewNormalizer(now, logger),
		jira.NewSubmitter(jiraClient, loc, logger),
		ui.NewTerminal(os.Stdout),
		session.WithListener(capture, recorder.MaxSeconds()),
		session.WithClock(now),
		session.WithConcurrency(cfg.SubmitConcurrency),
		session.WithLogger(logger),
	)

	logger.Debug("app ready",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"jira_url", cfg.JiraURL,
		"timezone", loc.String(),
		"submit_concurrency", cfg.SubmitConcurrency,
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		jira:     jiraClient,
		recorder: recorder,
		capture:  capture,
		runner:   runner,
	}, nil
}

func (a *app) Close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}

// failures turns failed outcomes into an error so scripts see a non-zero exit.
func failures(report session.Report) error {
	failed := 0
	for _, o := range report.Outcomes {
		if !o.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d worklogs failed", failed, len(report.Outcomes))
	}
	return nil
}
