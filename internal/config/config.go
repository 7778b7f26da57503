package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

const (
	DefaultOpenAIModel    = "gpt-4-turbo"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOllamaModel    = "llama3.1"

	DefaultHTTPTimeoutSeconds = 30
	DefaultRecorderMaxSeconds = 20
	DefaultWhisperModel       = "whisper-1"
)

type Config struct {
	JiraURL      string `json:"jira_url"`
	JiraUsername string `json:"jira_username"`
	JiraAPIToken string `json:"jira_api_token"`

	LLM   LLMConfig   `json:"llm"`
	Voice VoiceConfig `json:"voice"`

	Timezone           string `json:"timezone"`
	SubmitConcurrency  int    `json:"submit_concurrency"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`

	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

type LLMConfig struct {
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	OpenAIAPIKey    string `json:"openai_api_key"`
	OpenAIBaseURL   string `json:"openai_base_url"`
	GeminiAPIKey    string `json:"gemini_api_key"`
	AnthropicAPIKey string `json:"anthropic_api_key"`
	OllamaHost      string `json:"ollama_host"`
}

// VoiceConfig drives audio capture and Whisper transcription.
// Transcription reuses LLMConfig.OpenAIAPIKey and OpenAIBaseURL.
type VoiceConfig struct {
	MaxSeconds   int    `json:"max_seconds"`
	AudioDir     string `json:"audio_dir"`
	WhisperModel string `json:"whisper_model"`
	Language     string `json:"language"`
}

// MissingError lists every required setting that is absent.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing configuration: " + strings.Join(e.Keys, ", ")
}

func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".worklogger")
}

func Path() string {
	return filepath.Join(Dir(), "config.json")
}

func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads ~/.worklogger/config.json (if present), then .env in the working
// directory, then environment variables, and applies defaults.
// It does not validate; call Validate before starting the pipeline.
func Load() (*Config, error) {
	return load(Path(), ".env")
}

func load(configPath, envFile string) (*Config, error) {
	cfg, err := LoadFromFile(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	envOverride(&c.JiraURL, "JIRA_BASE_URL")
	envOverride(&c.JiraUsername, "JIRA_USERNAME")
	envOverride(&c.JiraAPIToken, "JIRA_API_TOKEN")
	envOverride(&c.LLM.Provider, "LLM_PROVIDER")
	envOverride(&c.LLM.Model, "LLM_MODEL")
	envOverride(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&c.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	envOverride(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&c.LLM.OllamaHost, "OLLAMA_HOST")
	envOverride(&c.Timezone, "TIMEZONE")
	envOverrideInt(&c.SubmitConcurrency, "SUBMIT_CONCURRENCY")
	envOverrideInt(&c.HTTPTimeoutSeconds, "HTTP_TIMEOUT_SECONDS")
	envOverride(&c.LogLevel, "WORKLOGGER_LOG_LEVEL")
	envOverride(&c.LogFile, "WORKLOGGER_LOG_FILE")
	envOverrideInt(&c.Voice.MaxSeconds, "RECORDER_MAX_SECONDS")
	envOverride(&c.Voice.AudioDir, "AUDIO_DIR")
}

func envOverride(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// ApplyDefaults fills empty fields. Existing values are kept.
func (c *Config) ApplyDefaults() {
	c.JiraURL = strings.TrimRight(strings.TrimSpace(c.JiraURL), "/")
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel(c.LLM.Provider)
	}
	if c.LLM.OllamaHost == "" {
		c.LLM.OllamaHost = "http://localhost:11434"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.SubmitConcurrency < 1 {
		c.SubmitConcurrency = 1
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(Dir(), "worklogger.log")
	}
	if c.Voice.MaxSeconds <= 0 {
		c.Voice.MaxSeconds = DefaultRecorderMaxSeconds
	}
	if c.Voice.AudioDir == "" {
		c.Voice.AudioDir = filepath.Join(Dir(), "audio_recordings")
	}
	if c.Voice.WhisperModel == "" {
		c.Voice.WhisperModel = DefaultWhisperModel
	}
	if c.Voice.Language == "" {
		c.Voice.Language = "en"
	}
}

func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaModel
	default:
		return DefaultOpenAIModel
	}
}

// Validate reports every missing credential at once as a *MissingError.
func (c *Config) Validate() error {
	var missing []string

	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case ProviderAnthropic:
		if c.LLM.AnthropicAPIKey == "" {
			missing = append(missing, "ANTHROPIC_API_KEY")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown llm provider: %s (supported: openai, gemini, anthropic, ollama)", c.LLM.Provider)
	}

	if c.JiraAPIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if c.JiraUsername == "" {
		missing = append(missing, "JIRA_USERNAME")
	}
	if c.JiraURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}

	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0600)
}
