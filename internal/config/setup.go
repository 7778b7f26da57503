package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

func ProviderOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("OpenAI", ProviderOpenAI),
		huh.NewOption("Google Gemini", ProviderGemini),
		huh.NewOption("Anthropic Claude", ProviderAnthropic),
		huh.NewOption("Ollama (local)", ProviderOllama),
	}
}

func validateURL(s string) error {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// RunSetup walks the user through an interactive form and saves the result.
func RunSetup() (*Config, error) {
	var existing Config
	if cfg, err := LoadFromFile(Path()); err == nil {
		existing = *cfg
	}
	if existing.LLM.Provider == "" {
		existing.LLM.Provider = ProviderOpenAI
	}

	cfg := existing

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Jira URL").
				Placeholder("https://your-org.atlassian.net").
				Value(&cfg.JiraURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Jira Username").
				Placeholder("you@company.com").
				Value(&cfg.JiraUsername).
				Validate(notEmpty),
			huh.NewInput().
				Title("Jira API Token").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.JiraAPIToken).
				Validate(notEmpty),
		).Title("Jira Connection"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language model provider").
				Options(ProviderOptions()...).
				Value(&cfg.LLM.Provider),
			huh.NewInput().
				Title("Model").
				Description("Leave empty for the provider default").
				Value(&cfg.LLM.Model),
		).Title("AI Model"),

		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API Key").
				Description("Used for OpenAI extraction and voice transcription").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.LLM.OpenAIAPIKey),
			huh.NewInput().
				Title("Gemini API Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.LLM.GeminiAPIKey),
			huh.NewInput().
				Title("Anthropic API Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.LLM.AnthropicAPIKey),
		).Title("API Keys"),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	cfg.JiraURL = strings.TrimRight(cfg.JiraURL, "/")

	if err := Save(&cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfig saved to %s\n", Path())

	return Load()
}
