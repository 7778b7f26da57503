package cli

import (
	"fmt"
	"os/exec"
	"strings"

	"go-worklogger/internal/config"
	"go-worklogger/internal/ui"
	"go-worklogger/internal/voice"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.runner.Run(cmd.Context(), ui.NewLineReader()); err != nil {
		return err
	}
	ui.PrintFarewell()
	return nil
}

var logCmd = &cobra.Command{
	Use:   "log <description...>",
	Short: "Log work from a single description",
	Example: `  worklogger log "I spent 2h on PROJ-123 fixing bugs yesterday"
  worklogger log 30m on ABC-7 code review`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.runner.Process(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return failures(report)
	},
}

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Record a spoken description and log it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		pterm.Info.Println(voice.RecordingPrompt(a.recorder.MaxSeconds()))
		text, err := a.capture.Listen(cmd.Context())
		if err != nil {
			return err
		}
		pterm.Println(pterm.Gray("Transcript: " + text))

		report, err := a.runner.Process(cmd.Context(), text)
		if err != nil {
			return err
		}
		return failures(report)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Run the interactive setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunSetup()
		return err
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Jira URL and credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(false)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		spinner, _ := pterm.DefaultSpinner.Start("Connecting to " + cfg.JiraURL + "...")
		me, err := a.jira.Myself(cmd.Context())
		if err != nil {
			spinner.Fail("Jira check failed")
			return err
		}
		spinner.Success("Authenticated as " + me.DisplayName)
		return nil
	},
}

var micTestCmd = &cobra.Command{
	Use:   "mic-test",
	Short: "Record five seconds to check the microphone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Info.Println("Testing microphone for 5 seconds, speak now...")
		if err := voice.CheckMicrophone(cmd.Context(), cmd.OutOrStdout()); err != nil {
			return err
		}
		pterm.Success.Println("Microphone test finished.")

		name, settingsArgs, ok := voice.SoundSettingsCommand()
		if !ok {
			return nil
		}
		if (ui.Prompter{}).Confirm("Open sound settings?") {
			if err := exec.Command(name, settingsArgs...).Start(); err != nil {
				return fmt.Errorf("open sound settings: %w", err)
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "worklogger version", Version)
	},
}
