package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// CheckMicrophone records five seconds with sox's rec and discards the audio,
// so the user can watch the input levels.
func CheckMicrophone(ctx context.Context, out io.Writer) error {
	if _, err := exec.LookPath("rec"); err != nil {
		return fmt.Errorf("rec not found (install sox): %w", err)
	}

	cmd := exec.CommandContext(ctx, "timeout", "5s", "rec", "-r", "16000", "-c", "1", "/dev/null", "trim", "0", "5")
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		// timeout exits 124 when it had to stop rec, which is the normal end
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 124 {
			return nil
		}
		return fmt.Errorf("microphone test: %w", err)
	}
	return nil
}

// SoundSettingsCommand returns the first available sound settings tool.
func SoundSettingsCommand() (string, []string, bool) {
	candidates := [][]string{
		{"gnome-control-center", "sound"},
		{"pavucontrol"},
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			return c[0], c[1:], true
		}
	}
	return "", nil, false
}
