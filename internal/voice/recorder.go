package voice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// minAudioBytes is the size below which a recording is treated as silence.
const minAudioBytes = 1000

var ErrNoAudio = errors.New("no audio detected or recording too short")

// Recorder captures microphone audio with ALSA's arecord.
type Recorder struct {
	dir        string
	maxSeconds int
	now        func() time.Time
	run        func(ctx context.Context, name string, args ...string) error
}

func NewRecorder(dir string, maxSeconds int) *Recorder {
	return &Recorder{
		dir:        dir,
		maxSeconds: maxSeconds,
		now:        time.Now,
		run:        runQuiet,
	}
}

// runQuiet stops the recorder with SIGINT on cancellation so it can finish
// the WAV header, and kills it if it lingers.
func runQuiet(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 2 * time.Second
	return cmd.Run()
}

func (r *Recorder) MaxSeconds() int {
	return r.maxSeconds
}

// Record captures up to maxSeconds of 16 kHz mono audio and returns the file
// path. A recording that ends early (ctx cancelled or the recorder exits on a
// signal) is still returned if it holds audio.
func (r *Recorder) Record(ctx context.Context) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("create audio directory: %w", err)
	}

	path := filepath.Join(r.dir, "jira_voice_input_"+r.now().Format("20060102_150405")+".wav")

	runErr := r.run(ctx, "arecord",
		"-d", strconv.Itoa(r.maxSeconds),
		"-f", "cd",
		"-r", "16000",
		"-c", "1",
		path,
	)

	info, err := os.Stat(path)
	if err == nil && info.Size() > minAudioBytes {
		return path, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if errors.Is(runErr, exec.ErrNotFound) {
		return "", fmt.Errorf("arecord not found: %w", runErr)
	}
	return "", ErrNoAudio
}
