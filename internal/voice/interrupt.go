package voice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// RecordingPrompt is shown while the microphone is open.
func RecordingPrompt(maxSeconds int) string {
	return fmt.Sprintf("Recording for up to %d seconds, speak now. Press Ctrl+C when you are done.", maxSeconds)
}

// Interrupts routes Ctrl+C. While a guarded recording runs, an interrupt
// ends only that recording; otherwise it cancels the context from
// NotifyContext.
type Interrupts struct {
	mu   sync.Mutex
	stop context.CancelFunc
}

// NotifyContext works like signal.NotifyContext for os.Interrupt.
func (in *Interrupts) NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		for {
			select {
			case <-sigs:
				if !in.Interrupt() {
					cancel()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

// Interrupt stops the running recording and reports whether there was one.
func (in *Interrupts) Interrupt() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.stop == nil {
		return false
	}
	in.stop()
	in.stop = nil
	return true
}

func (in *Interrupts) hold(stop context.CancelFunc) {
	in.mu.Lock()
	in.stop = stop
	in.mu.Unlock()
}

func (in *Interrupts) release() {
	in.mu.Lock()
	in.stop = nil
	in.mu.Unlock()
}

// Guard wraps src so an interrupt during Record ends the recording early
// instead of cancelling the caller's context.
func (in *Interrupts) Guard(src Source) Source {
	return guardedSource{src: src, in: in}
}

type guardedSource struct {
	src Source
	in  *Interrupts
}

func (g guardedSource) Record(ctx context.Context) (string, error) {
	recCtx, stop := context.WithCancel(ctx)
	defer stop()

	g.in.hold(stop)
	defer g.in.release()

	path, err := g.src.Record(recCtx)
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return "", ErrNoAudio
	}
	return path, err
}
