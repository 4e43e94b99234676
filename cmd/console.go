package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/audiolibrelab/memocapture/internal/permission"
	"github.com/audiolibrelab/memocapture/internal/service"
	"github.com/audiolibrelab/memocapture/internal/session"
	"github.com/audiolibrelab/memocapture/internal/waveform"
)

const consoleWaveWidth = 40

// console drives the controller from headless commands. It prints ticks on
// one line and turns controller events into channels the commands wait on.
type console struct {
	out io.Writer

	mu   sync.Mutex
	wave *waveform.Waveform

	states   chan session.StateChange
	failures chan error
	gaveUp   chan error
}

func newConsole(out io.Writer) *console {
	return &console{
		out:      out,
		wave:     waveform.New(consoleWaveWidth),
		states:   make(chan session.StateChange, 16),
		failures: make(chan error, 16),
		gaveUp:   make(chan error, 1),
	}
}

func (c *console) OnStateChanged(change session.StateChange) {
	c.mu.Lock()
	switch change.To {
	case session.StateRecording:
		c.wave.ClearData()
	case session.StatePlaying:
		c.wave.ClearWave()
	default:
		fmt.Fprintln(c.out)
	}
	c.mu.Unlock()

	c.states <- change
}

func (c *console) OnTick(t session.Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Kind == session.TickSample {
		c.wave.Add(t.Amplitude)
	} else {
		c.wave.Replay()
	}
	fmt.Fprintf(c.out, "\r%s %s %s", t.State, session.FormatElapsed(t.Elapsed), c.wave.Render())
}

// printf writes a status line; ticks write to the same output.
func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) OnFailure(err error) {
	c.failures <- err
}

// giveUp ends the wait for a permission grant with err.
func (c *console) giveUp(err error) {
	select {
	case c.gaveUp <- err:
	default:
	}
}

// consolePrompter wraps the terminal prompter and reports when the
// permission flow ends without a grant.
type consolePrompter struct {
	prompter permission.Prompter
	console  *console
}

func (p *consolePrompter) Confirm(prompt permission.Prompt) (bool, error) {
	ok, err := p.prompter.Confirm(prompt)
	switch {
	case err != nil:
		p.console.giveUp(fmt.Errorf("permission prompt failed: %w", err))
	case !ok && prompt.Kind == permission.PromptRationale:
		p.console.giveUp(session.ErrPermissionDenied)
	}
	return ok, err
}

func (p *consolePrompter) Notify(prompt permission.Prompt) {
	p.prompter.Notify(prompt)
	p.console.giveUp(session.ErrPermissionDenied)
}

// newHeadlessService builds a service whose events are printed to out. Unset
// options fall back to the configured backends and the terminal prompter.
func newHeadlessService(out io.Writer, opts service.Options) (*service.MemoService, *console, error) {
	if opts.LogWriter == nil {
		opts.LogWriter = processLogWriter(os.Stderr)
	}
	if opts.Prompter == nil {
		opts.Prompter = permission.NewTerminalPrompter()
	}

	con := newConsole(out)
	opts.Prompter = &consolePrompter{prompter: opts.Prompter, console: con}
	opts.Observer = con

	svc, err := service.New(cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return svc, con, nil
}

// await waits until the controller enters want. A permission denial is not
// final while the rationale may still be shown.
func (c *console) await(ctx context.Context, want session.State) error {
	for {
		select {
		case change := <-c.states:
			if change.To == want {
				return nil
			}
		case err := <-c.failures:
			if errors.Is(err, session.ErrPermissionDenied) {
				continue
			}
			return err
		case err := <-c.gaveUp:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// awaitIdle waits for the session to end on its own. It reports false when
// ctx ended first.
func (c *console) awaitIdle(ctx context.Context) bool {
	for {
		select {
		case change := <-c.states:
			if change.To == session.StateIdle {
				return true
			}
		case <-ctx.Done():
			return false
		}
	}
}

func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// recordStep records until Ctrl+C or until limit elapsed when limit > 0.
func recordStep(ctx context.Context, svc service.Service, con *console, limit time.Duration) error {
	ctx, stop := interruptContext(ctx)
	defer stop()

	svc.RequestRecordToggle()
	if err := con.await(ctx, session.StateRecording); err != nil {
		svc.Close()
		return fmt.Errorf("recording did not start: %w", err)
	}
	con.printf("Recording to %s - Press Ctrl+C to stop\n", svc.GetConfig().OutputPath())

	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	<-ctx.Done()

	svc.RequestRecordToggle()
	con.awaitIdle(context.Background())
	return nil
}

// playStep plays the memo until it ends or Ctrl+C.
func playStep(ctx context.Context, svc service.Service, con *console) error {
	ctx, stop := interruptContext(ctx)
	defer stop()

	svc.RequestPlay()
	if err := con.await(ctx, session.StatePlaying); err != nil {
		svc.Close()
		return fmt.Errorf("playback did not start: %w", err)
	}
	con.printf("Playing %s - Press Ctrl+C to stop\n", svc.GetConfig().OutputPath())

	if con.awaitIdle(ctx) {
		return nil
	}
	svc.RequestStop()
	con.awaitIdle(context.Background())
	return nil
}
