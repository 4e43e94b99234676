package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolibrelab/memocapture/internal/session"
)

func TestConsole_AwaitState(t *testing.T) {
	con := newConsole(&bytes.Buffer{})

	con.OnFailure(session.ErrPermissionDenied)
	con.OnStateChanged(session.StateChange{From: session.StateIdle, To: session.StateRecording})

	assert.NoError(t, con.await(context.Background(), session.StateRecording))
}

func TestConsole_AwaitBackendFailure(t *testing.T) {
	con := newConsole(&bytes.Buffer{})
	openErr := &session.BackendOpenError{Op: "capture", Path: "/tmp/memo.wav", Err: errors.New("busy")}

	con.OnFailure(openErr)

	err := con.await(context.Background(), session.StateRecording)
	assert.ErrorIs(t, err, openErr)
}

func TestConsole_AwaitGaveUp(t *testing.T) {
	con := newConsole(&bytes.Buffer{})

	con.OnFailure(session.ErrPermissionDenied)
	con.giveUp(session.ErrPermissionDenied)
	con.giveUp(errors.New("second reason is dropped"))

	err := con.await(context.Background(), session.StateRecording)
	assert.ErrorIs(t, err, session.ErrPermissionDenied)
}

func TestConsole_AwaitCancelled(t *testing.T) {
	con := newConsole(&bytes.Buffer{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := con.await(ctx, session.StatePlaying)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, con.awaitIdle(ctx))
}

func TestConsole_TicksDrawOneLine(t *testing.T) {
	out := &bytes.Buffer{}
	con := newConsole(out)

	con.OnStateChanged(session.StateChange{From: session.StateIdle, To: session.StateRecording})
	con.OnTick(session.Tick{Elapsed: 1500 * time.Millisecond, State: session.StateRecording, Kind: session.TickSample, Amplitude: 32767})
	con.OnStateChanged(session.StateChange{From: session.StateRecording, To: session.StateIdle})

	require.True(t, con.awaitIdle(context.Background()))
	assert.Contains(t, out.String(), "\rrecording 00:01.50 █")
	assert.Equal(t, 1, con.wave.Len())
}
