package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/holodule/internal/config"
)

type stubRunner struct {
	err error
	ran bool
}

func (s *stubRunner) Run(context.Context) error {
	s.ran = true
	return s.err
}

// useRunner swaps the application factory for the duration of a test.
func useRunner(t *testing.T, r *stubRunner) *config.Config {
	t.Helper()
	var captured config.Config
	prev := newRunner
	newRunner = func(cfg config.Config, _ *zap.Logger) Runner {
		captured = cfg
		return r
	}
	t.Cleanup(func() { newRunner = prev })
	return &captured
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestRootDefaults(t *testing.T) {
	r := &stubRunner{}
	cfg := useRunner(t, r)

	require.NoError(t, execute())
	assert.True(t, r.ran)
	assert.False(t, cfg.Display.All)
	assert.False(t, cfg.Enrich.Enabled)
	assert.Equal(t, 10, cfg.Enrich.Concurrency)
}

func TestRootShortFlags(t *testing.T) {
	r := &stubRunner{}
	cfg := useRunner(t, r)

	require.NoError(t, execute("-a", "-t"))
	assert.True(t, cfg.Display.All)
	assert.True(t, cfg.Enrich.Enabled)
}

func TestRootLongFlags(t *testing.T) {
	r := &stubRunner{}
	cfg := useRunner(t, r)

	require.NoError(t, execute("--title"))
	assert.False(t, cfg.Display.All)
	assert.True(t, cfg.Enrich.Enabled)
}

// useObservedLogger routes the command's logger into an in-memory core.
func useObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := newLogger
	newLogger = func(bool, string) (*zap.Logger, error) {
		return zap.New(core), nil
	}
	t.Cleanup(func() { newLogger = prev })
	return logs
}

func TestRootPropagatesRunError(t *testing.T) {
	boom := errors.New("fetch schedule page: boom")
	useRunner(t, &stubRunner{err: boom})
	logs := useObservedLogger(t)

	err := execute()
	require.ErrorIs(t, err, boom)
	// Execute prints the error once; the command itself must not log it too.
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRootRejectsUnknownFlagsAndArgs(t *testing.T) {
	r := &stubRunner{}
	useRunner(t, r)

	require.Error(t, execute("--concurrency", "4"))
	require.Error(t, execute("extra"))
	assert.False(t, r.ran)
}
