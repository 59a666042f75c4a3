package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLoggerPairsArgs(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Info("row appended", "league", "La Liga", "position", 7)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "row appended", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "La Liga", fields["league"])
	require.EqualValues(t, 7, fields["position"])
}

func TestLoggerNamesErrors(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Warn("fetch failed", "error", errors.New("status=503"))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "status=503", entries[0].ContextMap()["error"])
}

func TestLoggerDanglingKey(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.Info("probe", "round")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].ContextMap(), "round")
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(LevelWarn)

	logger.Debug("noise")
	logger.Info("noise")
	logger.Warn("kept")

	require.Len(t, logs.All(), 1)
}

func TestLoggerContextWithoutSpanAddsNoTraceFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.InfoContext(context.Background(), "run finished", "rounds", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.NotContains(t, fields, "trace_id")
	require.NotContains(t, fields, "span_id")
}

func TestLoggerWithAttachesFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.With("league", "Serie A").Info("section appended")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "Serie A", entries[0].ContextMap()["league"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	require.NoError(t, logger.Sync())
	require.NotNil(t, logger.With("k", "v"))
	require.NotNil(t, logger.Zap())
}
