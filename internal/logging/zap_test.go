package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core)).With("store", "recipes")

	ctx := context.Background()
	l.Debug(ctx, "noop", "id", "r1")
	l.Warn(ctx, "persist failed", "error", "disk full")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, "noop", entries[0].Message)
	require.Equal(t, "recipes", entries[0].ContextMap()["store"])
	require.Equal(t, "r1", entries[0].ContextMap()["id"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
