package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core)).With("module", "ledger")
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "transfer", "from", "juan.123", "to", "ana.55")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "transfer", entries[1].Message)

	fields := entries[1].ContextMap()
	assert.Equal(t, "ledger", fields["module"])
	assert.Equal(t, "juan.123", fields["from"])
	assert.Equal(t, "ana.55", fields["to"])
}
