package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLBeforeInitIsNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, L())
	Info("dropped")
}

func TestSetRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Info("upload completed", zap.String("task", "abc"))
	Warn("slow consumer")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "upload completed", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["task"])
}

func TestInitAndSetLevel(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Format: "console", OutputPath: "stderr"}))
	t.Cleanup(func() { Set(nil) })

	assert.False(t, L().Core().Enabled(zap.InfoLevel))
	SetLevel("debug")
	assert.True(t, L().Core().Enabled(zap.DebugLevel))
	SetLevel("not-a-level")
	assert.True(t, L().Core().Enabled(zap.DebugLevel))
}
