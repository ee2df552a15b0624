package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNew(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	assert.NotZero(t, New())
	assert.True(t, NewLogr().GetSink() != nil)
	assert.True(t, NewSlog(slog.LevelDebug).Enabled(context.Background(), slog.LevelDebug))
}

func TestNewInKubernetes(t *testing.T) {
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")
	log := NewSlog(slog.LevelInfo)
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
	_, isJSON := log.Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)
}
