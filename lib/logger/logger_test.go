package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

type recordingHandler struct {
	records *[]slog.Record
	enabled bool
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return h.enabled }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFanoutDeliversToAllEnabledHandlers(t *testing.T) {
	var a, b, c []slog.Record
	h := fanoutHandler{
		recordingHandler{&a, true},
		recordingHandler{&b, true},
		recordingHandler{&c, false},
	}

	log := slog.New(h)
	log.Info("one")
	log.Info("two")

	require.Len(t, a, 2)
	require.Len(t, b, 2)
	require.Empty(t, c)
}

func TestFanoutEnabledWhenAnyHandlerIs(t *testing.T) {
	var a []slog.Record
	require.True(t, fanoutHandler{recordingHandler{&a, false}, recordingHandler{&a, true}}.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, fanoutHandler{recordingHandler{&a, false}}.Enabled(context.Background(), slog.LevelInfo))
}
