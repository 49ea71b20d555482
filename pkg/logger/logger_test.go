package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	require.Same(t, slog.Default(), FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{in: "debug", want: slog.LevelDebug, wantOK: true},
		{in: "INFO", want: slog.LevelInfo, wantOK: true},
		{in: "", want: slog.LevelInfo, wantOK: true},
		{in: "warn", want: slog.LevelWarn, wantOK: true},
		{in: "error", want: slog.LevelError, wantOK: true},
		{in: "loud", want: slog.LevelInfo, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		require.Equal(t, tt.want, got, tt.in)
		require.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestNew_JSONAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "warn", "json")

	l.Info("dropped")
	require.Zero(t, buf.Len())

	l.Warn("kept", "k", "v")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "kept", rec["msg"])
	require.Equal(t, "v", rec["k"])
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_ = New(&buf, "loud", "text")
	require.Contains(t, buf.String(), "invalid log level configured")
}
