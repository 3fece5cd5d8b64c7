package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, slog.LevelInfo, "xml", false)
	assert.Error(t, err)
}

func TestHertzSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(&buf, slog.LevelDebug, "json", false)
	require.NoError(t, err)

	adapter := NewHertzSlogAdapter(base)
	adapter.Infof("dial %s", "api.example.com:443")
	assert.Contains(t, buf.String(), `"msg":"dial api.example.com:443"`)
	assert.Contains(t, buf.String(), `"component":"hertz"`)

	buf.Reset()
	adapter.SetLevel(hlog.LevelWarn)
	adapter.CtxDebugf(context.Background(), "dropped")
	adapter.Info("dropped too")
	assert.Empty(t, buf.String())

	adapter.Error("connection reset")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestContextLogger(t *testing.T) {
	l := Discard()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}
