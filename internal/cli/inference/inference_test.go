package inference

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

func collect(t *testing.T, input string) []string {
	t.Helper()
	var got []string
	err := ParseStream(strings.NewReader(input), func(fragment string) bool {
		got = append(got, fragment)
		return true
	})
	require.NoError(t, err)
	return got
}

func TestParseStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "chat deltas",
			input: "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\ndata: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\ndata: [DONE]\n",
			want:  []string{"Hel", "lo"},
		},
		{
			name:  "stops at done",
			input: "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: [DONE]\ndata: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n",
			want:  []string{"a"},
		},
		{
			name:  "malformed records are skipped",
			input: "data: {not json\ndata: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n",
			want:  []string{"ok"},
		},
		{
			name:  "comments and blank lines",
			input: ": keep-alive\n\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n",
			want:  []string{"x"},
		},
		{
			name:  "completion style text",
			input: "data: {\"choices\":[{\"text\":\"Kube\"}]}\ndata: {\"choices\":[{\"text\":\"rnetes\"}]}\n",
			want:  []string{"Kube", "rnetes"},
		},
		{
			name:  "empty choices",
			input: "data: {\"choices\":[]}\ndata: {\"id\":\"1\"}\n",
			want:  nil,
		},
		{
			name:  "no space after data prefix",
			input: "data:{\"choices\":[{\"delta\":{\"content\":\"y\"}}]}\n",
			want:  []string{"y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collect(t, tt.input))
		})
	}
}

func TestParseStreamStopsWhenEmitDeclines(t *testing.T) {
	input := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n"

	var got []string
	err := ParseStream(strings.NewReader(input), func(fragment string) bool {
		got = append(got, fragment)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest("llama", "")
	assert.Equal(t, "llama", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, DefaultPrompt, req.Messages[0].Content)
	assert.True(t, req.Stream)
	assert.Equal(t, 1000, req.MaxTokens)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 1.0, req.TopP)
	assert.Equal(t, 1, req.N)
}

func TestNewClientURL(t *testing.T) {
	c, err := NewClient("10.0.0.5:8000", Options{Logger: logger.Discard()})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000/v1/chat/completions", c.URL())

	c, err = NewClient("https://vllm.example.com/", Options{Logger: logger.Discard()})
	require.NoError(t, err)
	assert.Equal(t, "https://vllm.example.com/v1/chat/completions", c.URL())

	_, err = NewClient(" ", Options{})
	assert.Error(t, err)
}

func TestPrint(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != endpointChatCompletions || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		received, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n")
	}))
	defer srv.Close()

	c, err := NewClient(strings.TrimPrefix(srv.URL, "http://"), Options{Logger: logger.Discard()})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, c.Print(context.Background(), NewRequest("llama", ""), &out))
	assert.Equal(t, "Hi\n", out.String())

	assert.Equal(t, "llama", gjson.GetBytes(received, "model").String())
	assert.True(t, gjson.GetBytes(received, "stream").Bool())
	assert.Equal(t, DefaultPrompt, gjson.GetBytes(received, "messages.0.content").String())
	assert.Equal(t, int64(1000), gjson.GetBytes(received, "max_tokens").Int())
}

func TestPrintReturnsWhenContextEndsOnSilentStream(t *testing.T) {
	unblock := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(unblock)

	c, err := NewClient(srv.URL, Options{Logger: logger.Discard()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- c.Print(ctx, NewRequest("llama", ""), &out)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, "Hi\n", out.String())
	case <-time.After(5 * time.Second):
		t.Fatal("Print did not return after the context ended")
	}
}

func TestPrintServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, Options{Logger: logger.Discard()})
	require.NoError(t, err)

	var out bytes.Buffer
	err = c.Print(context.Background(), NewRequest("llama", "hello"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Empty(t, out.String())
}
