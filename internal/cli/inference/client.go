// Package inference streams chat completions from an OpenAI-compatible
// inference server.
package inference

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/types"
)

const endpointChatCompletions = "/v1/chat/completions"

// Request defaults
const (
	DefaultPrompt      = "Oracle oci es un..."
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
	DefaultN           = 1
)

// Options configures a Client
type Options struct {
	VerifyTLS bool
	// DialTimeout bounds connection setup only; the stream itself is not
	// time limited
	DialTimeout time.Duration
	Logger      *slog.Logger
}

// Client talks to one inference host
type Client struct {
	client *client.Client
	url    string
	logger *slog.Logger
}

// NewClient creates a client for host, given as host:port or a full URL.
// A bare host:port is addressed over plain http.
func NewClient(host string, opts Options) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, fmt.Errorf("inference host is required")
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}

	c, err := client.NewClient(
		client.WithDialTimeout(dialTimeout),
		client.WithResponseBodyStream(true),
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: !opts.VerifyTLS, //nolint:gosec // inference hosts commonly serve self-signed certificates
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: c,
		url:    host + endpointChatCompletions,
		logger: logger,
	}, nil
}

// URL returns the completions endpoint
func (c *Client) URL() string {
	return c.url
}

// NewRequest builds a single-turn streaming request with the default
// sampling parameters. An empty prompt uses DefaultPrompt.
func NewRequest(model, prompt string) types.ChatRequest {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return types.ChatRequest{
		Model: model,
		Messages: []types.ChatMessage{
			{Role: "user", Content: prompt},
		},
		Stream:      true,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
		N:           DefaultN,
	}
}

// Stream posts req and returns the text fragments as they arrive. The
// fragment channel is closed when the stream ends; at most one error is
// sent on the error channel, which is closed afterwards. A read blocked on
// a silent server is not interrupted by ctx, so callers select on
// ctx.Done() alongside the channels.
func (c *Client) Stream(ctx context.Context, req types.ChatRequest) (<-chan string, <-chan error, error) {
	if req.Model == "" {
		return nil, nil, fmt.Errorf("model is required")
	}
	req.Stream = true

	bodyBytes, err := sonic.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	release := func() {
		protocol.ReleaseRequest(httpReq)
		protocol.ReleaseResponse(resp)
	}

	httpReq.SetMethod(consts.MethodPost)
	httpReq.SetRequestURI(c.url)
	httpReq.Header.SetContentTypeBytes([]byte("application/json"))
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.SetBody(bodyBytes)

	c.logger.Debug("opening chat stream", "url", c.url, "model", req.Model)

	if err := c.client.Do(ctx, httpReq, resp); err != nil {
		release()
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != consts.StatusOK {
		statusCode := resp.StatusCode()
		body := string(resp.Body())
		release()
		return nil, nil, fmt.Errorf("chat failed with HTTP status: %d, body: %s", statusCode, body)
	}

	fragments := make(chan string, 16)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			close(fragments)
			close(errCh)
			release()
		}()

		bodyStream := resp.BodyStream()
		if bodyStream == nil {
			bodyStream = strings.NewReader(string(resp.Body()))
		}

		err := ParseStream(bodyStream, func(fragment string) bool {
			select {
			case fragments <- fragment:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			errCh <- err
		}
	}()

	return fragments, errCh, nil
}

// Print streams req to w: each fragment is written as soon as it arrives
// and a single newline follows the end of the stream. Print returns as soon
// as ctx is done, even while the server is silent.
func (c *Client) Print(ctx context.Context, req types.ChatRequest, w io.Writer) error {
	fragments, errCh, err := c.Stream(ctx, req)
	if err != nil {
		return err
	}

	for {
		select {
		case fragment, ok := <-fragments:
			if !ok {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return <-errCh
			}
			if _, err := io.WriteString(w, fragment); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		case <-ctx.Done():
			c.logger.Debug("chat stream abandoned", "error", ctx.Err())
			_, _ = io.WriteString(w, "\n")
			return ctx.Err()
		}
	}
}
