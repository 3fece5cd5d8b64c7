package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/google/uuid"

	"github.com/dkennetzoracle/corrino-deployment-scripts/pkg/logger"
)

// Options configures an APIClient
type Options struct {
	Server    string        // API base URL
	VerifyTLS bool          // validate server certificates
	Timeout   time.Duration // read/write timeout per request
	UserAgent string
	Logger    *slog.Logger
}

// APIClient wraps Hertz Client for HTTP communication with the deployment API.
// It is unauthenticated; Login returns a Session for everything else.
type APIClient struct {
	client    *client.Client
	server    string
	userAgent string
	logger    *slog.Logger
}

// NewAPIClient creates a new API client
func NewAPIClient(opts Options) (*APIClient, error) {
	normalizedServer, err := normalizeServerURL(opts.Server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c, err := client.NewClient(
		client.WithDialTimeout(10*time.Second),
		client.WithClientReadTimeout(timeout),
		client.WithWriteTimeout(timeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
		client.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: !opts.VerifyTLS, //nolint:gosec // self-signed API certificates are the norm
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	l := opts.Logger
	if l == nil {
		l = slog.Default()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "corrinoctl"
	}

	return &APIClient{
		client:    c,
		server:    normalizedServer,
		userAgent: userAgent,
		logger:    l,
	}, nil
}

// Server returns the normalized base URL
func (c *APIClient) Server() string {
	return c.server
}

// normalizeServerURL ensures the base URL has a scheme and no trailing slash.
// Unlike hosts, a path prefix is kept since the API may be mounted below one.
func normalizeServerURL(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("server URL is empty")
	}
	if !strings.Contains(server, "://") {
		server = "https://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, strings.TrimRight(u.Path, "/")), nil
}

// request describes one HTTP exchange
type request struct {
	method          string
	path            string
	body            []byte
	contentType     string
	headers         map[string]string
	followRedirects bool
}

// do performs a single request. Any HTTP response, whatever its status, is
// returned as a Result; only transport failures produce an error.
func (c *APIClient) do(ctx context.Context, r request) (*Result, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	requestID := uuid.NewString()
	log := logger.WithRequestID(c.logger, requestID).With("method", r.method, "path", r.path)

	req.SetMethod(r.method)
	req.SetRequestURI(c.server + r.path)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}
	if r.contentType != "" {
		req.Header.SetContentTypeBytes([]byte(r.contentType))
	}
	if r.body != nil {
		req.SetBody(r.body)
	}

	start := time.Now()
	var err error
	if r.followRedirects {
		err = c.client.DoRedirects(ctx, req, resp, maxRedirects)
	} else {
		err = c.client.Do(ctx, req, resp)
	}
	if err != nil {
		logger.WithError(log, err).Debug("request failed", "latency", time.Since(start))
		return nil, newTransportError(r.method, r.path, err)
	}

	result := &Result{
		Path:        r.path,
		StatusCode:  resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
	}

	log.Debug("request completed",
		"status", result.StatusCode,
		"content_type", result.ContentType,
		"bytes", len(result.Body),
		"latency", time.Since(start),
	)

	return result, nil
}
