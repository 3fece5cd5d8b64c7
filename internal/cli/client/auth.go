package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/credentials"
	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/types"
)

var errNoToken = errors.New("no token in response")

// Session is an authenticated view of the API. Every request it sends
// carries the token obtained at login.
type Session struct {
	*APIClient
	token string
	isNew *bool
}

// Login exchanges credentials for a token. The login response is never
// redirected; anything other than HTTP 200 with a non-empty token fails.
func (c *APIClient) Login(ctx context.Context, creds credentials.Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	result, err := c.do(ctx, request{
		method:      "POST",
		path:        endpointLogin,
		body:        []byte(form.Encode()),
		contentType: formContentType,
	})
	if err != nil {
		return nil, newAuthError(endpointLogin, 0, "", err)
	}

	if result.StatusCode != 200 {
		c.logger.Debug("login rejected", "status", result.StatusCode)
		return nil, newAuthError(endpointLogin, result.StatusCode, result.Text(), ErrUnexpectedStatus)
	}

	var login types.LoginResponse
	if err := sonic.Unmarshal(result.Body, &login); err != nil {
		return nil, newAuthError(endpointLogin, result.StatusCode, result.Text(), ErrMalformedResponse)
	}
	if login.Token == "" {
		return nil, newAuthError(endpointLogin, result.StatusCode, result.Text(), errNoToken)
	}

	c.logger.Info("login succeeded", "server", c.server)

	return &Session{
		APIClient: c,
		token:     login.Token,
		isNew:     login.IsNew,
	}, nil
}

// Token returns the session token
func (s *Session) Token() string {
	return s.token
}

// IsNew reports the server's is_new flag, when it sent one
func (s *Session) IsNew() (isNew bool, ok bool) {
	if s.isNew == nil {
		return false, false
	}
	return *s.isNew, true
}

func (s *Session) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": authorizationScheme + " " + s.token,
		"Content-Type":  jsonContentType,
	}
}
