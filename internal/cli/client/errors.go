package client

import (
	"errors"
	"fmt"
	"strings"
)

// Failure causes a caller can test for with errors.Is
var (
	// ErrTransport the request never produced an HTTP response
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatus the server answered with a status the operation does not accept
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse the body could not be parsed
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNotAuthenticated login did not yield a token
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound the server answered 404
	ErrNotFound = errors.New("not found")
	// ErrForbidden the server answered 403
	ErrForbidden = errors.New("access denied")
	// ErrCandidatesExhausted every candidate path of a write failed
	ErrCandidatesExhausted = errors.New("no candidate endpoint accepted the request")
)

// Error codes carried by RequestError
const (
	CodeTransport           = "TRANSPORT"
	CodeUnexpectedStatus    = "UNEXPECTED_STATUS"
	CodeMalformedResponse   = "MALFORMED_RESPONSE"
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeCandidatesExhausted = "CANDIDATES_EXHAUSTED"
)

// RequestError describes a failed API operation
type RequestError struct {
	Code       string
	Method     string
	Path       string
	StatusCode int       // 0 when no response was received
	Body       string    // response body, when there was one
	Attempts   []Attempt // set for multi-candidate writes
	Err        error
}

// Error implements error
func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Method, e.Path, e.Err)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if len(e.Attempts) > 0 {
		parts := make([]string, 0, len(e.Attempts))
		for _, a := range e.Attempts {
			parts = append(parts, a.String())
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, "; "))
	}
	return b.String()
}

// Unwrap returns the wrapped cause
func (e *RequestError) Unwrap() error {
	return e.Err
}

func newTransportError(method, path string, err error) error {
	return &RequestError{
		Code:   CodeTransport,
		Method: method,
		Path:   path,
		Err:    fmt.Errorf("%w: %v", ErrTransport, err),
	}
}

// newStatusError classifies a non-success status returned by a read
func newStatusError(method, path string, status int, body string) error {
	e := &RequestError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
	}
	switch status {
	case 404:
		e.Code, e.Err = CodeNotFound, ErrNotFound
	case 403:
		e.Code, e.Err = CodeForbidden, ErrForbidden
	default:
		e.Code, e.Err = CodeUnexpectedStatus, ErrUnexpectedStatus
	}
	return e
}

func newMalformedError(method, path string, status int, body string, err error) error {
	return &RequestError{
		Code:       CodeMalformedResponse,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
		Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
	}
}

// newAuthError wraps the cause of a failed login so both ErrNotAuthenticated
// and the underlying cause match errors.Is
func newAuthError(path string, status int, body string, cause error) error {
	return &RequestError{
		Code:       CodeNotAuthenticated,
		Method:     "POST",
		Path:       path,
		StatusCode: status,
		Body:       body,
		Err:        fmt.Errorf("%w: %w", ErrNotAuthenticated, cause),
	}
}

// IsTransport reports whether no HTTP response was received
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNotAuthenticated reports whether login failed
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsNotFound reports whether the server answered 404
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden reports whether the server answered 403
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsCandidatesExhausted reports whether every candidate of a write failed
func IsCandidatesExhausted(err error) bool {
	return errors.Is(err, ErrCandidatesExhausted)
}

// AsRequestError extracts the RequestError from err, if any
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
