package client

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Result is a received HTTP response
type Result struct {
	Path        string
	StatusCode  int
	ContentType string
	Body        []byte
	Attempts    []Attempt // every candidate tried, for multi-candidate writes
}

// IsJSONContent reports whether the server labelled the body as JSON
func (r *Result) IsJSONContent() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "json")
}

// JSON parses the body. ok is false when the body is not valid JSON.
func (r *Result) JSON() (value interface{}, ok bool) {
	if len(r.Body) == 0 {
		return nil, false
	}
	if err := sonic.Unmarshal(r.Body, &value); err != nil {
		return nil, false
	}
	return value, true
}

// Text returns the body as a string
func (r *Result) Text() string {
	return string(r.Body)
}

// Outcome classifies a single candidate attempt
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeMoved the server answered 301; the next candidate is tried
	OutcomeMoved
	// OutcomeRejected any other non-success status
	OutcomeRejected
	// OutcomeTransportError no response was received
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeMoved:
		return "moved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTransportError:
		return "transport error"
	default:
		return "unknown"
	}
}

// Attempt records one candidate path tried by a write
type Attempt struct {
	Path       string
	Outcome    Outcome
	StatusCode int
	Body       string
	Err        error
}

func (a Attempt) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s: %v", a.Path, a.Err)
	}
	return fmt.Sprintf("%s: HTTP %d", a.Path, a.StatusCode)
}
