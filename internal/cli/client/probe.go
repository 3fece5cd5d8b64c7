package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ProbeResult is the outcome of probing one endpoint
type ProbeResult struct {
	Path        string
	StatusCode  int
	ContentType string
	Summary     string
	Body        string
	Err         error
}

// OK reports whether the endpoint answered 200
func (p ProbeResult) OK() bool {
	return p.Err == nil && p.StatusCode == 200
}

// Probe issues an authenticated GET to each path in order and reports what
// came back. A failing path is recorded and probing moves on.
func (s *Session) Probe(ctx context.Context, paths []string) []ProbeResult {
	if len(paths) == 0 {
		paths = DefaultProbePaths
	}

	results := make([]ProbeResult, 0, len(paths))
	for _, path := range paths {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		result, err := s.do(ctx, request{
			method:          "GET",
			path:            path,
			headers:         s.authHeaders(),
			followRedirects: true,
		})
		if err != nil {
			s.logger.Debug("probe failed", "path", path, "error", err)
			results = append(results, ProbeResult{Path: path, Err: err})
			continue
		}

		results = append(results, ProbeResult{
			Path:        path,
			StatusCode:  result.StatusCode,
			ContentType: result.ContentType,
			Summary:     summarize(result),
			Body:        result.Text(),
		})
	}
	return results
}

// summarize describes a probe body: item count for arrays, key list for
// objects, the raw text otherwise
func summarize(result *Result) string {
	if !result.IsJSONContent() || !gjson.ValidBytes(result.Body) {
		return result.Text()
	}

	parsed := gjson.ParseBytes(result.Body)
	switch {
	case parsed.IsArray():
		return fmt.Sprintf("list with %d items", len(parsed.Array()))
	case parsed.IsObject():
		var keys []string
		parsed.ForEach(func(key, _ gjson.Result) bool {
			keys = append(keys, key.String())
			return true
		})
		return "keys: " + strings.Join(keys, ", ")
	default:
		return parsed.String()
	}
}
