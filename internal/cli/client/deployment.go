package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/dkennetzoracle/corrino-deployment-scripts/internal/cli/types"
)

// InfoKind selects which per-deployment view DeploymentInfo fetches
type InfoKind string

const (
	InfoDigests InfoKind = "digests"
	InfoLogs    InfoKind = "logs"
)

// ParseInfoKind validates an --endpoint value
func ParseInfoKind(s string) (InfoKind, error) {
	switch kind := InfoKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case InfoDigests, InfoLogs:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid endpoint %q: must be %q or %q", s, InfoDigests, InfoLogs)
	}
}

// Path returns the API path for deployment id
func (k InfoKind) Path(id string) string {
	if k == InfoLogs {
		return fmt.Sprintf(endpointDeploymentLogs, url.PathEscape(id))
	}
	return fmt.Sprintf(endpointDeploymentDigests, url.PathEscape(id))
}

// PostDeployment submits a deployment descriptor. payload must be a JSON
// document; it is sent unchanged.
func (s *Session) PostDeployment(ctx context.Context, payload []byte) (*Result, error) {
	if !sonic.Valid(payload) {
		return nil, fmt.Errorf("deployment payload is not valid JSON")
	}

	result, err := s.postCandidates(ctx, DeploymentPolicy(), payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("deployment submitted", "path", result.Path, "status", result.StatusCode)
	return result, nil
}

// read issues an authenticated GET, following redirects, and classifies
// every status but 200 as a failure
func (s *Session) read(ctx context.Context, path string) (*Result, error) {
	result, err := s.do(ctx, request{
		method:          "GET",
		path:            path,
		headers:         s.authHeaders(),
		followRedirects: true,
	})
	if err != nil {
		return nil, err
	}
	if result.StatusCode != 200 {
		return nil, newStatusError("GET", path, result.StatusCode, result.Text())
	}
	return result, nil
}

// ListDeployments returns every deployment visible to the session
func (s *Session) ListDeployments(ctx context.Context) ([]types.DeploymentRecord, error) {
	result, err := s.read(ctx, endpointDeployment)
	if err != nil {
		return nil, err
	}

	records, err := types.ParseDeploymentRecords(result.Body)
	if err != nil {
		return nil, newMalformedError("GET", endpointDeployment, result.StatusCode, result.Text(), err)
	}
	return records, nil
}

// DeploymentInfo fetches the digests or logs of one deployment
func (s *Session) DeploymentInfo(ctx context.Context, kind InfoKind, id string) (*Result, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("deployment hash is required")
	}
	return s.read(ctx, kind.Path(id))
}

// Undeploy asks the API to remove deployment id
func (s *Session) Undeploy(ctx context.Context, id string, policy WritePolicy) (*Result, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("deployment uuid is required")
	}

	payload, err := sonic.Marshal(types.UndeployRequest{DeploymentUUID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to encode undeploy request: %w", err)
	}

	result, err := s.postCandidates(ctx, policy, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("undeploy accepted", "deployment_uuid", id, "path", result.Path)
	return result, nil
}
