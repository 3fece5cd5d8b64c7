package client

import (
	"context"
	"slices"
)

// WritePolicy describes a mutating request that may be sent to several
// equivalent paths. Candidates are tried in order; the first response whose
// status is in SuccessStatuses ends the loop. A 301 is never followed.
type WritePolicy struct {
	Candidates      []string
	SuccessStatuses []int
}

// DeploymentPolicy is used to create deployments
func DeploymentPolicy() WritePolicy {
	return WritePolicy{
		Candidates:      []string{endpointDeployment, endpointDeploymentNoSlash},
		SuccessStatuses: []int{200, 201, 202},
	}
}

// UndeployPolicy is used to remove deployments. With fallback the path
// without trailing slash is tried after the canonical one.
func UndeployPolicy(fallback bool) WritePolicy {
	candidates := []string{endpointUndeploy}
	if fallback {
		candidates = append(candidates, endpointUndeployNoSlash)
	}
	return WritePolicy{
		Candidates:      candidates,
		SuccessStatuses: []int{200},
	}
}

func (p WritePolicy) classify(status int) Outcome {
	switch {
	case slices.Contains(p.SuccessStatuses, status):
		return OutcomeSuccess
	case status == 301:
		return OutcomeMoved
	default:
		return OutcomeRejected
	}
}

// postCandidates sends body to each candidate path until one succeeds
func (s *Session) postCandidates(ctx context.Context, policy WritePolicy, body []byte) (*Result, error) {
	attempts := make([]Attempt, 0, len(policy.Candidates))

	for _, path := range policy.Candidates {
		result, err := s.do(ctx, request{
			method:      "POST",
			path:        path,
			body:        body,
			contentType: jsonContentType,
			headers:     s.authHeaders(),
		})
		if err != nil {
			attempts = append(attempts, Attempt{Path: path, Outcome: OutcomeTransportError, Err: err})
			s.logger.Warn("request failed, trying next endpoint", "path", path, "error", err)
			continue
		}

		outcome := policy.classify(result.StatusCode)
		attempts = append(attempts, Attempt{
			Path:       path,
			Outcome:    outcome,
			StatusCode: result.StatusCode,
			Body:       result.Text(),
		})

		if outcome == OutcomeSuccess {
			result.Attempts = attempts
			return result, nil
		}
		s.logger.Debug("endpoint did not accept request", "path", path, "status", result.StatusCode, "outcome", outcome.String())
	}

	e := &RequestError{
		Code:     CodeCandidatesExhausted,
		Method:   "POST",
		Attempts: attempts,
		Err:      ErrCandidatesExhausted,
	}
	if n := len(attempts); n > 0 {
		last := attempts[n-1]
		e.Path, e.StatusCode, e.Body = last.Path, last.StatusCode, last.Body
	}
	return nil, e
}
