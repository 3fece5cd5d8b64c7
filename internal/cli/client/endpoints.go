package client

// Deployment API endpoints
const (
	endpointLogin             = "/login/"
	endpointDeployment        = "/deployment/" // GET list, POST create
	endpointDeploymentNoSlash = "/deployment"  // POST create fallback
	endpointDeploymentDigests = "/deployment_digests/%s"
	endpointDeploymentLogs    = "/deployment_logs/%s"
	endpointUndeploy          = "/undeploy/"
	endpointUndeployNoSlash   = "/undeploy"
	endpointOCIShapes         = "/oci_shapes/"
	endpointRoot              = "/"
)

const (
	formContentType     = "application/x-www-form-urlencoded"
	jsonContentType     = "application/json"
	authorizationScheme = "Token"
	requestIDHeader     = "X-Request-Id"

	// reads follow at most this many redirects; writes never follow one
	maxRedirects = 10
)

// DefaultProbePaths are the endpoints checked by Probe when none are given
var DefaultProbePaths = []string{endpointOCIShapes, endpointDeployment, endpointRoot}
