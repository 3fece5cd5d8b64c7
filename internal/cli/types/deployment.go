package types

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Fields the API is known to return on a deployment record. None of them
// is guaranteed to be present.
const (
	FieldMode                = "mode"
	FieldDeploymentName      = "deployment_name"
	FieldDeploymentUUID      = "deployment_uuid"
	FieldCreationDate        = "creation_date"
	FieldDeploymentStatus    = "deployment_status"
	FieldDeploymentDirective = "deployment_directive"
	FieldRecipeID            = "recipe_id"
	FieldRecipeMode          = "recipe_mode"
	FieldRecipeNodeShape     = "recipe_node_shape"
	FieldDeploymentHash      = "deployment_hash"
)

// DeploymentRecord is one opaque deployment object returned by the list endpoint
type DeploymentRecord struct {
	raw gjson.Result
}

// ParseDeploymentRecords parses a list response body into records
func ParseDeploymentRecords(body []byte) ([]DeploymentRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of deployments, got %s", result.Type)
	}

	elements := result.Array()
	records := make([]DeploymentRecord, 0, len(elements))
	for _, element := range elements {
		records = append(records, DeploymentRecord{raw: element})
	}
	return records, nil
}

// NewDeploymentRecord wraps a raw JSON object
func NewDeploymentRecord(raw string) DeploymentRecord {
	return DeploymentRecord{raw: gjson.Parse(raw)}
}

// Get returns the field rendered as text and whether it was present.
// A JSON null counts as absent.
func (r DeploymentRecord) Get(field string) (string, bool) {
	if !r.raw.IsObject() {
		return "", false
	}
	value := r.raw.Get(gjson.Escape(field))
	if !value.Exists() || value.Type == gjson.Null {
		return "", false
	}
	return value.String(), true
}

// GetOr returns the field or placeholder when it is absent
func (r DeploymentRecord) GetOr(field, placeholder string) string {
	if value, ok := r.Get(field); ok {
		return value
	}
	return placeholder
}

// Raw returns the record as received
func (r DeploymentRecord) Raw() string {
	return r.raw.Raw
}

// UndeployRequest is the body of POST /undeploy/
type UndeployRequest struct {
	DeploymentUUID string `json:"deployment_uuid"`
}
