package types

// LoginResponse is the body returned by POST /login/ on success
type LoginResponse struct {
	Token string `json:"token"`
	IsNew *bool  `json:"is_new,omitempty"` // Only present on some deployments of the API
}
