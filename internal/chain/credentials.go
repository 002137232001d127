package chain

import (
	"encoding/base64"
	"errors"
)

// ErrMissingCredentials is returned before any I/O when an operation
// needs network access and no project configuration was resolved.
var ErrMissingCredentials = errors.New("missing Infura credentials")

// Credentials carry the host-resolved Infura project configuration.
// They are read-only to this service and never logged.
type Credentials struct {
	ProjectID     string `json:"projectId"`
	ProjectSecret string `json:"projectSecret"`
}

// Validate checks that the credentials can address an endpoint.
func (c Credentials) Validate() error {
	if c.ProjectID == "" {
		return ErrMissingCredentials
	}
	return nil
}

// BasicAuthHeader returns the Authorization header value for the project
// secret: HTTP basic auth with an empty username. Empty when no secret is
// configured.
func (c Credentials) BasicAuthHeader() string {
	if c.ProjectSecret == "" {
		return ""
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+c.ProjectSecret))
}
