package model

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// Header names carried by platform-internal calls.
const (
	HeaderTenant    = "X-Okapi-Tenant"
	HeaderToken     = "X-Okapi-Token"
	HeaderOkapiURL  = "X-Okapi-Url"
	HeaderUserID    = "X-Okapi-User-Id"
	HeaderRequestID = "X-Okapi-Request-Id"
)

var (
	// ErrMissingTenant is returned when the caller context carries no tenant header.
	ErrMissingTenant = errors.New("missing " + HeaderTenant + " header")
	// ErrInvalidTenant is returned when the tenant header is not a usable schema prefix.
	ErrInvalidTenant = errors.New("invalid tenant identifier")
)

var tenantPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Parameter is a single key/value entry of a tenant request.
type Parameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TenantAttributes is the payload of a tenant provisioning request.
type TenantAttributes struct {
	ModuleFrom string      `json:"module_from,omitempty"`
	ModuleTo   string      `json:"module_to,omitempty"`
	Purge      bool        `json:"purge,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
}

// Headers is the caller context of a platform call: header name to value.
// Lookups are case-insensitive on the name.
type Headers map[string]string

// HeadersFromHTTP flattens an http.Header, keeping the first value of each key.
func HeadersFromHTTP(h http.Header) Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[http.CanonicalHeaderKey(k)] = v[0]
		}
	}
	return out
}

// Get returns the value of the named header, or "" when absent.
func (h Headers) Get(name string) string {
	if v, ok := h[name]; ok {
		return v
	}
	if v, ok := h[http.CanonicalHeaderKey(name)]; ok {
		return v
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func (h Headers) Token() string    { return h.Get(HeaderToken) }
func (h Headers) OkapiURL() string { return h.Get(HeaderOkapiURL) }

// TenantID derives the tenant identifier from the tenant header.
// The identifier is lowercased and must be usable as a schema name prefix.
func (h Headers) TenantID() (string, error) {
	raw := strings.TrimSpace(h.Get(HeaderTenant))
	if raw == "" {
		return "", ErrMissingTenant
	}
	id := strings.ToLower(raw)
	if !tenantPattern.MatchString(id) {
		return "", ErrInvalidTenant
	}
	return id, nil
}
