// Package client provides a transport-agnostic interface for the audit
// module's tenant API and an HTTP/JSON implementation of it.
package client

import (
	"context"

	"github.com/alfredjeanlab/audit/internal/model"
)

// TenantClient is the interface the auditd tenant commands use to drive a
// running server.
type TenantClient interface {
	// InitTenant provisions the tenant with the given attributes.
	InitTenant(ctx context.Context, attrs *model.TenantAttributes) (*model.Result, error)
	// DeleteTenant deprovisions the tenant.
	DeleteTenant(ctx context.Context) (*model.Result, error)
	// TenantExists reports whether the tenant is provisioned.
	TenantExists(ctx context.Context) (bool, error)

	Health(ctx context.Context) (string, error)

	Close() error
}

// Caller identifies the tenant and credentials sent with every tenant call.
type Caller struct {
	Tenant    string
	Token     string
	OkapiURL  string
	RequestID string
}

func (c Caller) headers() map[string]string {
	h := make(map[string]string, 4)
	for name, v := range map[string]string{
		model.HeaderTenant:    c.Tenant,
		model.HeaderToken:     c.Token,
		model.HeaderOkapiURL:  c.OkapiURL,
		model.HeaderRequestID: c.RequestID,
	} {
		if v != "" {
			h[name] = v
		}
	}
	return h
}
