// Package server exposes the tenant lifecycle over HTTP and serves the
// standard gRPC health service.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/audit/internal/model"
)

// TenantService is the tenant lifecycle the HTTP surface drives.
type TenantService interface {
	Provision(ctx context.Context, attrs *model.TenantAttributes, headers model.Headers) (*model.Result, error)
	Deprovision(ctx context.Context, headers model.Headers) (*model.Result, error)
	Exists(ctx context.Context, headers model.Headers) (bool, error)
}

// TenantServer adapts a TenantService to HTTP.
type TenantServer struct {
	tenants TenantService
	logger  *slog.Logger
}

// NewTenantServer returns a TenantServer backed by tenants.
func NewTenantServer(tenants TenantService, logger *slog.Logger) *TenantServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantServer{tenants: tenants, logger: logger}
}
