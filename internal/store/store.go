package store

import (
	"context"

	"github.com/alfredjeanlab/audit/internal/model"
)

// LogsTableName is the table circulation log records are stored in.
const LogsTableName = "circulation_logs"

// Client is a persistence client bound to a single tenant.
type Client interface {
	// Save inserts record into table. A record without an id is assigned one.
	Save(ctx context.Context, table string, record *model.LogRecord) error
	Close() error
}

// ClientFactory hands out per-tenant clients. Clients are shared between
// callers and owned by the factory.
type ClientFactory interface {
	InstanceFor(tenantID string) (Client, error)
	// CloseClient closes and forgets the tenant's client. Closing a tenant
	// without an open client is a no-op.
	CloseClient(tenantID string) error
}

// SchemaManager creates and removes the per-tenant database objects.
type SchemaManager interface {
	// Init creates or upgrades the tenant schema. It returns 201 for a new
	// schema and 200 for an upgrade of an existing one.
	Init(ctx context.Context, tenantID string, attrs *model.TenantAttributes) (*model.Result, error)
	// Teardown drops the tenant schema and returns 204.
	Teardown(ctx context.Context, tenantID string) (*model.Result, error)
	// Exists reports whether the tenant schema exists.
	Exists(ctx context.Context, tenantID string) (bool, error)
}
