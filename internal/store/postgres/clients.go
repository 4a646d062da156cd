package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/store"
)

var tablePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Clients implements store.ClientFactory. It keeps one connection pool per
// tenant, bound to the tenant's schema.
type Clients struct {
	databaseURL string
	open        func(dsn string) (*sql.DB, error)

	mu      sync.Mutex
	clients map[string]*TenantClient
}

// Compile-time check that Clients implements store.ClientFactory.
var _ store.ClientFactory = (*Clients)(nil)

// NewClients returns a factory opening tenant pools against databaseURL.
func NewClients(databaseURL string) *Clients {
	return &Clients{
		databaseURL: databaseURL,
		open:        openTenantDB,
		clients:     make(map[string]*TenantClient),
	}
}

func openTenantDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// InstanceFor returns the tenant's client, opening its pool on first use.
func (c *Clients) InstanceFor(tenantID string) (store.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tc, ok := c.clients[tenantID]; ok {
		return tc, nil
	}
	schema := SchemaName(tenantID)
	dsn, err := withSearchPath(c.databaseURL, schema)
	if err != nil {
		return nil, err
	}
	db, err := c.open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open tenant database %s: %w", tenantID, err)
	}
	tc := &TenantClient{db: db, schema: schema}
	c.clients[tenantID] = tc
	return tc, nil
}

func (c *Clients) CloseClient(tenantID string) error {
	c.mu.Lock()
	tc, ok := c.clients[tenantID]
	delete(c.clients, tenantID)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	return tc.Close()
}

// Close closes every open tenant pool.
func (c *Clients) Close() error {
	c.mu.Lock()
	open := c.clients
	c.clients = make(map[string]*TenantClient)
	c.mu.Unlock()

	var firstErr error
	for tenantID, tc := range open {
		if err := tc.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close tenant %s: %w", tenantID, err)
		}
	}
	return firstErr
}

// TenantClient implements store.Client for one tenant schema.
type TenantClient struct {
	db     *sql.DB
	schema string
}

// Compile-time check that TenantClient implements store.Client.
var _ store.Client = (*TenantClient)(nil)

// Save inserts record as a new row. Every call gets a fresh row id, which
// is also written into the stored document; the caller's record is left
// untouched.
func (tc *TenantClient) Save(ctx context.Context, table string, record *model.LogRecord) error {
	if !tablePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	rec := *record
	rec.ID = uuid.NewString()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = tc.db.ExecContext(ctx,
		`INSERT INTO `+pq.QuoteIdentifier(tc.schema)+`.`+pq.QuoteIdentifier(table)+` (id, jsonb) VALUES ($1, $2)`,
		rec.ID, data,
	)
	return err
}

func (tc *TenantClient) Close() error {
	return tc.db.Close()
}
