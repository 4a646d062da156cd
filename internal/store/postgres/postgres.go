// Package postgres implements tenant schema management and per-tenant
// persistence clients backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const schemaSuffix = "_mod_audit"

// SchemaName returns the database schema holding the tenant's tables.
func SchemaName(tenantID string) string {
	return tenantID + schemaSuffix
}

// migrateFunc applies the embedded migrations inside schema.
type migrateFunc func(ctx context.Context, databaseURL, schema string) error

// Manager implements store.SchemaManager.
type Manager struct {
	db          *sql.DB
	databaseURL string
	migrate     migrateFunc
	logger      *slog.Logger
}

// Compile-time check that Manager implements store.SchemaManager.
var _ store.SchemaManager = (*Manager)(nil)

// New opens the administrative connection to the PostgreSQL database at the
// given URL and returns a schema manager using it.
func New(databaseURL string, logger *slog.Logger) (*Manager, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return newManager(db, databaseURL, logger), nil
}

func newManager(db *sql.DB, databaseURL string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		db:          db,
		databaseURL: databaseURL,
		migrate:     migrateSchema,
		logger:      logger,
	}
}

// Close closes the administrative connection.
func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) Exists(ctx context.Context, tenantID string) (bool, error) {
	var exists bool
	err := m.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		SchemaName(tenantID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check schema: %w", err)
	}
	return exists, nil
}

// initResponse is the body returned by a successful Init.
type initResponse struct {
	Tenant     string `json:"tenant"`
	Schema     string `json:"schema"`
	ModuleFrom string `json:"module_from,omitempty"`
	ModuleTo   string `json:"module_to,omitempty"`
	Upgrade    bool   `json:"upgrade"`
}

func (m *Manager) Init(ctx context.Context, tenantID string, attrs *model.TenantAttributes) (*model.Result, error) {
	if attrs == nil {
		attrs = &model.TenantAttributes{}
	}
	if isDowngrade(attrs.ModuleFrom, attrs.ModuleTo) {
		return model.TextResult(400, fmt.Sprintf("cannot downgrade from %s to %s", attrs.ModuleFrom, attrs.ModuleTo)), nil
	}

	schema := SchemaName(tenantID)
	existed, err := m.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, err := m.db.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS `+pq.QuoteIdentifier(schema)); err != nil {
		return nil, fmt.Errorf("create schema %s: %w", schema, err)
	}
	if err := m.migrate(ctx, m.databaseURL, schema); err != nil {
		return nil, fmt.Errorf("migrate schema %s: %w", schema, err)
	}
	m.logger.Info("tenant schema ready", "tenant", tenantID, "schema", schema, "upgrade", existed)

	body, err := json.Marshal(initResponse{
		Tenant:     tenantID,
		Schema:     schema,
		ModuleFrom: attrs.ModuleFrom,
		ModuleTo:   attrs.ModuleTo,
		Upgrade:    existed,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal init response: %w", err)
	}
	status := 201
	if existed {
		status = 200
	}
	return &model.Result{Status: status, ContentType: model.ContentTypeJSON, Body: body}, nil
}

func (m *Manager) Teardown(ctx context.Context, tenantID string) (*model.Result, error) {
	exists, err := m.Exists(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return model.TextResult(400, "tenant does not exist: "+tenantID), nil
	}
	schema := SchemaName(tenantID)
	if _, err := m.db.ExecContext(ctx, `DROP SCHEMA IF EXISTS `+pq.QuoteIdentifier(schema)+` CASCADE`); err != nil {
		return nil, fmt.Errorf("drop schema %s: %w", schema, err)
	}
	m.logger.Info("tenant schema dropped", "tenant", tenantID, "schema", schema)
	return &model.Result{Status: 204}, nil
}

func migrateSchema(ctx context.Context, databaseURL, schema string) error {
	dsn, err := withSearchPath(databaseURL, schema)
	if err != nil {
		return err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{SchemaName: schema})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// withSearchPath returns databaseURL with the session search_path set to
// schema. Both URL and key=value connection strings are accepted.
func withSearchPath(databaseURL, schema string) (string, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		u, err := url.Parse(databaseURL)
		if err != nil {
			return "", fmt.Errorf("parse database URL: %w", err)
		}
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	return strings.TrimSpace(databaseURL + " search_path=" + schema), nil
}
