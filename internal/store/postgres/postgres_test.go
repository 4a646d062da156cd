package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alfredjeanlab/audit/internal/model"
)

const existsQuery = `SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

func expectExists(mock sqlmock.Sqlmock, schema string, exists bool) {
	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).WithArgs(schema).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestSchemaName(t *testing.T) {
	if got := SchemaName("diku"); got != "diku_mod_audit" {
		t.Errorf("SchemaName = %q", got)
	}
}

func TestManager_InitNewSchema(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)

	var migrated []string
	m.migrate = func(_ context.Context, databaseURL, schema string) error {
		migrated = append(migrated, schema)
		return nil
	}

	expectExists(mock, "diku_mod_audit", false)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "diku_mod_audit"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := m.Init(context.Background(), "diku", &model.TenantAttributes{ModuleTo: "mod-audit-2.0.0"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if res.Status != 201 {
		t.Errorf("status = %d, want 201", res.Status)
	}
	if len(migrated) != 1 || migrated[0] != "diku_mod_audit" {
		t.Errorf("migrated = %v", migrated)
	}
	var body initResponse
	if err := json.Unmarshal(res.Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Tenant != "diku" || body.Schema != "diku_mod_audit" || body.Upgrade || body.ModuleTo != "mod-audit-2.0.0" {
		t.Errorf("body = %+v", body)
	}
}

func TestManager_InitExistingSchema(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)
	m.migrate = func(context.Context, string, string) error { return nil }

	expectExists(mock, "diku_mod_audit", true)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "diku_mod_audit"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := m.Init(context.Background(), "diku", nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if res.Status != 200 {
		t.Errorf("status = %d, want 200", res.Status)
	}
}

func TestManager_InitMigrationError(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)
	cause := errors.New("dirty database version 2")
	m.migrate = func(context.Context, string, string) error { return cause }

	expectExists(mock, "diku_mod_audit", false)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "diku_mod_audit"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := m.Init(context.Background(), "diku", nil)
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}

func TestManager_InitDowngrade(t *testing.T) {
	db, _ := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)
	m.migrate = func(context.Context, string, string) error {
		t.Fatal("migrate must not run on downgrade")
		return nil
	}

	res, err := m.Init(context.Background(), "diku", &model.TenantAttributes{
		ModuleFrom: "mod-audit-2.1.0",
		ModuleTo:   "mod-audit-2.0.5",
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if res.Status != 400 {
		t.Errorf("status = %d, want 400", res.Status)
	}
}

func TestManager_Teardown(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)

	expectExists(mock, "diku_mod_audit", true)
	mock.ExpectExec(regexp.QuoteMeta(`DROP SCHEMA IF EXISTS "diku_mod_audit" CASCADE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := m.Teardown(context.Background(), "diku")
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if res.Status != 204 {
		t.Errorf("status = %d, want 204", res.Status)
	}
}

func TestManager_TeardownUnknownTenant(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)

	expectExists(mock, "ghost_mod_audit", false)

	res, err := m.Teardown(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if res.Status != 400 {
		t.Errorf("status = %d, want 400", res.Status)
	}
	if !strings.Contains(string(res.Body), "ghost") {
		t.Errorf("body = %q", res.Body)
	}
}

func TestManager_ExistsError(t *testing.T) {
	db, mock := newMockDB(t)
	m := newManager(db, "postgres://localhost/audit", nil)

	mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).WithArgs("diku_mod_audit").
		WillReturnError(errors.New("connection refused"))

	if _, err := m.Exists(context.Background(), "diku"); err == nil {
		t.Fatal("expected error")
	}
}

func TestWithSearchPath(t *testing.T) {
	got, err := withSearchPath("postgres://u:p@db:5432/audit?sslmode=disable", "diku_mod_audit")
	if err != nil {
		t.Fatalf("withSearchPath: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
	if u.Query().Get("search_path") != "diku_mod_audit" || u.Query().Get("sslmode") != "disable" {
		t.Errorf("query = %q", u.RawQuery)
	}

	got, err = withSearchPath("host=db dbname=audit", "diku_mod_audit")
	if err != nil {
		t.Fatalf("withSearchPath: %v", err)
	}
	if got != "host=db dbname=audit search_path=diku_mod_audit" {
		t.Errorf("key/value dsn = %q", got)
	}
}

func TestIsDowngrade(t *testing.T) {
	for _, tc := range []struct {
		from, to string
		want     bool
	}{
		{"", "mod-audit-2.0.0", false},
		{"mod-audit-1.9.0", "mod-audit-2.0.0", false},
		{"mod-audit-2.0.0", "mod-audit-2.0.0", false},
		{"mod-audit-2.1.0", "mod-audit-2.0.9", true},
		{"mod-audit-2.1", "mod-audit-2.1.0", false},
		{"mod-audit-2.1.1", "mod-audit-2.1", true},
		{"mod-audit-2.1.0-SNAPSHOT.42", "mod-audit-2.2.0-SNAPSHOT.1", false},
		{"mod-audit-3.0.0", "mod-audit", false},
	} {
		if got := isDowngrade(tc.from, tc.to); got != tc.want {
			t.Errorf("isDowngrade(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
