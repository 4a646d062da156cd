package tenant

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/store"
)

// fakeSchemas is a store.SchemaManager returning canned outcomes.
type fakeSchemas struct {
	mu            sync.Mutex
	initResult    *model.Result
	initErr       error
	teardownRes   *model.Result
	teardownErr   error
	exists        bool
	initCalls     []string
	teardownCalls []string
}

func (f *fakeSchemas) Init(_ context.Context, tenantID string, _ *model.TenantAttributes) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls = append(f.initCalls, tenantID)
	return f.initResult, f.initErr
}

func (f *fakeSchemas) Teardown(_ context.Context, tenantID string) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardownCalls = append(f.teardownCalls, tenantID)
	return f.teardownRes, f.teardownErr
}

func (f *fakeSchemas) Exists(context.Context, string) (bool, error) {
	return f.exists, nil
}

// savedRecord is one Save call observed by fakeClients.
type savedRecord struct {
	tenant string
	table  string
	record *model.LogRecord
}

// fakeClients is a store.ClientFactory whose clients record saves. saveErr
// maps a record id to the error Save returns for it.
type fakeClients struct {
	mu         sync.Mutex
	saves      []savedRecord
	saveErr    map[string]error
	saveCtxErr []error
	instErr    error
	closeCalls []string
	closeErr   error

	// barrier, when set, is waited on by every Save before it records.
	barrier *barrier
}

func (f *fakeClients) InstanceFor(tenantID string) (store.Client, error) {
	if f.instErr != nil {
		return nil, f.instErr
	}
	return &fakeClient{parent: f, tenant: tenantID}, nil
}

func (f *fakeClients) CloseClient(tenantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls = append(f.closeCalls, tenantID)
	return f.closeErr
}

func (f *fakeClients) saved() []savedRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedRecord(nil), f.saves...)
}

type fakeClient struct {
	parent *fakeClients
	tenant string
}

func (c *fakeClient) Save(ctx context.Context, table string, rec *model.LogRecord) error {
	if b := c.parent.barrier; b != nil {
		if err := b.wait(); err != nil {
			return err
		}
	}
	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	c.parent.saves = append(c.parent.saves, savedRecord{tenant: c.tenant, table: table, record: rec})
	c.parent.saveCtxErr = append(c.parent.saveCtxErr, ctx.Err())
	return c.parent.saveErr[rec.ID]
}

// barrier releases its waiters only once n of them have arrived. A waiter
// gives up after timeout.
type barrier struct {
	n       int
	timeout time.Duration

	mu      sync.Mutex
	arrived int
	all     chan struct{}
}

func newBarrier(n int, timeout time.Duration) *barrier {
	return &barrier{n: n, timeout: timeout, all: make(chan struct{})}
}

func (b *barrier) wait() error {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.n {
		close(b.all)
	}
	b.mu.Unlock()

	select {
	case <-b.all:
		return nil
	case <-time.After(b.timeout):
		return errors.New("barrier timeout: saves did not run concurrently")
	}
}

func (c *fakeClient) Close() error { return nil }

// fakeRegistrar counts registrations and returns err.
type fakeRegistrar struct {
	mu     sync.Mutex
	calls  int
	err    error
	ctxErr error
}

func (f *fakeRegistrar) Register(ctx context.Context, _ model.Headers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ctxErr = ctx.Err()
	return f.err
}

func (f *fakeRegistrar) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// mapLoader serves records by logical name.
type mapLoader struct {
	records map[string]*model.LogRecord
	errs    map[string]error
}

func (l *mapLoader) Load(_ context.Context, name string) (*model.LogRecord, error) {
	if err, ok := l.errs[name]; ok {
		return nil, err
	}
	return l.records[name], nil
}
