package tenant

import (
	"context"

	"github.com/alfredjeanlab/audit/internal/metrics"
	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/store"
)

// RecordLoader resolves a logical sample name to a log record.
type RecordLoader interface {
	Load(ctx context.Context, name string) (*model.LogRecord, error)
}

// PersistenceError reports a storage failure while ingesting a sample.
// Its message is the storage cause's message unchanged.
type PersistenceError struct {
	Sample string
	Err    error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Ingester submits one sample record to a tenant's storage.
type Ingester struct {
	loader  RecordLoader
	clients store.ClientFactory
}

// NewIngester returns an Ingester reading samples with loader and saving
// them through clients.
func NewIngester(loader RecordLoader, clients store.ClientFactory) *Ingester {
	return &Ingester{loader: loader, clients: clients}
}

// Ingest loads the named sample and saves it into table for tenantID.
// Loader errors are returned as is; storage errors as *PersistenceError.
func (i *Ingester) Ingest(ctx context.Context, table, name, tenantID string) error {
	rec, err := i.loader.Load(ctx, name)
	if err != nil {
		metrics.SampleIngestions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return err
	}
	client, err := i.clients.InstanceFor(tenantID)
	if err != nil {
		metrics.SampleIngestions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return &PersistenceError{Sample: name, Err: err}
	}
	if err := client.Save(ctx, table, rec); err != nil {
		metrics.SampleIngestions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return &PersistenceError{Sample: name, Err: err}
	}
	metrics.SampleIngestions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}
