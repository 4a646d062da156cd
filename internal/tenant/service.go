// Package tenant runs the tenant lifecycle: schema initialization, pub/sub
// registration and optional sample seeding on provisioning, and schema
// teardown plus client cleanup on deprovisioning.
package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/audit/internal/config"
	"github.com/alfredjeanlab/audit/internal/idgen"
	"github.com/alfredjeanlab/audit/internal/metrics"
	"github.com/alfredjeanlab/audit/internal/model"
	"github.com/alfredjeanlab/audit/internal/samples"
	"github.com/alfredjeanlab/audit/internal/store"
)

// Registrar registers the module with the pub/sub bus for a caller.
type Registrar interface {
	Register(ctx context.Context, headers model.Headers) error
}

// Service provisions and deprovisions tenants.
type Service struct {
	schemas   store.SchemaManager
	clients   store.ClientFactory
	registrar Registrar
	ingester  *Ingester
	args      config.ModuleArgs
	logger    *slog.Logger

	table   string
	catalog []string
}

// NewService returns a Service. args is the process-wide module arguments
// map and must not be modified afterwards.
func NewService(
	schemas store.SchemaManager,
	clients store.ClientFactory,
	registrar Registrar,
	loader RecordLoader,
	args config.ModuleArgs,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		schemas:   schemas,
		clients:   clients,
		registrar: registrar,
		ingester:  NewIngester(loader, clients),
		args:      args,
		logger:    logger,
		table:     store.LogsTableName,
		catalog:   samples.Catalog,
	}
}

// Provision initializes the tenant schema, registers the module with
// pub/sub and, when enabled, seeds the sample records.
//
// A schema-init error is returned as is, and a schema-init result outside
// 2xx is returned unchanged; in both cases nothing else runs. Cancelling
// ctx after schema init does not stop registration or seeding. Any later
// failure yields a 500 text result whose body is an error record carrying
// the failure's message. On success the schema-init result is returned.
func (s *Service) Provision(ctx context.Context, attrs *model.TenantAttributes, headers model.Headers) (*model.Result, error) {
	tenantID, err := headers.TenantID()
	if err != nil {
		return nil, err
	}
	opID := idgen.ForRequest(headers.Get(model.HeaderRequestID), idgen.PrefixProvision)
	logger := s.logger.With("op", opID, "tenant", tenantID)

	start := time.Now()
	defer func() {
		metrics.TenantOperationDuration.WithLabelValues(metrics.OpProvision).Observe(time.Since(start).Seconds())
	}()

	res, err := s.schemas.Init(ctx, tenantID, attrs)
	if err != nil {
		logger.Error("schema init failed", "err", err)
		metrics.TenantOperations.WithLabelValues(metrics.OpProvision, metrics.OutcomeUpstreamFailed).Inc()
		return nil, err
	}
	if !res.Succeeded() {
		logger.Warn("schema init rejected", "status", res.Status)
		metrics.TenantOperations.WithLabelValues(metrics.OpProvision, metrics.OutcomeUpstreamFailed).Inc()
		return res, nil
	}

	// Registration and seeding run to completion even if the caller goes away.
	if err := s.bootstrap(context.WithoutCancel(ctx), logger, tenantID, attrs, headers); err != nil {
		logger.Error("tenant bootstrap failed", "err", err)
		metrics.TenantOperations.WithLabelValues(metrics.OpProvision, metrics.OutcomeFailed).Inc()
		return model.TextResult(http.StatusInternalServerError,
			model.BuildError(http.StatusInternalServerError, err.Error())), nil
	}

	logger.Info("tenant provisioned", "status", res.Status)
	metrics.TenantOperations.WithLabelValues(metrics.OpProvision, metrics.OutcomeSuccess).Inc()
	return res, nil
}

func (s *Service) bootstrap(ctx context.Context, logger *slog.Logger, tenantID string, attrs *model.TenantAttributes, headers model.Headers) error {
	if err := s.registrar.Register(ctx, headers); err != nil {
		return err
	}
	if !ShouldLoadSamples(s.args, attrs) {
		return nil
	}
	return s.loadSamples(ctx, logger, tenantID)
}

// loadSamples ingests every catalog entry concurrently. All ingestions run
// to completion; the first error is returned.
func (s *Service) loadSamples(ctx context.Context, logger *slog.Logger, tenantID string) error {
	logger.Info("loading sample data", "samples", len(s.catalog))

	var g errgroup.Group
	for _, entry := range s.catalog {
		g.Go(func() error {
			return s.ingester.Ingest(ctx, s.table, samples.LogicalName(entry), tenantID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("sample data loaded successfully")
	return nil
}

// Deprovision tears down the tenant schema and then closes the tenant's
// database client. The teardown outcome is returned unchanged; a failure to
// close the client is only logged.
func (s *Service) Deprovision(ctx context.Context, headers model.Headers) (*model.Result, error) {
	tenantID, err := headers.TenantID()
	if err != nil {
		return nil, err
	}
	opID := idgen.ForRequest(headers.Get(model.HeaderRequestID), idgen.PrefixDeprovision)
	logger := s.logger.With("op", opID, "tenant", tenantID)

	start := time.Now()
	defer func() {
		metrics.TenantOperationDuration.WithLabelValues(metrics.OpDeprovision).Observe(time.Since(start).Seconds())
	}()

	res, teardownErr := s.schemas.Teardown(ctx, tenantID)

	if err := s.clients.CloseClient(tenantID); err != nil {
		logger.Warn("failed to close tenant client", "err", err)
		metrics.ClientCloseFailures.Inc()
	}

	switch {
	case teardownErr != nil:
		logger.Error("schema teardown failed", "err", teardownErr)
		metrics.TenantOperations.WithLabelValues(metrics.OpDeprovision, metrics.OutcomeUpstreamFailed).Inc()
	case !res.Succeeded():
		logger.Warn("schema teardown rejected", "status", res.Status)
		metrics.TenantOperations.WithLabelValues(metrics.OpDeprovision, metrics.OutcomeUpstreamFailed).Inc()
	default:
		logger.Info("tenant deprovisioned", "status", res.Status)
		metrics.TenantOperations.WithLabelValues(metrics.OpDeprovision, metrics.OutcomeSuccess).Inc()
	}
	return res, teardownErr
}

// Exists reports whether the caller's tenant has been provisioned.
func (s *Service) Exists(ctx context.Context, headers model.Headers) (bool, error) {
	tenantID, err := headers.TenantID()
	if err != nil {
		return false, err
	}
	return s.schemas.Exists(ctx, tenantID)
}
