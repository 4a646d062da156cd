// Package pubsub registers the module's event subscriptions with the
// platform publish/subscribe bus.
package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/audit/internal/model"
)

// ConnectionParams is what the bus client needs to act on behalf of a tenant.
type ConnectionParams struct {
	OkapiURL string
	Tenant   string
	Token    string
}

// ParamsFromHeaders builds connection params from a caller context.
func ParamsFromHeaders(h model.Headers) ConnectionParams {
	return ConnectionParams{
		OkapiURL: h.OkapiURL(),
		Tenant:   h.Get(model.HeaderTenant),
		Token:    h.Token(),
	}
}

// Client registers the module with the bus. The returned bool reports
// whether the bus accepted the registration.
type Client interface {
	RegisterModule(ctx context.Context, params ConnectionParams) (bool, error)
	Close() error
}

// RegistrationError wraps a failure of the bus client. Its message is the
// cause's message.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string { return e.Err.Error() }
func (e *RegistrationError) Unwrap() error { return e.Err }

// Registrar runs module registration off the calling goroutine.
type Registrar struct {
	client Client
	logger *slog.Logger
}

// NewRegistrar returns a Registrar using client.
func NewRegistrar(client Client, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{client: client, logger: logger}
}

// Register calls the bus client with params derived from headers and waits
// for it to return. Whether the bus accepted the registration is logged but
// not treated as a failure; only errors and panics are.
func (r *Registrar) Register(ctx context.Context, headers model.Headers) error {
	params := ParamsFromHeaders(headers)
	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("pub/sub registration panicked: %v", p)
			}
		}()
		registered, err := r.client.RegisterModule(ctx, params)
		if err == nil {
			r.logger.Info("module registered with pub/sub", "tenant", params.Tenant, "registered", registered)
		}
		done <- err
	}()

	if err := <-done; err != nil {
		return &RegistrationError{Err: err}
	}
	return nil
}
