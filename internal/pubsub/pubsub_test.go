package pubsub

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alfredjeanlab/audit/internal/model"
)

type fakeClient struct {
	mu         sync.Mutex
	calls      []ConnectionParams
	registered bool
	err        error
	panicWith  any
}

func (f *fakeClient) RegisterModule(_ context.Context, p ConnectionParams) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.registered, f.err
}

func (f *fakeClient) Close() error { return nil }

var testHeaders = model.Headers{
	model.HeaderTenant:   "diku",
	model.HeaderToken:    "tok",
	model.HeaderOkapiURL: "http://okapi:9130",
}

func TestParamsFromHeaders(t *testing.T) {
	got := ParamsFromHeaders(testHeaders)
	want := ConnectionParams{OkapiURL: "http://okapi:9130", Tenant: "diku", Token: "tok"}
	if got != want {
		t.Errorf("ParamsFromHeaders = %+v, want %+v", got, want)
	}
}

func TestRegistrar_Success(t *testing.T) {
	client := &fakeClient{registered: true}
	if err := NewRegistrar(client, nil).Register(context.Background(), testHeaders); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(client.calls))
	}
	if client.calls[0].Tenant != "diku" {
		t.Errorf("tenant = %q", client.calls[0].Tenant)
	}
}

func TestRegistrar_FalseIsNotFailure(t *testing.T) {
	client := &fakeClient{registered: false}
	if err := NewRegistrar(client, nil).Register(context.Background(), testHeaders); err != nil {
		t.Fatalf("Register returned %v for an unaccepted registration, want nil", err)
	}
}

func TestRegistrar_Error(t *testing.T) {
	cause := errors.New("bus unreachable")
	err := NewRegistrar(&fakeClient{err: cause}, nil).Register(context.Background(), testHeaders)

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("err = %v, want *RegistrationError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("RegistrationError must unwrap to the cause")
	}
	if err.Error() != "bus unreachable" {
		t.Errorf("message = %q, want the cause's message", err.Error())
	}
}

func TestRegistrar_Panic(t *testing.T) {
	err := NewRegistrar(&fakeClient{panicWith: "nil pointer in client"}, nil).Register(context.Background(), testHeaders)

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("err = %v, want *RegistrationError", err)
	}
	if !strings.Contains(err.Error(), "nil pointer in client") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNoopClient(t *testing.T) {
	var c Client = NoopClient{}
	ok, err := c.RegisterModule(context.Background(), ConnectionParams{})
	if ok || err != nil {
		t.Errorf("RegisterModule = %v, %v; want false, nil", ok, err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
