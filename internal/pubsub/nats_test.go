package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/audit/internal/model"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

// startBus subscribes a fake bus that answers registrations with reply and
// forwards each request it sees on the returned channel.
func startBus(t *testing.T, url string, reply RegisterReply) <-chan *nats.Msg {
	t.Helper()
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting bus: %v", err)
	}
	t.Cleanup(nc.Close)

	seen := make(chan *nats.Msg, 4)
	data, _ := json.Marshal(reply)
	_, err = nc.Subscribe(SubjectRegister, func(msg *nats.Msg) {
		seen <- msg
		_ = msg.Respond(data)
	})
	if err != nil {
		t.Fatalf("subscribing bus: %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flushing bus: %v", err)
	}
	return seen
}

func TestNATSClient_RegisterModule(t *testing.T) {
	url := startTestNATS(t)
	seen := startBus(t, url, RegisterReply{Registered: true})

	c, err := NewNATSClient(url, 2*time.Second)
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	ok, err := c.RegisterModule(context.Background(), ConnectionParams{
		OkapiURL: "http://okapi:9130", Tenant: "diku", Token: "tok",
	})
	if err != nil {
		t.Fatalf("RegisterModule: %v", err)
	}
	if !ok {
		t.Error("registered = false, want true")
	}

	select {
	case msg := <-seen:
		if got := msg.Header.Get(model.HeaderTenant); got != "diku" {
			t.Errorf("tenant header = %q", got)
		}
		if got := msg.Header.Get(model.HeaderToken); got != "tok" {
			t.Errorf("token header = %q", got)
		}
		var d Descriptor
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			t.Fatalf("unmarshal descriptor: %v", err)
		}
		if d.ModuleID != "mod-audit" || len(d.Subscriptions) != 1 || d.Subscriptions[0].EventType != EventTypeLogRecord {
			t.Errorf("descriptor = %+v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for registration request")
	}
}

func TestNATSClient_NotRegistered(t *testing.T) {
	url := startTestNATS(t)
	startBus(t, url, RegisterReply{Registered: false})

	c, err := NewNATSClient(url, 2*time.Second)
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	ok, err := c.RegisterModule(context.Background(), ConnectionParams{Tenant: "diku"})
	if err != nil || ok {
		t.Errorf("RegisterModule = %v, %v; want false, nil", ok, err)
	}
}

func TestNATSClient_ErrorReply(t *testing.T) {
	url := startTestNATS(t)
	startBus(t, url, RegisterReply{Error: "unknown tenant"})

	c, err := NewNATSClient(url, 2*time.Second)
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	_, err = c.RegisterModule(context.Background(), ConnectionParams{Tenant: "diku"})
	if err == nil || err.Error() != "unknown tenant" {
		t.Fatalf("err = %v, want %q", err, "unknown tenant")
	}
}

func TestNATSClient_NoResponders(t *testing.T) {
	url := startTestNATS(t)

	c, err := NewNATSClient(url, 2*time.Second)
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	_, err = c.RegisterModule(context.Background(), ConnectionParams{Tenant: "diku"})
	if !errors.Is(err, nats.ErrNoResponders) {
		t.Fatalf("err = %v, want ErrNoResponders", err)
	}
}

func TestNewNATSClient_BadURL(t *testing.T) {
	if _, err := NewNATSClient("nats://127.0.0.1:1", time.Second, nats.NoReconnect()); err == nil {
		t.Fatal("expected connection error")
	}
}
