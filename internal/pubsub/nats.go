package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/audit/internal/model"
)

// SubjectRegister is the request subject the bus answers registrations on.
const SubjectRegister = "pubsub.modules.register"

// RegisterReply is the bus's answer to a registration request.
type RegisterReply struct {
	Registered bool   `json:"registered"`
	Error      string `json:"error,omitempty"`
}

// NATSClient registers the module by sending its descriptor as a NATS
// request. Connection params travel as message headers.
type NATSClient struct {
	conn       *nats.Conn
	descriptor Descriptor
	timeout    time.Duration
}

// Compile-time check that NATSClient implements Client.
var _ Client = (*NATSClient)(nil)

// NewNATSClient connects to NATS with automatic reconnection support.
// Extra nats.Option values can be appended.
func NewNATSClient(url string, timeout time.Duration, opts ...nats.Option) (*NATSClient, error) {
	defaults := []nats.Option{
		nats.Name("mod-audit"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSClient{conn: nc, descriptor: DefaultDescriptor(), timeout: timeout}, nil
}

func (c *NATSClient) RegisterModule(ctx context.Context, params ConnectionParams) (bool, error) {
	data, err := json.Marshal(c.descriptor)
	if err != nil {
		return false, fmt.Errorf("marshaling descriptor: %w", err)
	}

	msg := nats.NewMsg(SubjectRegister)
	msg.Data = data
	msg.Header.Set(model.HeaderTenant, params.Tenant)
	if params.Token != "" {
		msg.Header.Set(model.HeaderToken, params.Token)
	}
	if params.OkapiURL != "" {
		msg.Header.Set(model.HeaderOkapiURL, params.OkapiURL)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("registering %s with pub/sub: %w", c.descriptor.ModuleID, err)
	}

	var reply RegisterReply
	if err := json.Unmarshal(resp.Data, &reply); err != nil {
		return false, fmt.Errorf("decoding registration reply: %w", err)
	}
	if reply.Error != "" {
		return false, errors.New(reply.Error)
	}
	return reply.Registered, nil
}

func (c *NATSClient) Close() error {
	c.conn.Close()
	return nil
}
