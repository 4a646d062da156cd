package pubsub

import "context"

// NoopClient is a Client that registers nothing (used when NATS is not configured).
type NoopClient struct{}

func (NoopClient) RegisterModule(context.Context, ConnectionParams) (bool, error) {
	return false, nil
}

func (NoopClient) Close() error {
	return nil
}
