package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsPublisher publishes events to JetStream using the event subject.
// Identified events are sent with their ID as the JetStream message ID.
type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("%w: %v", messaging.ErrInvalidPayload, err)
	}
	var opts []jetstream.PublishOpt
	if e, ok := event.(messaging.Identified); ok {
		opts = append(opts, jetstream.WithMsgID(e.ID()))
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, opts...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", event.Subject(), err)
	}
	return nil
}
