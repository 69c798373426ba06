package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/stretchr/testify/require"
)

type brokenEvent struct{}

func (brokenEvent) Subject() string          { return messaging.PetsAddedSubject }
func (brokenEvent) Payload() ([]byte, error) { return nil, errors.New("cannot encode") }

func TestPublish_InvalidPayload(t *testing.T) {
	publisher := NewNatsPublisher(nil)

	err := publisher.Publish(context.Background(), brokenEvent{})

	require.ErrorIs(t, err, messaging.ErrInvalidPayload)
}
