// Package messaging defines domain events and the publishers that deliver them.
package messaging

import (
	"context"
)

// Subjects of the pet domain events. All of them match PetsSubjects.
const (
	PetsSubjects            = "pets.>"
	PetsAddedSubject        = "pets.added"
	PetsSoldSubject         = "pets.sold"
	PetsPriceChangedSubject = "pets.price_changed"
	PetsClearedSubject      = "pets.cleared"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Identified is implemented by events that carry a unique ID.
// Brokers that support it use the ID to drop redelivered duplicates.
type Identified interface {
	ID() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher discards every event. It is used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
