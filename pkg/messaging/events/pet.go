// Package events contains the domain events published by the pet service.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata is shared by every pet event.
// Carrier holds the trace context of the request that caused the event.
type Metadata struct {
	EventID    uuid.UUID              `json:"event_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
}

func (m Metadata) ID() string {
	return m.EventID.String()
}

func newMetadata(ctx context.Context) Metadata {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return Metadata{
		EventID:    uuid.New(),
		OccurredAt: time.Now().UTC(),
		Carrier:    carrier,
	}
}

// Pet is the event representation of a pet.
type Pet struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Price int64  `json:"price"`
}

// PetAddedEvent is published after a pet is added to the store.
type PetAddedEvent struct {
	Metadata
	Pet Pet `json:"pet"`
}

func NewPetAddedEvent(ctx context.Context, pet Pet) PetAddedEvent {
	return PetAddedEvent{Metadata: newMetadata(ctx), Pet: pet}
}

func (e PetAddedEvent) Subject() string {
	return messaging.PetsAddedSubject
}

func (e PetAddedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// PetSoldEvent is published after a pet is removed from the store.
type PetSoldEvent struct {
	Metadata
	Name string `json:"name"`
}

func NewPetSoldEvent(ctx context.Context, name string) PetSoldEvent {
	return PetSoldEvent{Metadata: newMetadata(ctx), Name: name}
}

func (e PetSoldEvent) Subject() string {
	return messaging.PetsSoldSubject
}

func (e PetSoldEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// PetPriceChangedEvent is published after the price of a pet is updated.
type PetPriceChangedEvent struct {
	Metadata
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func NewPetPriceChangedEvent(ctx context.Context, name string, price int64) PetPriceChangedEvent {
	return PetPriceChangedEvent{Metadata: newMetadata(ctx), Name: name, Price: price}
}

func (e PetPriceChangedEvent) Subject() string {
	return messaging.PetsPriceChangedSubject
}

func (e PetPriceChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// PetsClearedEvent is published after the store is emptied.
type PetsClearedEvent struct {
	Metadata
}

func NewPetsClearedEvent(ctx context.Context) PetsClearedEvent {
	return PetsClearedEvent{Metadata: newMetadata(ctx)}
}

func (e PetsClearedEvent) Subject() string {
	return messaging.PetsClearedSubject
}

func (e PetsClearedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
