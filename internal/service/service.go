// Package service provides the implementation of pet-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/store"
	"github.com/abgdnv/petstore/pkg/messaging"
	"github.com/abgdnv/petstore/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// PetService defines the methods for managing pets.
// It abstracts the underlying business logic and data access.
type PetService interface {
	// Create adds a new pet to the store.
	// Returns ErrInvalidPet if the pet is missing a name, type or color.
	Create(ctx context.Context, pet PetCreateDto) (*PetDto, error)

	// FindAll returns all pets in insertion order.
	// Returns an empty slice if the store is empty.
	FindAll(ctx context.Context) ([]PetDto, error)

	// Find returns the pets matching every criterion set in the filter.
	// An empty filter returns all pets.
	Find(ctx context.Context, filter FilterDto) ([]PetDto, error)

	// FindByName retrieves the first pet with the given name.
	// Returns ErrPetNotFound if no pet has that name.
	FindByName(ctx context.Context, name string) (*PetDto, error)

	// DeleteByName removes the first pet with the given name.
	// Deleting an unknown name is not an error.
	DeleteByName(ctx context.Context, name string) error

	// UpdatePrice changes the price of the first pet with the given name.
	// Returns ErrPetNotFound if no pet has that name, ErrInvalidPet if the price is missing.
	UpdatePrice(ctx context.Context, name string, update PriceUpdateDto) (*PetDto, error)

	// Clear removes all pets.
	Clear(ctx context.Context) error
}

// Service implements PetService and provides methods to manage pets.
type Service struct {
	store     store.PetStore
	publisher messaging.Publisher
	counters  counters
}

type counters struct {
	added        metric.Int64Counter
	sold         metric.Int64Counter
	priceChanged metric.Int64Counter
	cleared      metric.Int64Counter
}

// NewService creates a new instance of PetService with the provided store and event publisher.
func NewService(petStore store.PetStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("pet-service")
	return &Service{
		store:     petStore,
		publisher: publisher,
		counters: counters{
			added:        mustCounter(meter, "pets_added", "Total number of added pets"),
			sold:         mustCounter(meter, "pets_sold", "Total number of removed pets"),
			priceChanged: mustCounter(meter, "pets_price_changed", "Total number of price updates"),
			cleared:      mustCounter(meter, "pets_cleared", "Total number of store clears"),
		},
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// PetCreateDto represents the data transfer object for creating a new pet.
// Price is a pointer so that a missing price can be told apart from zero.
type PetCreateDto struct {
	Name  string `json:"name"  validate:"required"`
	Type  string `json:"type"  validate:"required"`
	Color string `json:"color" validate:"required"`
	Price *int64 `json:"price" validate:"required"`
}

// PetDto represents the data transfer object for a pet.
type PetDto struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Price int64  `json:"price"`
}

// PriceUpdateDto represents the data transfer object for updating a pet price.
type PriceUpdateDto struct {
	Price *int64 `json:"price" validate:"required"`
}

// FilterDto holds the optional filter criteria. A nil field is ignored.
type FilterDto struct {
	Type     *string
	Color    *string
	MinPrice *int64
	MaxPrice *int64
}

// IsEmpty reports whether no criterion is set.
func (f FilterDto) IsEmpty() bool {
	return f.toCriteria().IsEmpty()
}

func (f FilterDto) toCriteria() store.Criteria {
	return store.Criteria{
		Type:     f.Type,
		Color:    f.Color,
		PriceMin: f.MinPrice,
		PriceMax: f.MaxPrice,
	}
}

// Create adds a new pet and returns it as a PetDto.
// Returns ErrInvalidPet if the pet cannot be stored.
func (s *Service) Create(ctx context.Context, dto PetCreateDto) (*PetDto, error) {
	pet := store.Pet{
		Name:  dto.Name,
		Type:  dto.Type,
		Color: dto.Color,
	}
	if dto.Price != nil {
		pet.Price = *dto.Price
	}

	added, err := s.store.Add(pet)
	if err != nil {
		return nil, fmt.Errorf("failed to add pet: %w", err)
	}

	s.publish(ctx, events.NewPetAddedEvent(ctx, toEventPet(added)))
	s.counters.added.Add(ctx, 1)

	return toDto(added), nil
}

// FindAll retrieves all pets as PetDtos.
func (s *Service) FindAll(_ context.Context) ([]PetDto, error) {
	return toDtos(s.store.ListAll()), nil
}

// Find retrieves the pets matching the filter as PetDtos.
func (s *Service) Find(_ context.Context, filter FilterDto) ([]PetDto, error) {
	return toDtos(s.store.Filter(filter.toCriteria())), nil
}

// FindByName retrieves a pet by its name and returns it as a PetDto.
// Returns ErrPetNotFound if no pet has that name.
func (s *Service) FindByName(_ context.Context, name string) (*PetDto, error) {
	pet, err := s.store.GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pet %q: %w", name, err)
	}
	return toDto(pet), nil
}

// DeleteByName removes a pet by its name. An event is published only if a pet was removed.
func (s *Service) DeleteByName(ctx context.Context, name string) error {
	if !s.store.DeleteByName(name) {
		slog.DebugContext(ctx, "Pet to delete not found", "name", name)
		return nil
	}

	s.publish(ctx, events.NewPetSoldEvent(ctx, name))
	s.counters.sold.Add(ctx, 1)
	return nil
}

// UpdatePrice changes the price of a pet and returns the updated pet as a PetDto.
// Returns ErrPetNotFound if no pet has that name.
func (s *Service) UpdatePrice(ctx context.Context, name string, update PriceUpdateDto) (*PetDto, error) {
	if update.Price == nil {
		return nil, fmt.Errorf("%w: price is required", errors.ErrInvalidPet)
	}

	updated, err := s.store.UpdatePrice(name, *update.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to update price for pet %q: %w", name, err)
	}

	s.publish(ctx, events.NewPetPriceChangedEvent(ctx, updated.Name, updated.Price))
	s.counters.priceChanged.Add(ctx, 1)

	return toDto(updated), nil
}

// Clear removes all pets.
func (s *Service) Clear(ctx context.Context) error {
	s.store.Clear()

	s.publish(ctx, events.NewPetsClearedEvent(ctx))
	s.counters.cleared.Add(ctx, 1)
	return nil
}

// publish sends the event. A failure is logged and never fails the operation that caused it.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// toDto converts a store.Pet to a PetDto.
func toDto(pet store.Pet) *PetDto {
	return &PetDto{
		Name:  pet.Name,
		Type:  pet.Type,
		Color: pet.Color,
		Price: pet.Price,
	}
}

func toDtos(pets []store.Pet) []PetDto {
	dtos := make([]PetDto, len(pets))
	for i, pet := range pets {
		dtos[i] = *toDto(pet)
	}
	return dtos
}

func toEventPet(pet store.Pet) events.Pet {
	return events.Pet{
		Name:  pet.Name,
		Type:  pet.Type,
		Color: pet.Color,
		Price: pet.Price,
	}
}
