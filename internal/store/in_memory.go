package store

import (
	"fmt"
	"sync"

	"github.com/abgdnv/petstore/internal/errors"
)

// inMemory implements PetStore using an in-memory slice kept in insertion order.
type inMemory struct {
	mu   sync.RWMutex
	pets []Pet
}

// NewInMemoryStore creates a new, empty instance of PetStore.
func NewInMemoryStore() PetStore {
	return &inMemory{
		pets: make([]Pet, 0),
	}
}

// Add appends a pet to the store.
func (s *inMemory) Add(pet Pet) (Pet, error) {
	if err := validate(pet); err != nil {
		return Pet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pets = append(s.pets, pet)
	return pet, nil
}

// ListAll retrieves all pets.
func (s *inMemory) ListAll() []Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Pet, len(s.pets))
	copy(list, s.pets)
	return list
}

// GetByName retrieves the first pet with the given name.
func (s *inMemory) GetByName(name string) (Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(name)
	if i < 0 {
		return Pet{}, errors.ErrPetNotFound
	}
	return s.pets[i], nil
}

// DeleteByName deletes the first pet with the given name.
func (s *inMemory) DeleteByName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(name)
	if i < 0 {
		return false
	}
	s.pets = append(s.pets[:i], s.pets[i+1:]...)
	return true
}

// UpdatePrice changes the price of the first pet with the given name.
func (s *inMemory) UpdatePrice(name string, price int64) (Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(name)
	if i < 0 {
		return Pet{}, errors.ErrPetNotFound
	}
	s.pets[i].Price = price
	return s.pets[i], nil
}

// Clear removes all pets.
func (s *inMemory) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pets = make([]Pet, 0)
}

// Filter retrieves the pets matching the criteria.
func (s *inMemory) Filter(criteria Criteria) []Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Pet, 0, len(s.pets))
	for _, p := range s.pets {
		if criteria.Matches(p) {
			list = append(list, p)
		}
	}
	return list
}

// indexOf returns the position of the first pet with the given name, or -1.
// The caller must hold s.mu.
func (s *inMemory) indexOf(name string) int {
	for i := range s.pets {
		if s.pets[i].Name == name {
			return i
		}
	}
	return -1
}

func validate(pet Pet) error {
	switch {
	case pet.Name == "":
		return fmt.Errorf("%w: name is required", errors.ErrInvalidPet)
	case pet.Type == "":
		return fmt.Errorf("%w: type is required", errors.ErrInvalidPet)
	case pet.Color == "":
		return fmt.Errorf("%w: color is required", errors.ErrInvalidPet)
	}
	return nil
}
