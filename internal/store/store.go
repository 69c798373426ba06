// Package store provides an interface for pet storage operations.
package store

// Pet represents a pet entity in the store.
// Name is the lookup key for GetByName, UpdatePrice and DeleteByName.
type Pet struct {
	Name  string
	Type  string
	Color string
	Price int64
}

// PetStore is an interface for pet storage operations.
// Implementations keep pets in insertion order and resolve name-keyed
// operations to the first matching pet.
type PetStore interface {
	// Add appends a pet to the end of the store and returns it unchanged.
	// Duplicate names are allowed.
	// Returns ErrInvalidPet if name, type or color is empty.
	Add(pet Pet) (Pet, error)

	// ListAll returns all pets in insertion order.
	// Returns an empty slice if the store is empty.
	ListAll() []Pet

	// GetByName retrieves the first pet with the given name.
	// Returns ErrPetNotFound if no pet has that name.
	GetByName(name string) (Pet, error)

	// DeleteByName removes the first pet with the given name.
	// Deleting an absent name is a no-op; the result reports whether a pet was removed.
	DeleteByName(name string) bool

	// UpdatePrice sets the price of the first pet with the given name and returns the updated pet.
	// Returns ErrPetNotFound if no pet has that name.
	UpdatePrice(name string, price int64) (Pet, error)

	// Clear removes all pets.
	Clear()

	// Filter returns the pets matching every predicate set in the criteria, in insertion order.
	// Returns an empty slice if nothing matches.
	Filter(criteria Criteria) []Pet
}
