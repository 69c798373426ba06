// Package errors provides custom error types for pet-related operations.
package errors

import "errors"

var ErrPetNotFound = errors.New("pet not found")
var ErrInvalidPet = errors.New("invalid pet")
