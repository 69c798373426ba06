// Package rest provides HTTP handlers for pet-related operations.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	perrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/service"
	"github.com/abgdnv/petstore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.PetService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.PetService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the pet service.
// The static segments pets, addNewPet and clear take precedence over {name}.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/petStore", func(r chi.Router) {
		r.Get("/", h.Find)
		r.Get("/pets", h.Find)
		r.Post("/addNewPet", h.Create)
		r.Delete("/clear", h.Clear)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", h.FindByName)
			r.Delete("/", h.DeleteByName)
			r.Patch("/", h.UpdatePrice)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// Find lists all pets, or the pets matching the type, color, minPrice and maxPrice query parameters.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	var (
		list []service.PetDto
		err  error
	)
	if filter.IsEmpty() {
		h.logger.DebugContext(r.Context(), "Received request to list all pets")
		list, err = h.service.FindAll(r.Context())
	} else {
		h.logger.DebugContext(r.Context(), "Received request to filter pets", "filter", filter)
		list, err = h.service.Find(r.Context(), filter)
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving pet list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch pets")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved pet list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new pet.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var createDto service.PetCreateDto
	if !web.DecodeJSON(w, r, h.logger, &createDto) {
		h.logger.WarnContext(r.Context(), "Error decoding request body")
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create pet", "pet", createDto.Name)
	if !h.validateStruct(w, r, createDto) {
		return
	}

	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		if errors.Is(err, perrors.ErrInvalidPet) {
			h.logger.WarnContext(r.Context(), "Invalid pet", "error", err)
			web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "Error creating pet", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create pet")
		return
	}
	h.logger.InfoContext(r.Context(), "Pet created successfully", "name", created.Name, "type", created.Type)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// FindByName retrieves a pet by its name.
func (h *Handler) FindByName(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParsePathParam(w, r, h.logger, "name")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find pet by name", "name", name)

	found, err := h.service.FindByName(r.Context(), name)
	if err != nil {
		h.respondServiceError(w, r, err, name, "retrieve")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved pet", "name", found.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// UpdatePrice changes the price of a pet.
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParsePathParam(w, r, h.logger, "name")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update pet price", "name", name)

	var priceDto service.PriceUpdateDto
	if !web.DecodeJSON(w, r, h.logger, &priceDto) {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "name", name)
		return
	}
	if !h.validateStruct(w, r, priceDto) {
		return
	}

	updated, err := h.service.UpdatePrice(r.Context(), name, priceDto)
	if err != nil {
		h.respondServiceError(w, r, err, name, "update price of")
		return
	}
	h.logger.InfoContext(r.Context(), "Pet price updated successfully", "name", updated.Name, "price", updated.Price)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByName deletes a pet by its name. Deleting an unknown pet also answers 204.
func (h *Handler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	name, ok := web.ParsePathParam(w, r, h.logger, "name")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete pet", "name", name)

	if err := h.service.DeleteByName(r.Context(), name); err != nil {
		h.logger.ErrorContext(r.Context(), "Error deleting pet", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete pet %s", name))
		return
	}
	h.logger.InfoContext(r.Context(), "Pet deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes all pets.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "Error clearing pets", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to clear pets")
		return
	}
	h.logger.InfoContext(r.Context(), "Pet store cleared")
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (service.FilterDto, bool) {
	minPrice, ok := web.ParseOptionalInt64(w, r, h.logger, "minPrice")
	if !ok {
		return service.FilterDto{}, false
	}
	maxPrice, ok := web.ParseOptionalInt64(w, r, h.logger, "maxPrice")
	if !ok {
		return service.FilterDto{}, false
	}
	return service.FilterDto{
		Type:     web.ParseOptionalString(r, "type"),
		Color:    web.ParseOptionalString(r, "color"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}, true
}

// validateStruct answers 400 with the failed rules per field if dto is invalid.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, dto any) bool {
	err := h.validate.Struct(dto)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string)
		for _, fieldErr := range validationErrors {
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return false
	}
	h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
	return false
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, name, action string) {
	switch {
	case errors.Is(err, perrors.ErrPetNotFound):
		h.logger.WarnContext(r.Context(), "Pet not found", "name", name)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Pet with name %s not found", name))
	case errors.Is(err, perrors.ErrInvalidPet):
		h.logger.WarnContext(r.Context(), "Invalid request", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Error processing pet", "name", name, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to %s pet %s", action, name))
	}
}
