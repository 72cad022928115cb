// Package rest provides HTTP handlers for item and shelf operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	shoperrors "github.com/abgdnv/itemshop/internal/errors"
	"github.com/abgdnv/itemshop/internal/item"
	"github.com/abgdnv/itemshop/internal/service"
	"github.com/abgdnv/itemshop/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.ShopService
	validate *validator.Validate
	logger   *slog.Logger
}

// StockResponse reports the slot an item was placed into.
type StockResponse struct {
	ID   string `json:"id"`
	Slot int    `json:"slot"`
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service service.ShopService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the shop service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
			r.Get("/details", h.Details)
		})
	})

	r.Route("/api/v1/shop", func(r chi.Router) {
		r.Get("/", h.Shelf)
		r.Post("/items/{id}", h.Stock)
		r.Delete("/items/{id}", h.Remove)
	})

	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new item.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto service.ItemCreateDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}

	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error creating item", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create item")
		return
	}
	h.logger.InfoContext(r.Context(), "Item created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// FindByID retrieves an item by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	h.logger.DebugContext(r.Context(), "Received request to find item by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondItemError(w, r, err, fmt.Sprintf("Failed to retrieve item with ID %s", id))
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Update applies name, price and stock to an item.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var dto service.ItemUpdateDto
	if !h.decodeAndValidate(w, r, &dto) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		h.respondItemError(w, r, err, fmt.Sprintf("Failed to update item with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Item updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// Details returns the printable details of an item as plain text.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	details, err := h.service.Details(r.Context(), id)
	if err != nil {
		h.respondItemError(w, r, err, fmt.Sprintf("Failed to retrieve item with ID %s", id))
		return
	}
	web.RespondText(w, http.StatusOK, details)
}

// DeleteByID forgets an item, taking it off the shelf first.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondItemError(w, r, err, fmt.Sprintf("Failed to delete item with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Item deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Shelf returns the slot view of the shop.
func (h *Handler) Shelf(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Shelf(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving shelf", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve shelf")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, view)
}

// Stock places an item into the first empty slot.
func (h *Handler) Stock(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	slot, err := h.service.Stock(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, shoperrors.ErrShopFull):
			h.logger.WarnContext(r.Context(), "Shop is full", "ID", id)
			web.RespondError(w, h.logger, http.StatusConflict, "Shop is full")
		case errors.Is(err, shoperrors.ErrAlreadyStocked):
			h.logger.WarnContext(r.Context(), "Item already stocked", "ID", id)
			web.RespondError(w, h.logger, http.StatusConflict, fmt.Sprintf("Item with ID %s is already stocked", id))
		default:
			h.respondItemError(w, r, err, fmt.Sprintf("Failed to stock item with ID %s", id))
		}
		return
	}
	h.logger.InfoContext(r.Context(), "Item stocked", "ID", id, "slot", slot)
	web.RespondJSON(w, h.logger, http.StatusOK, StockResponse{ID: id.String(), Slot: slot})
}

// Remove takes an item off the shelf and closes the gap.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, shoperrors.ErrNotStocked) {
			web.RespondError(w, h.logger, http.StatusNotFound, item.NotStockedNotice)
			return
		}
		h.respondItemError(w, r, err, fmt.Sprintf("Failed to remove item with ID %s", id))
		return
	}
	h.logger.InfoContext(r.Context(), "Item removed from shop", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondItemError maps ErrItemNotFound to 404 and anything else to 500 with the given message.
func (h *Handler) respondItemError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, shoperrors.ErrItemNotFound) {
		h.logger.WarnContext(r.Context(), "Item not found", "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, "Item not found")
		return
	}
	h.logger.ErrorContext(r.Context(), message, "error", err)
	web.RespondError(w, h.logger, http.StatusInternalServerError, message)
}

// decodeAndValidate reads the JSON body into dst and checks required fields.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
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
	return true
}
