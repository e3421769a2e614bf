package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shaiso/Cardflow/internal/domain"
)

// ListCards возвращает все определения карточек.
// GET /api/v1/cards
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	defs := h.catalog.List()
	List(w, defs, len(defs))
}

// GetCard возвращает определение карточки.
// GET /api/v1/cards/{id}
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	def, ok := h.catalog.Definition(r.PathValue("id"))
	if !ok {
		NotFound(w, "card definition not found")
		return
	}
	Success(w, def)
}

// CreateCardInstance создаёт новую карточку из определения.
// Карточка не сохраняется: клиент добавляет её в свой pipeline.
// POST /api/v1/cards/{id}/instances
func (h *Handler) CreateCardInstance(w http.ResponseWriter, r *http.Request) {
	def, ok := h.catalog.Definition(r.PathValue("id"))
	if !ok {
		NotFound(w, "card definition not found")
		return
	}

	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		ValidationFailed(w, validationMessage(err))
		return
	}

	card := domain.NewCard(def, req.Position)
	if req.Name != "" {
		card.Name = req.Name
	}

	Created(w, card)
}
