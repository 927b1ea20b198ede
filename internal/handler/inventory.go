package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"larder/internal/inventory"
	"larder/internal/model"
	"larder/internal/store"
	"larder/internal/websocket"
)

// InventoryHandler is the JSON API over the inventory store.
type InventoryHandler struct {
	inv    store.Inventory
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewInventoryHandler(inv store.Inventory, hub *websocket.Hub, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{inv: inv, hub: hub, logger: logger}
}

type itemRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inv.List(r.Context())
	if err != nil {
		h.storeError(w, "list items", err)
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Quantity < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be at least 1"})
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		req.Category = inventory.DefaultCategory
	}

	item, err := h.inv.Insert(r.Context(), req.Category, req.Name, req.Quantity, req.Notes)
	if err != nil {
		h.storeError(w, "create item", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemCreated, ItemID: item.ID, Quantity: item.Quantity})
	writeJSON(w, http.StatusCreated, item)
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	quantity, err := h.inv.AdjustQuantity(r.Context(), id, req.Delta)
	if errors.Is(err, store.ErrNotFound) {
		// The caller acted on a stale list; a refresh fixes it.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	if err != nil {
		h.storeError(w, "adjust quantity", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemAdjusted, ItemID: id, Quantity: quantity})
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "quantity": quantity})
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	// Deleting an id that is already gone is a success from the caller's
	// perspective.
	if err := h.inv.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.storeError(w, "delete item", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemDeleted, ItemID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	existing, err := h.inv.Categories(r.Context())
	if err != nil {
		h.storeError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, inventory.MergeCategories(existing))
}

// storeError maps a store failure to a response. There is no retry; the user
// retries the action by hand.
func (h *InventoryHandler) storeError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, "error", err)
	if errors.Is(err, store.ErrUnavailable) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "inventory store unavailable"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to " + op})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
