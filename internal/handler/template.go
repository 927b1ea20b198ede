package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"larder/internal/inventory"
	"larder/internal/store"
	"larder/internal/websocket"
)

// TemplateHandler renders the inventory UI: one page, HTMX partials for the
// grouped list and the add form. Every mutation re-reads the list — the full
// reload is the only staleness recovery there is.
type TemplateHandler struct {
	inv       store.Inventory
	hub       *websocket.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewTemplateHandler(inv store.Inventory, hub *websocket.Hub, logger *slog.Logger) *TemplateHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/*.html"))
	return &TemplateHandler{
		inv:       inv,
		hub:       hub,
		templates: tmpl,
		logger:    logger,
	}
}

func (h *TemplateHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	items, err := h.inv.List(r.Context())
	if err != nil {
		h.logger.Error("list items", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		h.render(w, "layout.html", map[string]any{
			"Title":      "Larder",
			"StoreError": "The inventory store is unreachable. Try again in a moment.",
		})
		return
	}

	existing, err := h.inv.Categories(r.Context())
	if err != nil {
		h.logger.Error("list categories", "error", err)
		existing = nil
	}

	h.render(w, "layout.html", map[string]any{
		"Title":      "Larder",
		"Groups":     inventory.GroupByCategory(items),
		"Categories": inventory.MergeCategories(existing),
	})
}

// ItemList re-renders the grouped list partial.
func (h *TemplateHandler) ItemList(w http.ResponseWriter, r *http.Request) {
	h.renderItemGroups(w, r)
}

func (h *TemplateHandler) ItemAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		h.formError(w, "Name is required")
		return
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < 1 {
		h.formError(w, "Quantity must be at least 1")
		return
	}

	// A typed-in category wins over the select; both empty lands in Other.
	category := strings.TrimSpace(r.FormValue("new_category"))
	if category == "" {
		category = strings.TrimSpace(r.FormValue("category"))
	}
	if category == "" {
		category = inventory.DefaultCategory
	}

	item, err := h.inv.Insert(r.Context(), category, name, quantity, r.FormValue("notes"))
	if err != nil {
		h.storeErrorPartial(w, "create item", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemCreated, ItemID: item.ID, Quantity: item.Quantity})
	h.renderItemGroups(w, r)
}

func (h *TemplateHandler) ItemIncrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, +1)
}

func (h *TemplateHandler) ItemDecrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, -1)
}

func (h *TemplateHandler) adjust(w http.ResponseWriter, r *http.Request, delta int) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	quantity, err := h.inv.AdjustQuantity(r.Context(), id, delta)
	if errors.Is(err, store.ErrNotFound) {
		// Another visitor deleted it since our last render. The fresh list
		// below is the recovery.
		h.renderItemGroups(w, r)
		return
	}
	if err != nil {
		h.storeErrorPartial(w, "adjust quantity", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemAdjusted, ItemID: id, Quantity: quantity})
	h.renderItemGroups(w, r)
}

func (h *TemplateHandler) ItemDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.inv.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.storeErrorPartial(w, "delete item", err)
		return
	}

	h.hub.Broadcast(websocket.Event{Type: websocket.EventItemDeleted, ItemID: id})
	h.renderItemGroups(w, r)
}

// renderItemGroups re-reads the list and renders the grouped partial.
func (h *TemplateHandler) renderItemGroups(w http.ResponseWriter, r *http.Request) {
	items, err := h.inv.List(r.Context())
	if err != nil {
		h.storeErrorPartial(w, "list items", err)
		return
	}
	h.renderPartial(w, "item-groups", map[string]any{
		"Groups": inventory.GroupByCategory(items),
	})
}

func (h *TemplateHandler) storeErrorPartial(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, "error", err)
	msg := "Something went wrong. Try again."
	if errors.Is(err, store.ErrUnavailable) {
		msg = "The inventory store is unreachable. Try again in a moment."
	}
	h.formError(w, msg)
}

// formError renders an error message into the #form-message slot. The
// response stays 200 and retargets via headers: htmx does not swap bodies
// with status >= 400 by default, and swapping into the request's own target
// would clobber the item list.
func (h *TemplateHandler) formError(w http.ResponseWriter, msg string) {
	w.Header().Set("HX-Retarget", "#form-message")
	w.Header().Set("HX-Reswap", "innerHTML")
	h.renderPartial(w, "form-error", map[string]string{"Error": msg})
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
	}
}

func (h *TemplateHandler) renderPartial(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render partial", "template", name, "error", err)
	}
}
