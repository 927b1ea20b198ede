package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"larder/internal/auth"
	"larder/internal/handler"
	"larder/internal/middleware"
	"larder/internal/store"
	ws "larder/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	inventoryH   *handler.InventoryHandler
	templateH    *handler.TemplateHandler
	authH        *handler.AuthHandler
	sessionStore *store.SessionStore
	logger       *slog.Logger
}

// New wires stores and handlers. inv is the selected inventory backend
// (local SQLite or hosted); db is always the local database, which holds
// sessions either way.
func New(db *sql.DB, inv store.Inventory, gate *auth.Gate, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	sessionStore := store.NewSessionStore(db)

	return &Server{
		db:           db,
		hub:          hub,
		inventoryH:   handler.NewInventoryHandler(inv, hub, logger.With("component", "inventory")),
		templateH:    handler.NewTemplateHandler(inv, hub, logger.With("component", "template")),
		authH:        handler.NewAuthHandler(gate, sessionStore, logger.With("component", "auth")),
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.authH.Login)
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// JSON API
	mux.HandleFunc("GET /api/items", s.inventoryH.List)
	mux.HandleFunc("POST /api/items", s.inventoryH.Create)
	mux.HandleFunc("POST /api/items/{id}/adjust", s.inventoryH.Adjust)
	mux.HandleFunc("DELETE /api/items/{id}", s.inventoryH.Delete)
	mux.HandleFunc("GET /api/categories", s.inventoryH.Categories)

	// Page + partials (HTMX)
	mux.HandleFunc("GET /", s.templateH.Index)
	mux.HandleFunc("GET /partials/items", s.templateH.ItemList)
	mux.HandleFunc("POST /partials/items", s.templateH.ItemAdd)
	mux.HandleFunc("POST /partials/items/{id}/increment", s.templateH.ItemIncrement)
	mux.HandleFunc("POST /partials/items/{id}/decrement", s.templateH.ItemDecrement)
	mux.HandleFunc("DELETE /partials/items/{id}", s.templateH.ItemDelete)

	// WebSocket live sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
