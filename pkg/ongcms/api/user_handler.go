package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// credentialFields are never persisted through this API. Authentication and
// password handling live in a separate service; this one only manages the
// user records that note authors reference.
var credentialFields = []string{"password", "passwordHash"}

// UserHandler manages user accounts. Every route is protected.
type UserHandler struct {
	*EntityHandler
}

// NewUserHandler creates the user handler
func NewUserHandler(service ongcms.Service) *UserHandler {
	return &UserHandler{
		EntityHandler: NewEntityHandler(service, ongcms.Users),
	}
}

// Routes returns the routes for user management
func (h *UserHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(g chi.Router) {
		for _, m := range protect {
			g.Use(m)
		}
		g.Get("/", h.List)
		g.Get("/{id}", h.Get)
		g.Post("/", h.Create)
		g.Put("/{id}", h.Update)
		g.Delete("/{id}", h.Delete)
	})

	return r
}

// Create persists a new user, dropping any submitted credential fields
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, _, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	if name, _ := body["name"].(string); name == "" {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "name is required"})
		return
	}
	stripCredentials(body)

	doc, err := h.service.Create(r.Context(), h.descriptor, body, nil)
	if err != nil {
		slog.Error("Failed to create user", "error", err)
		writeError(w, r, "failed to create user", err)
		return
	}

	slog.Info("User created", "id", doc["id"])
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

// Update applies a partial update, dropping any submitted credential fields
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, _, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}
	stripCredentials(body)

	doc, err := h.service.Update(r.Context(), h.descriptor, id, body, nil)
	if err != nil {
		slog.Error("Failed to update user", "id", id, "error", err)
		writeError(w, r, "failed to update user", err)
		return
	}

	slog.Info("User updated", "id", id)
	render.JSON(w, r, doc)
}

func stripCredentials(body map[string]any) {
	for _, field := range credentialFields {
		delete(body, field)
	}
}
