package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// CollaboratorHandler extends the generic handler with the collaborator
// rules: a name and exactly one logo are required on create, and a missing
// or zero display order gets the next free slot.
type CollaboratorHandler struct {
	*EntityHandler
}

// NewCollaboratorHandler creates the collaborator handler
func NewCollaboratorHandler(service ongcms.Service) *CollaboratorHandler {
	return &CollaboratorHandler{
		EntityHandler: NewEntityHandler(service, ongcms.Collaborators),
	}
}

// Routes returns the routes for collaborators
func (h *CollaboratorHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(g chi.Router) {
		for _, m := range protect {
			g.Use(m)
		}
		g.Post("/", h.Create)
		g.Put("/{id}", h.Update)
		g.Delete("/{id}", h.Delete)
	})

	return r
}

// Create requires name and logo and assigns a default order
func (h *CollaboratorHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, files, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	if name, _ := body["name"].(string); name == "" {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "name is required"})
		return
	}
	if len(files) == 0 {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "logo is required"})
		return
	}

	if orderMissing(body["order"]) {
		next, err := h.nextOrder(r)
		if err != nil {
			slog.Error("Failed to compute collaborator order", "error", err)
			writeError(w, r, "failed to create collaborator", err)
			return
		}
		body["order"] = next
	}

	doc, err := h.service.Create(r.Context(), h.descriptor, body, files)
	if err != nil {
		slog.Error("Failed to create collaborator", "error", err)
		writeError(w, r, "failed to create collaborator", err)
		return
	}

	slog.Info("Collaborator created", "id", doc["id"])
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

// nextOrder returns max existing order + 1, starting from 1.
func (h *CollaboratorHandler) nextOrder(r *http.Request) (float64, error) {
	docs, err := h.service.List(r.Context(), h.descriptor)
	if err != nil {
		return 0, err
	}

	max := float64(0)
	for _, doc := range docs {
		if order, ok := asOrder(doc["order"]); ok && order > max {
			max = order
		}
	}
	return max + 1, nil
}

func orderMissing(v any) bool {
	switch order := v.(type) {
	case nil:
		return true
	case string:
		return order == "" || order == "0"
	case float64:
		return order == 0
	case int:
		return order == 0
	}
	return false
}

func asOrder(v any) (float64, bool) {
	switch order := v.(type) {
	case float64:
		return order, true
	case int:
		return float64(order), true
	case int32:
		return float64(order), true
	case int64:
		return float64(order), true
	}
	return 0, false
}
