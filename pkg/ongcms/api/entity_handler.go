package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// EntityHandler serves the generic operations for one entity type. All
// specific entity endpoints are instances of this handler; collaborators,
// transparency documents, volunteer sign-ups and users add behavior on top.
type EntityHandler struct {
	service    ongcms.Service
	descriptor ongcms.EntityDescriptor
}

// NewEntityHandler creates a handler for the given descriptor
func NewEntityHandler(service ongcms.Service, descriptor ongcms.EntityDescriptor) *EntityHandler {
	return &EntityHandler{service: service, descriptor: descriptor}
}

// Routes returns the routes for the entity. Reads are open; writes go
// through the supplied auth middlewares.
func (h *EntityHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
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

// List returns all documents of the entity type
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context(), h.descriptor)
	if err != nil {
		slog.Error("Failed to list entities", "entity", h.descriptor.Name, "error", err)
		writeError(w, r, "failed to list "+h.descriptor.Name, err)
		return
	}
	if docs == nil {
		docs = []ongcms.Document{}
	}
	render.JSON(w, r, docs)
}

// Get returns one document by id
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.service.Get(r.Context(), h.descriptor, id)
	if err != nil {
		slog.Error("Failed to get entity", "entity", h.descriptor.Name, "id", id, "error", err)
		writeError(w, r, h.descriptor.Name+" not found", err)
		return
	}
	render.JSON(w, r, doc)
}

// Create persists a new document, uploading any attached files first
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, files, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	doc, err := h.service.Create(r.Context(), h.descriptor, body, files)
	if err != nil {
		slog.Error("Failed to create entity", "entity", h.descriptor.Name, "error", err)
		writeError(w, r, "failed to create "+h.descriptor.Name, err)
		return
	}

	slog.Info("Entity created", "entity", h.descriptor.Name, "id", doc["id"])
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

// Update applies a partial update, reconciling the attachment list
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, files, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	doc, err := h.service.Update(r.Context(), h.descriptor, id, body, files)
	if err != nil {
		slog.Error("Failed to update entity", "entity", h.descriptor.Name, "id", id, "error", err)
		writeError(w, r, "failed to update "+h.descriptor.Name, err)
		return
	}

	slog.Info("Entity updated", "entity", h.descriptor.Name, "id", id)
	render.JSON(w, r, doc)
}

// Delete removes the document and its remote attachments
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), h.descriptor, id); err != nil {
		slog.Error("Failed to delete entity", "entity", h.descriptor.Name, "id", id, "error", err)
		writeError(w, r, "failed to delete "+h.descriptor.Name, err)
		return
	}

	slog.Info("Entity deleted", "entity", h.descriptor.Name, "id", id)
	w.WriteHeader(http.StatusNoContent)
}
