package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// TransparencyHandler serves transparency documents. Listing supports the
// public site's filters (category, free text, year, file type) with
// pagination; the admin listing is the same query without the isPublic
// restriction.
type TransparencyHandler struct {
	*EntityHandler
}

// NewTransparencyHandler creates the transparency handler
func NewTransparencyHandler(service ongcms.Service) *TransparencyHandler {
	return &TransparencyHandler{
		EntityHandler: NewEntityHandler(service, ongcms.Transparency),
	}
}

// Routes returns the routes for transparency documents
func (h *TransparencyHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublic)
	r.Get("/{id}", h.Get)

	r.Group(func(g chi.Router) {
		for _, m := range protect {
			g.Use(m)
		}
		g.Get("/all", h.ListAll)
		g.Post("/", h.Create)
		g.Put("/{id}", h.Update)
		g.Delete("/{id}", h.Delete)
	})

	return r
}

// pagedResponse wraps a filtered listing with its pagination state.
type pagedResponse struct {
	Page  int64             `json:"page"`
	Total int64             `json:"total"`
	Items []ongcms.Document `json:"items"`
}

// ListPublic lists public documents with filters and pagination
func (h *TransparencyHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q, page := listingQuery(r, 12)
	if q.Equals == nil {
		q.Equals = map[string]any{}
	}
	q.Equals["isPublic"] = true
	h.respondPage(w, r, q, page)
}

// ListAll lists every document, public or not
func (h *TransparencyHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q, page := listingQuery(r, 50)
	h.respondPage(w, r, q, page)
}

func (h *TransparencyHandler) respondPage(w http.ResponseWriter, r *http.Request, q ongcms.ListQuery, page int64) {
	docs, total, err := h.service.Query(r.Context(), h.descriptor, q)
	if err != nil {
		slog.Error("Failed to list transparency documents", "error", err)
		writeError(w, r, "failed to list transparency documents", err)
		return
	}
	if docs == nil {
		docs = []ongcms.Document{}
	}
	render.JSON(w, r, pagedResponse{Page: page, Total: total, Items: docs})
}

// Create coerces the isPublic form value before delegating
func (h *TransparencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, files, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	if title, _ := body["title"].(string); title == "" {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "title is required"})
		return
	}
	if category, _ := body["category"].(string); category == "" {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "category is required"})
		return
	}
	if len(files) == 0 {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "document file is required"})
		return
	}
	setFileMetadata(body, files[0])
	coerceBool(body, "isPublic")
	if _, ok := body["isPublic"]; !ok {
		body["isPublic"] = true
	}

	doc, err := h.service.Create(r.Context(), h.descriptor, body, files)
	if err != nil {
		slog.Error("Failed to create transparency document", "error", err)
		writeError(w, r, "failed to create transparency document", err)
		return
	}

	slog.Info("Transparency document created", "id", doc["id"])
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}

// Update coerces the isPublic form value before delegating
func (h *TransparencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, files, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}
	if len(files) > 0 {
		setFileMetadata(body, files[0])
	}
	coerceBool(body, "isPublic")

	doc, err := h.service.Update(r.Context(), h.descriptor, id, body, files)
	if err != nil {
		slog.Error("Failed to update transparency document", "id", id, "error", err)
		writeError(w, r, "failed to update transparency document", err)
		return
	}

	slog.Info("Transparency document updated", "id", id)
	render.JSON(w, r, doc)
}

// listingQuery translates the listing query string into a ListQuery.
func listingQuery(r *http.Request, defaultLimit int64) (ongcms.ListQuery, int64) {
	params := r.URL.Query()
	q := ongcms.ListQuery{}

	if category := params.Get("category"); category != "" {
		q.Equals = map[string]any{"category": category}
	}
	if term := params.Get("q"); term != "" {
		q.Match = append(q.Match, ongcms.TextMatch{
			Fields: []string{"title", "description", "tags"},
			Term:   term,
		})
	}
	if fileType := params.Get("type"); fileType != "" {
		q.Match = append(q.Match, ongcms.TextMatch{
			Fields: []string{"mimeType"},
			Term:   fileType,
		})
	}
	if year, err := strconv.Atoi(params.Get("year")); err == nil && year > 0 {
		q.TimeFields = []string{"publishedAt", "createdAt"}
		q.After = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q.Before = q.After.AddDate(1, 0, 0)
	}

	switch params.Get("sort") {
	case "old":
		q.Sort = []ongcms.SortField{{Field: "publishedAt"}, {Field: "createdAt"}}
	case "title":
		q.Sort = []ongcms.SortField{{Field: "title"}}
	case "published":
		q.Sort = []ongcms.SortField{{Field: "publishedAt", Desc: true}}
	}

	page := int64(1)
	if p, err := strconv.ParseInt(params.Get("page"), 10, 64); err == nil && p > 0 {
		page = p
	}
	limit := defaultLimit
	if l, err := strconv.ParseInt(params.Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	q.Skip = (page - 1) * limit
	q.Limit = limit

	return q, page
}

// setFileMetadata records the served file's facts on the document. The
// listing's type filter matches on the stored mimeType.
func setFileMetadata(body map[string]any, file ongcms.UploadFile) {
	body["mimeType"] = file.MimeType
	body["fileName"] = file.FileName
	body["size"] = len(file.Data)
}

func coerceBool(body map[string]any, field string) {
	if s, ok := body[field].(string); ok {
		body[field] = strings.EqualFold(strings.TrimSpace(s), "true")
	}
}
