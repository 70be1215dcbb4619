package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// volunteerRequiredFields must be present and non-empty on sign-up.
var volunteerRequiredFields = []string{"firstName", "lastName", "email", "phone"}

// VolunteerHandler receives volunteer sign-ups from the public site.
// Submissions are persisted with status "pending"; notifying the
// organization by email is handled elsewhere, the handler only records the
// emailSent flag.
type VolunteerHandler struct {
	*EntityHandler
}

// NewVolunteerHandler creates the volunteer handler
func NewVolunteerHandler(service ongcms.Service) *VolunteerHandler {
	return &VolunteerHandler{
		EntityHandler: NewEntityHandler(service, ongcms.Volunteers),
	}
}

// Routes returns the routes for volunteer sign-ups. Submitting is public;
// reading and managing submissions is not.
func (h *VolunteerHandler) Routes(protect ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Group(func(g chi.Router) {
		for _, m := range protect {
			g.Use(m)
		}
		g.Get("/", h.List)
		g.Get("/{id}", h.Get)
		g.Put("/{id}", h.Update)
		g.Delete("/{id}", h.Delete)
	})

	return r
}

// Create validates the sign-up form and records the submission
func (h *VolunteerHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, _, err := parseRequest(r)
	if err != nil {
		writeError(w, r, "invalid request", err)
		return
	}

	var missing []string
	for _, field := range volunteerRequiredFields {
		if value, _ := body[field].(string); strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		writeError(w, r, "invalid request", &ongcms.ValidationError{
			Reason: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		})
		return
	}

	email, _ := body["email"].(string)
	if !emailPattern.MatchString(email) {
		writeError(w, r, "invalid request", &ongcms.ValidationError{Reason: "invalid email format"})
		return
	}

	body["status"] = "pending"
	body["emailSent"] = false

	doc, err := h.service.Create(r.Context(), h.descriptor, body, nil)
	if err != nil {
		slog.Error("Failed to record volunteer sign-up", "error", err)
		writeError(w, r, "failed to record volunteer sign-up", err)
		return
	}

	slog.Info("Volunteer sign-up recorded", "id", doc["id"], "email", email)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, doc)
}
