package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// NewRouter builds the full API router. Reads on site content are open;
// all mutations require a verified JWT. Token issuance lives outside this
// service, only verification happens here.
func NewRouter(service ongcms.Service, tokenAuth *jwtauth.JWTAuth) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	protect := []func(http.Handler) http.Handler{
		jwtauth.Verifier(tokenAuth),
		jwtauth.Authenticator,
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Mount("/api/projects", NewEntityHandler(service, ongcms.Projects).Routes(protect...))
	r.Mount("/api/programs", NewEntityHandler(service, ongcms.Programs).Routes(protect...))
	r.Mount("/api/events", NewEntityHandler(service, ongcms.Events).Routes(protect...))
	r.Mount("/api/testimonies", NewEntityHandler(service, ongcms.Testimonies).Routes(protect...))
	r.Mount("/api/collaborators", NewCollaboratorHandler(service).Routes(protect...))
	r.Mount("/api/transparency", NewTransparencyHandler(service).Routes(protect...))
	r.Mount("/api/volunteers", NewVolunteerHandler(service).Routes(protect...))
	r.Mount("/api/users", NewUserHandler(service).Routes(protect...))

	// Notes are internal working documents; every route is protected.
	notes := NewEntityHandler(service, ongcms.Notes)
	r.Route("/api/notes", func(g chi.Router) {
		for _, m := range protect {
			g.Use(m)
		}
		g.Get("/", notes.List)
		g.Get("/{id}", notes.Get)
		g.Post("/", notes.Create)
		g.Put("/{id}", notes.Update)
		g.Delete("/{id}", notes.Delete)
	})

	return r
}
