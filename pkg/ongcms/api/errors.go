package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

// errorResponse is the error envelope returned by every handler.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// writeError maps the library error taxonomy onto HTTP statuses:
// validation -> 400, not found -> 404, everything else -> 500.
func writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := http.StatusInternalServerError
	detail := ""

	var validation *ongcms.ValidationError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		detail = validation.Reason
	case errors.Is(err, ongcms.ErrEntityNotFound):
		status = http.StatusNotFound
	default:
		detail = err.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Message: message, Error: detail})
}
