// Package render holds the request decoding and response helpers shared by the HTTP handlers.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes msg as a JSON error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Fail maps err to a status with statusFor and writes it. Server errors are
// logged and their message is not exposed.
func Fail(w http.ResponseWriter, r *http.Request, err error, statusFor func(error) int) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Error(w, status, "internal error")

		return
	}

	Error(w, status, err.Error())
}

// Decode reads a JSON body into v and validates its struct tags. On failure it
// writes 400 for malformed bodies or 422 for validation errors and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field() + ": " + fe.Tag()
			}

			JSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  "validation failed",
				Fields: fields,
			})

			return false
		}

		Error(w, http.StatusBadRequest, err.Error())

		return false
	}

	return true
}

// ID parses the {id} URL parameter, writing 400 when it is not a UUID.
func ID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return UUIDParam(w, r, "id")
}

func UUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}

	return id, true
}

// Date parses an optional YYYY-MM-DD query parameter. Unparseable values are ignored.
func Date(r *http.Request, key string) *time.Time {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &t
}

// Bool reads a "true"/"1" query flag.
func Bool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "true", "1", "yes":
		return true
	}

	return false
}

// Attachment writes a downloadable file.
func Attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write attachment", "filename", filename, "error", err)
	}
}
