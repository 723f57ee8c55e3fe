package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/contable/internal/auth"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// SessionRoutes are mounted without authentication.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Post("/login", h.login)
}

// UserRoutes expect Authenticate to have run.
func (h *Handler) UserRoutes(r chi.Router) {
	r.Get("/me", h.me)

	r.Group(func(r chi.Router) {
		r.Use(Require(auth.ModuleUsers))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type userResponse struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"firstName,omitempty"`
	LastName    string           `json:"lastName,omitempty"`
	IsAdmin     bool             `json:"isAdmin"`
	Status      auth.Status      `json:"status"`
	Permissions auth.Permissions `json:"permissions,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}

func toResponse(u *auth.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsAdmin:     u.IsAdmin,
		Status:      u.Status,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrDuplicateEmail), errors.Is(err, auth.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidPermission):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !render.Decode(w, r, &req) {
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toResponse(session.User),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		render.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

type userRequest struct {
	Email       string           `json:"email" validate:"required,email"`
	Password    string           `json:"password" validate:"omitempty,min=8"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	IsAdmin     bool             `json:"isAdmin"`
	Status      auth.Status      `json:"status" validate:"omitempty,oneof=active inactive"`
	Permissions auth.Permissions `json:"permissions"`
}

func (req userRequest) params() auth.UserParams {
	return auth.UserParams{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsAdmin:     req.IsAdmin,
		Status:      req.Status,
		Permissions: req.Permissions,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !render.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.CreateUser(r.Context(), req.params())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(u))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toResponse(u)
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	u, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	var req userRequest
	if !render.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), id, req.params())
	if err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(u))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := render.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		render.Fail(w, r, err, statusFor)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
