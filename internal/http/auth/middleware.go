package auth

import (
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/contable/internal/auth"
	"github.com/MrJamesThe3rd/contable/internal/http/render"
)

// Authenticate resolves the bearer token to a user and stores it in the request context.
func Authenticate(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				render.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			u, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				render.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
		})
	}
}

// Require rejects requests whose user lacks the action on module.
// Safe methods need view; POST needs create; PUT and PATCH need edit; DELETE needs delete.
func Require(module auth.Module) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFrom(r.Context())
			if !ok {
				render.Error(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			if !u.Can(module, actionFor(r.Method)) {
				render.Error(w, http.StatusForbidden, "missing permission")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func actionFor(method string) auth.Action {
	switch method {
	case http.MethodPost:
		return auth.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return auth.ActionEdit
	case http.MethodDelete:
		return auth.ActionDelete
	default:
		return auth.ActionView
	}
}
