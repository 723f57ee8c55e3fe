package contact_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/contable/internal/contact"
	contactHandler "github.com/MrJamesThe3rd/contable/internal/http/contact"
)

func TestHandler_HidesOtherRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := contact.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/clients", contactHandler.NewHandler(contact.NewService(repo), contact.RoleClient).Routes)

	supplier := &contact.Contact{ID: uuid.New(), Role: contact.RoleSupplier, Name: "Distribuidora Norte"}
	client := &contact.Contact{ID: uuid.New(), Role: contact.RoleClient, Name: "Juan Pérez"}

	repo.EXPECT().GetContact(gomock.Any(), supplier.ID).Return(supplier, nil).Times(2)
	repo.EXPECT().GetContact(gomock.Any(), client.ID).Return(client, nil)

	t.Run("get supplier through clients", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/"+supplier.ID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete supplier through clients", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/clients/"+supplier.ID.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get client", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/"+client.ID.String(), nil))

		require.Equal(t, http.StatusOK, w.Code)

		var got contact.Contact
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, client.Name, got.Name)
	})
}

func TestIdentification(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/identification/{value}", contactHandler.Identification)

	type testCase struct {
		name      string
		value     string
		wantValid bool
		wantCode  string
	}

	tests := []testCase{
		{name: "valid ruc", value: "1792146738001", wantValid: true, wantCode: "04"},
		{name: "invalid cedula", value: "1712345676", wantValid: false, wantCode: "05"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/identification/"+tc.value, nil))

			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tc.wantValid, body["valid"])
			assert.Equal(t, tc.wantCode, body["buyerTypeCode"])
		})
	}
}
