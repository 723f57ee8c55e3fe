package render_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/contable/internal/http/render"
)

type payload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecode(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}

	tests := []testCase{
		{name: "valid", body: `{"name":"Ana","email":"ana@example.com"}`, wantOK: true, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "missing required field", body: `{"email":"ana@example.com"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "invalid email", body: `{"name":"Ana","email":"nope"}`, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var p payload

			ok := render.Decode(w, r, &p)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestFail_HidesServerErrors(t *testing.T) {
	statusFor := func(err error) int {
		if err.Error() == "not found" {
			return http.StatusNotFound
		}

		return http.StatusInternalServerError
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	render.Fail(w, r, errors.New("connection refused: secret host"), statusFor)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "internal error", body["error"])

	w = httptest.NewRecorder()
	render.Fail(w, r, errors.New("not found"), statusFor)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestDate(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?start_date=2024-01-31&end_date=bad", nil)

	start := render.Date(r, "start_date")
	require.NotNil(t, start)
	assert.Equal(t, "2024-01-31", start.Format("2006-01-02"))

	assert.Nil(t, render.Date(r, "end_date"))
	assert.Nil(t, render.Date(r, "missing"))
}
