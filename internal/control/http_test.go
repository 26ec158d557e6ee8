package control

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterStatus(t *testing.T) {
	ctl, _, _ := newTestController(t)
	r := NewRouter(ctl)

	rec := serve(t, r, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, Status{Digits: 4, Brightness: 7}, st)
}

func TestRouterApply(t *testing.T) {
	ctl, chip, _ := newTestController(t)
	r := NewRouter(ctl)

	rec := serve(t, r, http.MethodPost, "/api/number", "42\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []byte{0x00, 0x00, 0x66, 0x5B}, digits(chip))

	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "number 42", st.Last)
}

func TestRouterErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown op", http.MethodPost, "/api/bogus", "", http.StatusNotFound},
		{"bad argument", http.MethodPost, "/api/number", "x", http.StatusBadRequest},
		{"brightness out of range", http.MethodPost, "/api/brightness", "9", http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/number", "", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/status", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl, _, _ := newTestController(t)
			rec := serve(t, NewRouter(ctl), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouterPinError(t *testing.T) {
	ctl, chip, _ := newTestController(t)
	chip.CLK.Fail(errors.New("pin gone"))

	rec := serve(t, NewRouter(ctl), http.MethodPost, "/api/clear", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "pin gone")
}
