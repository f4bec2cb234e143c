package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp["error"]
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"count": 26})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count": 26}`, rec.Body.String())
}

func TestWriteJSONOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONOK(rec, map[string]int{"row": 10})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"row": 10}`, rec.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantMsg    string
	}{
		{"method_not_allowed", MethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
		{"bad_request", func(w http.ResponseWriter) { BadRequest(w, "bad row") }, http.StatusBadRequest, "bad row"},
		{"not_found", func(w http.ResponseWriter) { NotFound(w, "no gap") }, http.StatusNotFound, "no gap"},
		{"internal", func(w http.ResponseWriter) { InternalServerError(w, "boom") }, http.StatusInternalServerError, "boom"},
		{"custom", func(w http.ResponseWriter) { WriteJSONError(w, http.StatusTeapot, "tea") }, http.StatusTeapot, "tea"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			tc.write(rec)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMsg, decodeError(t, rec))
		})
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteHTML(rec, []byte("<html></html>"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html></html>", rec.Body.String())
}

func TestRequireMethod(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ok := RequireMethod(rec, httptest.NewRequest(http.MethodPost, "/", nil), http.MethodPost)
	assert.True(t, ok)
	assert.Zero(t, rec.Body.Len())

	rec = httptest.NewRecorder()
	ok = RequireMethod(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.MethodPost)
	assert.False(t, ok)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestQueryInt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		url     string
		want    int
		wantErr bool
	}{
		{"absent_uses_default", "/api/count", 2000000, false},
		{"present", "/api/count?row=10", 10, false},
		{"negative", "/api/count?row=-4", -4, false},
		{"not_a_number", "/api/count?row=ten", 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := QueryInt(httptest.NewRequest(http.MethodGet, tc.url, nil), "row", 2000000)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
