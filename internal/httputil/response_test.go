package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, http.StatusOK, nil)

	assert.Empty(t, rec.Body.String())
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		detail string
	}{
		{"not found", func(w http.ResponseWriter) { WriteNotFound(w, "site not found") }, http.StatusNotFound, "site not found"},
		{"bad request", func(w http.ResponseWriter) { WriteBadRequest(w, "invalid JSON") }, http.StatusBadRequest, "invalid JSON"},
		{"unauthorized", func(w http.ResponseWriter) { WriteUnauthorized(w, "not authenticated") }, http.StatusUnauthorized, "not authenticated"},
		{"generic", func(w http.ResponseWriter) { WriteError(w, http.StatusInternalServerError, "boom") }, http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.detail, body["detail"])
		})
	}
}

func TestWriteUnauthorized_Challenge(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteUnauthorized(rec, "not authenticated")

	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestWriteStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteStatus(rec, http.StatusNoContent)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
