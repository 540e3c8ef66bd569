package response

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/tvrec/tvrec-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]int{"count": 2}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"v":1,"success":true,"data":{"count":2}}`, w.Body.String())
}

func TestJSON_ErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusBadRequest, nil, discardLogger())

	assert.JSONEq(t, `{"v":1,"success":false}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "no route for /nope", discardLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeError(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "no route for /nope", env.Message)
	assert.Equal(t, env.Message, env.Error)
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowed(w, discardLogger())

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, w).Code)
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, "slow down", discardLogger())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Code)
}

func TestHandleError(t *testing.T) {
	t.Run("domain error keeps status and code", func(t *testing.T) {
		w := httptest.NewRecorder()

		HandleError(w, domainerrors.Unavailable("TMDB_API_KEY is not set"), discardLogger())

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decodeError(t, w)
		assert.Equal(t, "UNAVAILABLE", env.Code)
		assert.Equal(t, "TMDB_API_KEY is not set", env.Message)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()

		HandleError(w, errors.New("boom"), discardLogger())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeError(t, w)
		assert.Equal(t, "INTERNAL", env.Code)
		assert.NotContains(t, env.Message, "boom")
	})
}
