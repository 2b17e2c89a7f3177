//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const actorHeader = "X-Actor-ID"

// PerformRequest sends body as JSON and identifies the caller when actorID is set.
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, actorID string) *httptest.ResponseRecorder {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID != "" {
		req.Header.Set(actorHeader, actorID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeBody unmarshals the recorded body into target.
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response body: %s", w.Body.String())
}
