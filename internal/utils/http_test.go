package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{name: "object", data: map[string]string{"version": "1.0.0"}, status: http.StatusOK, wantBody: `{"version":"1.0.0"}`},
		{name: "error status", data: map[string]string{"message": "not found"}, status: http.StatusNotFound, wantBody: `{"message":"not found"}`},
		{name: "client closed request", data: map[string]string{"message": "Client closed request"}, status: 499, wantBody: `{"message":"Client closed request"}`},
		{name: "nil", data: nil, status: http.StatusOK, wantBody: `null`},
		{name: "raw message", data: map[string]any{"_inspect": []int{}}, status: http.StatusOK, wantBody: `{"_inspect":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, encodeErrorBody, w.Body.String())
}
