package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// encodeErrorBody is written when data cannot be encoded. It has the shape
// of every other error body the server sends.
const encodeErrorBody = `{"message":"error encoding response"}`

// WriteJSON serializes data to JSON and writes it with statusCode.
//
// If marshaling fails, it responds with 500 Internal Server Error and a
// {"message"} body, and returns a wrapped error. The returned int is the
// number of body bytes written.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	jsonData, err := json.Marshal(data)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeErrorBody))
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.WriteHeader(statusCode)
	return w.Write(jsonData)
}
