package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"people-api/internal/repositories"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errEmptyBody is returned for a missing or null JSON body
var errEmptyBody = errors.New("request body is empty")

// decodeBody decodes a JSON body, rejecting empty and null payloads.
// Absent fields keep their zero value.
func decodeBody(body []byte, v interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errEmptyBody
	}
	return json.Unmarshal(trimmed, v)
}

// statusForError maps service errors onto HTTP status codes
func statusForError(err error) int {
	switch {
	case repositories.IsNotFound(err):
		return http.StatusNotFound
	case repositories.IsDuplicate(err):
		return http.StatusConflict
	case repositories.IsConnection(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
