package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is any failure reported by, or on the way to, the API server.
// Status is 0 when no HTTP response was received.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// newAPIError extracts a message from an error body. JARVICE answers with
// {"error": "..."}; RFC 7807 problem documents are accepted as well.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Title   string `json:"title"`
	}

	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, candidate := range []string{payload.Error, payload.Detail, payload.Message, payload.Title} {
			if candidate != "" {
				msg = candidate
				break
			}
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
