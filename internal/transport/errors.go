package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if msg := e.UserMessage(); msg != "" {
		return fmt.Sprintf("api: %d %s", e.Status, msg)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// UserMessage is the backend-provided text: message first, else the joined errors.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return strings.Join(e.Errors, "; ")
}

func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

type errorEnvelope struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  []json.RawMessage `json:"errors"`
}

type errorItem struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Field   string `json:"field"`
}

// parseAPIError builds an APIError from an error body shaped {message} or
// {errors: [...]}, where errors may be strings or objects.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var env errorEnvelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(env.Message)
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(env.Error)
	}
	for _, raw := range env.Errors {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if s = strings.TrimSpace(s); s != "" {
				apiErr.Errors = append(apiErr.Errors, s)
			}
			continue
		}
		var item errorItem
		if json.Unmarshal(raw, &item) != nil {
			continue
		}
		text := item.Message
		if text == "" {
			text = item.Msg
		}
		if text == "" {
			continue
		}
		if item.Field != "" {
			text = item.Field + ": " + text
		}
		apiErr.Errors = append(apiErr.Errors, text)
	}
	return apiErr
}
