package ikea

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrUnauthorized is matched by every *AuthError.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTooManyRounds is returned by Run when an endpoint keeps yielding
	// requests past MaxRounds.
	ErrTooManyRounds = errors.New("endpoint exceeded round limit")

	// ErrWrongItemCode is returned when an item code resolves as neither an
	// article nor a combination.
	ErrWrongItemCode = errors.New("wrong item code")
)

// APIError is returned for non-2xx responses that no more specific handler
// claimed.
type APIError struct {
	Response *ResponseInfo
	Message  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s (%d)", http.StatusText(e.Response.StatusCode), e.Response.StatusCode)
	if e.Response.URL != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Response.URL)
	}
	if e.Message != "" {
		return msg + ": " + e.Message
	}
	if body := strings.TrimSpace(e.Response.Text()); body != "" {
		return msg + ": " + truncate(body, 300)
	}
	return msg
}

// NewAPIError creates an APIError.
func NewAPIError(resp *ResponseInfo, message string) *APIError {
	return &APIError{Response: resp, Message: message}
}

// AuthError is returned for HTTP 401 and failed logins.
type AuthError struct {
	Response *ResponseInfo
	Message  string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "auth error: " + e.Message
	}
	return "auth error: unauthorized"
}

// Is reports ErrUnauthorized.
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// JSONError is returned when a response body that should be JSON is not.
type JSONError struct {
	Response *ResponseInfo
	Cause    error
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("invalid JSON response (status %d): %v", e.Response.StatusCode, e.Cause)
}

func (e *JSONError) Unwrap() error {
	return e.Cause
}

// GraphQLErrorEntry is one element of a GraphQL "errors" array.
type GraphQLErrorEntry struct {
	Message    string            `json:"message"`
	Path       []any             `json:"path,omitempty"`
	Extensions GraphQLExtensions `json:"extensions"`
}

// GraphQLExtensions holds the machine-readable part of a GraphQL error.
type GraphQLExtensions struct {
	Code string          `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
}

// GraphQLError carries every error entry of a GraphQL response.
type GraphQLError struct {
	Response *ResponseInfo
	Errors   []GraphQLErrorEntry
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		m := entry.Message
		if entry.Extensions.Code != "" {
			m = fmt.Sprintf("%s [%s]", m, entry.Extensions.Code)
		}
		msgs = append(msgs, m)
	}
	return "graphql error: " + strings.Join(msgs, "; ")
}

// ItemFetchError is returned when item lookup fails, with the offending item
// codes when the upstream named them.
type ItemFetchError struct {
	Response  *ResponseInfo
	ItemCodes []string
	Message   string
	Cause     error
}

func (e *ItemFetchError) Error() string {
	msg := "item fetch error: " + e.Message
	if len(e.ItemCodes) > 0 {
		msg += " (" + strings.Join(e.ItemCodes, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ItemFetchError) Unwrap() error {
	return e.Cause
}

// StatusCode extracts the HTTP status from any error carrying a response, or 0.
func StatusCode(err error) int {
	var (
		apiErr  *APIError
		authErr *AuthError
		jsonErr *JSONError
		gqlErr  *GraphQLError
		itemErr *ItemFetchError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Response.StatusCode
	case errors.As(err, &authErr) && authErr.Response != nil:
		return authErr.Response.StatusCode
	case errors.As(err, &jsonErr):
		return jsonErr.Response.StatusCode
	case errors.As(err, &gqlErr):
		return gqlErr.Response.StatusCode
	case errors.As(err, &itemErr) && itemErr.Response != nil:
		return itemErr.Response.StatusCode
	default:
		return 0
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
