package ikea

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorHandler inspects a response before it is fed back into an endpoint.
// A non-nil error aborts the run.
type ErrorHandler func(resp *ResponseInfo) error

// Common handler sets.
var (
	restHandlers    = []ErrorHandler{Handle401, HandleJSONDecodeError, HandleNotSuccess}
	graphQLHandlers = []ErrorHandler{Handle401, HandleJSONDecodeError, HandleGraphQLError, HandleNotSuccess}
)

// Handle401 returns *AuthError for HTTP 401.
func Handle401(resp *ResponseInfo) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Response: resp}
	}
	return nil
}

// HandleJSONDecodeError returns *JSONError when the body is not valid JSON.
func HandleJSONDecodeError(resp *ResponseInfo) error {
	if json.Valid(resp.Body) {
		return nil
	}
	var probe any
	err := json.Unmarshal(resp.Body, &probe)
	if err == nil {
		err = errors.New("invalid JSON")
	}
	return &JSONError{Response: resp, Cause: err}
}

// HandleNotSuccess returns *APIError for any non-2xx status.
func HandleNotSuccess(resp *ResponseInfo) error {
	if resp.IsSuccess() {
		return nil
	}
	return NewAPIError(resp, "")
}

type graphQLEnvelope struct {
	Errors []GraphQLErrorEntry `json:"errors"`
}

// HandleGraphQLError returns *GraphQLError when the response carries an
// "errors" array. Batched responses (a JSON array of results) are scanned
// entry by entry and all errors are collected.
func HandleGraphQLError(resp *ResponseInfo) error {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return nil
	}

	var envelopes []graphQLEnvelope
	if body[0] == '[' {
		if err := json.Unmarshal(body, &envelopes); err != nil {
			return nil //nolint:nilerr // HandleJSONDecodeError owns malformed bodies
		}
	} else {
		var env graphQLEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil //nolint:nilerr // HandleJSONDecodeError owns malformed bodies
		}
		envelopes = append(envelopes, env)
	}

	var entries []GraphQLErrorEntry
	for _, env := range envelopes {
		entries = append(entries, env.Errors...)
	}
	if len(entries) == 0 {
		return nil
	}
	return &GraphQLError{Response: resp, Errors: entries}
}
