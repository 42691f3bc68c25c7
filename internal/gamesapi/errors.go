package gamesapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	OperationListGames = "list_games"
	OperationGetGame   = "get_game"
	OperationRegister  = "register"

	genericRegistrationMessage = "Registration failed! Try again."
)

// APIError is the single failure shape for every gateway call. Transport
// failures carry StatusCode 0 and the underlying error in Err.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status=%d)", e.Operation, e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError unwraps err into an APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage returns the text that should be shown to the visitor for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody covers the error shapes the backend produces. Field errors may be
// a plain string or a list of strings.
type errorBody struct {
	Error      json.RawMessage `json:"error"`
	Detail     json.RawMessage `json:"detail"`
	PickupGame json.RawMessage `json:"pickup_game"`
}

// messageFromBody picks error, then detail, then pickup_game.
func messageFromBody(body []byte) string {
	var payload errorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, raw := range []json.RawMessage{payload.Error, payload.Detail, payload.PickupGame} {
		if msg := flattenMessage(raw); msg != "" {
			return msg
		}
	}
	return ""
}

func flattenMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				parts = append(parts, item)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
