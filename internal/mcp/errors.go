package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/reqindex/internal/domain/request"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, request.ErrRequestNotFound):
		return &APIError{Code: "REQUEST_NOT_FOUND", Message: "request not found", RecoveryHint: "Check the ID or call list_requests"}
	case errors.Is(err, request.ErrStoreUnavailable):
		return &APIError{Code: "STORE_UNAVAILABLE", Message: "request store unavailable", RecoveryHint: "Retry later or call refresh_index"}
	case errors.Is(err, request.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check the tool arguments"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
