package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/pantry/internal/codec"
	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/ingredient"
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

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, document.ErrMealNotFound):
		return &APIError{Code: "MEAL_NOT_FOUND", Message: "meal not found", RecoveryHint: "Call list_sections for current meal ids"}
	case errors.Is(err, document.ErrIngredientNotFound):
		return &APIError{Code: "INGREDIENT_NOT_FOUND", Message: "ingredient not found", RecoveryHint: "Call get_meal for current ingredient ids"}
	case errors.Is(err, document.ErrInvalidOperation):
		return &APIError{Code: "INVALID_OPERATION", Message: err.Error()}
	case errors.Is(err, document.ErrInvalidInput), errors.Is(err, ingredient.ErrInvalidDate):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Names must not be blank; dates are YYYY-MM-DD"}
	case errors.Is(err, codec.ErrDecode):
		return &APIError{Code: "DECODE_ERROR", Message: err.Error(), RecoveryHint: "The document was left unchanged"}
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
