package document

import "errors"

var (
	// ErrMealNotFound indicates the meal is not part of the current document.
	ErrMealNotFound = errors.New("meal not found")
	// ErrIngredientNotFound indicates the ingredient is not in the expected meal.
	ErrIngredientNotFound = errors.New("ingredient not found")
	// ErrInvalidOperation is returned for requests rejected before any mutation.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInvalidInput is returned for blank names and contradictory edits.
	ErrInvalidInput = errors.New("invalid input")
)
